package matching

import (
	"math"

	"ridgeid/internal/template"
)

const (
	countWeight = 0.6
	areaWeight  = 0.4
)

// Score returns the similarity of two templates in [0, 1]. It blends how
// closely the blob counts agree with how closely the mean blob areas agree.
// Either template being empty scores 0. The result does not depend on
// argument order.
func Score(a, b template.Template) float64 {
	if a.Empty() || b.Empty() {
		return 0
	}
	na, nb := float64(a.Len()), float64(b.Len())
	countSim := math.Min(na, nb) / math.Max(na, nb)

	meanA, meanB := a.MeanArea(), b.MeanArea()
	areaSim := 0.0
	if m := math.Max(meanA, meanB); m > 0 {
		areaSim = 1 - math.Abs(meanA-meanB)/m
	}

	return clamp(countWeight*countSim+areaWeight*areaSim, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
