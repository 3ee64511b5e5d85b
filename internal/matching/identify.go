package matching

import (
	"strings"

	"ridgeid/internal/services"
	"ridgeid/internal/template"
)

// AcceptanceThreshold is the score a candidate must strictly exceed to be
// reported as a match.
const AcceptanceThreshold = 0.7

// Candidate is one enrolled identity as stored. An empty Encoded value means
// the identity has no template and is passed over silently.
type Candidate struct {
	Key     string
	Encoded string
}

// Skip records a candidate whose stored template could not be read.
type Skip struct {
	Key string
	Err error
}

// Result is the outcome of one identification pass. When Matched is false,
// Key is empty and Index is -1; BestScore is always the highest score
// observed, accepted or not.
type Result struct {
	Matched   bool
	Key       string
	Index     int
	Score     float64
	BestScore float64
	Compared  int
	Skipped   []Skip
}

// Identify compares probe against every candidate in order and returns the
// highest scoring one that exceeds AcceptanceThreshold. Ties keep the earliest
// candidate. Candidates with unreadable templates are skipped and reported in
// Result.Skipped.
func Identify(probe template.Template, candidates []Candidate) Result {
	res := Result{Index: -1}
	best := 0.0
	for i, c := range candidates {
		if strings.TrimSpace(c.Encoded) == "" {
			continue
		}
		stored, err := template.Decode(c.Encoded)
		if err != nil {
			res.Skipped = append(res.Skipped, Skip{Key: c.Key, Err: err})
			continue
		}
		res.Compared++
		s := Score(probe, stored)
		if s > res.BestScore {
			res.BestScore = s
		}
		if s > best && s > AcceptanceThreshold {
			best = s
			res.Matched = true
			res.Key = c.Key
			res.Index = i
			res.Score = s
		}
	}
	return res
}

// IdentifyEncoded decodes the probe first. A probe that cannot be decoded
// aborts the pass with ErrMalformedTemplate.
func IdentifyEncoded(probe string, candidates []Candidate) (Result, error) {
	tpl, err := template.Decode(probe)
	if err != nil {
		return Result{Index: -1}, services.Wrap(services.ErrMalformedTemplate, "matching", "identify", "probe template", err)
	}
	return Identify(tpl, candidates), nil
}
