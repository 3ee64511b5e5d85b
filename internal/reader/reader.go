package reader

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"ridgeid/internal/capture"
	"ridgeid/internal/logging"
	"ridgeid/internal/matching"
	"ridgeid/internal/roster"
	"ridgeid/internal/services"
	"ridgeid/internal/template"
)

// Store is the slice of the roster the workflows need.
type Store interface {
	ListEnrolled(ctx context.Context) ([]roster.Enrollment, error)
	SetTemplate(ctx context.Context, studentID, encoded string) error
}

// Reader runs identification and enrollment against injected collaborators.
type Reader struct {
	source capture.Source
	store  Store
	logger *slog.Logger
}

// New builds a Reader. source may be nil when only template-based calls are
// used.
func New(source capture.Source, store Store, logger *slog.Logger) *Reader {
	return &Reader{
		source: source,
		store:  store,
		logger: logging.NewComponentLogger(logger, "reader"),
	}
}

// Identification is the outcome of matching one probe against the roster.
// Student is nil when nothing scored above the acceptance threshold.
type Identification struct {
	Matched   bool            `json:"matched"`
	Student   *roster.Student `json:"student,omitempty"`
	Score     float64         `json:"score"`
	BestScore float64         `json:"best_score"`
	Compared  int             `json:"compared"`
	Skipped   []matching.Skip `json:"-"`
	ProbeHash string          `json:"probe_hash,omitempty"`
	Blobs     int             `json:"probe_blobs"`
}

// WithCorrelation stamps ctx with a fresh correlation id unless one is set.
func WithCorrelation(ctx context.Context) context.Context {
	if _, ok := services.RequestIDFromContext(ctx); ok {
		return ctx
	}
	return services.WithRequestID(ctx, uuid.NewString())
}

// Scan captures one frame and derives its template.
func (r *Reader) Scan(ctx context.Context) (template.Template, error) {
	if r.source == nil {
		return template.Template{}, services.Wrap(services.ErrCaptureUnavailable, "reader", "scan", "no image source configured", nil)
	}
	frame, err := r.source.Capture(ctx)
	if err != nil {
		return template.Template{}, err
	}
	tpl, err := template.Extract(frame)
	if err != nil {
		return template.Template{}, err
	}
	logging.WithContext(ctx, r.logger).Debug("template extracted",
		logging.Int("blobs", tpl.Len()),
		logging.String("image_hash", tpl.ImageHash),
	)
	return tpl, nil
}

// Identify matches probe against every enrolled student.
func (r *Reader) Identify(ctx context.Context, probe template.Template) (Identification, error) {
	ctx = WithCorrelation(ctx)
	logger := logging.WithContext(ctx, r.logger)

	enrolled, err := r.store.ListEnrolled(ctx)
	if err != nil {
		return Identification{}, services.Wrap(services.ErrStorageUnavailable, "reader", "identify", "list enrolled templates", err)
	}

	candidates := make([]matching.Candidate, len(enrolled))
	for i, e := range enrolled {
		candidates[i] = matching.Candidate{Key: e.Student.StudentID, Encoded: e.Template}
	}
	res := matching.Identify(probe, candidates)

	for _, skip := range res.Skipped {
		logging.WarnWithContext(logger, "stored template unreadable; candidate skipped", "template_decode_failed",
			logging.String(logging.FieldStudentID, skip.Key),
			logging.Error(skip.Err),
			logging.String(logging.FieldErrorHint, "re-enroll the student"),
			logging.String(logging.FieldImpact, "student cannot be identified until re-enrolled"),
		)
	}

	out := Identification{
		Matched:   res.Matched,
		Score:     res.Score,
		BestScore: res.BestScore,
		Compared:  res.Compared,
		Skipped:   res.Skipped,
		ProbeHash: probe.ImageHash,
		Blobs:     probe.Len(),
	}
	if !res.Matched {
		logger.Info("no match found",
			logging.Float64("best_score", res.BestScore),
			logging.Int("compared", res.Compared),
			logging.Int("probe_blobs", probe.Len()),
		)
		return out, nil
	}

	student := enrolled[res.Index].Student
	out.Student = &student
	logger.Info("match found",
		logging.String(logging.FieldStudentID, student.StudentID),
		logging.Float64("score", res.Score),
		logging.Int("compared", res.Compared),
	)
	return out, nil
}

// IdentifyEncoded matches a probe supplied in stored text form. A malformed
// probe aborts with ErrMalformedTemplate.
func (r *Reader) IdentifyEncoded(ctx context.Context, encoded string) (Identification, error) {
	probe, err := template.Decode(encoded)
	if err != nil {
		return Identification{}, services.Wrap(services.ErrMalformedTemplate, "reader", "identify", "probe template", err)
	}
	return r.Identify(ctx, probe)
}

// Enroll stores tpl as the student's template, replacing any previous one.
func (r *Reader) Enroll(ctx context.Context, studentID string, tpl *template.Template) error {
	ctx = WithCorrelation(services.WithStudentID(ctx, studentID))
	logger := logging.WithContext(ctx, r.logger)

	if tpl == nil {
		return services.Wrap(services.ErrNoTemplateCaptured, "reader", "enroll", "no template to store", nil)
	}
	if strings.TrimSpace(studentID) == "" {
		return services.Wrap(services.ErrValidation, "reader", "enroll", "student id is required", nil)
	}
	encoded, err := template.Encode(*tpl)
	if err != nil {
		return err
	}
	if err := r.store.SetTemplate(ctx, studentID, encoded); err != nil {
		if errors.Is(err, roster.ErrStudentNotFound) {
			return services.Wrap(services.ErrNotFound, "reader", "enroll", "unknown student "+studentID, err)
		}
		return services.Wrap(services.ErrStorageUnavailable, "reader", "enroll", "store template", err)
	}
	logger.Info("template enrolled",
		logging.Int("blobs", tpl.Len()),
		logging.String("image_hash", tpl.ImageHash),
	)
	return nil
}

// ScanAndIdentify captures a probe and identifies it.
func (r *Reader) ScanAndIdentify(ctx context.Context) (Identification, error) {
	ctx = WithCorrelation(ctx)
	probe, err := r.Scan(ctx)
	if err != nil {
		return Identification{}, err
	}
	return r.Identify(ctx, probe)
}

// ScanAndEnroll captures a template and enrolls it for studentID.
func (r *Reader) ScanAndEnroll(ctx context.Context, studentID string) (template.Template, error) {
	ctx = WithCorrelation(ctx)
	tpl, err := r.Scan(ctx)
	if err != nil {
		return template.Template{}, err
	}
	return tpl, r.Enroll(ctx, studentID, &tpl)
}
