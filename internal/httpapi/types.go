package httpapi

import "ridgeid/internal/roster"

// ImageRequest carries a base64 image, optionally as a data URL.
type ImageRequest struct {
	Image string `json:"image"`
}

// IdentifyRequest accepts either an image or an already encoded template.
type IdentifyRequest struct {
	Image    string `json:"image,omitempty"`
	Template string `json:"template,omitempty"`
}

// IdentifyResponse reports the identification outcome.
type IdentifyResponse struct {
	Matched   bool            `json:"matched"`
	Student   *roster.Student `json:"student,omitempty"`
	Score     float64         `json:"score"`
	BestScore float64         `json:"best_score"`
	Compared  int             `json:"compared"`
	Skipped   int             `json:"skipped"`
	Elapsed   string          `json:"elapsed"`
}

// EnrollResponse reports a stored template.
type EnrollResponse struct {
	StudentID string `json:"student_id"`
	Blobs     int    `json:"blobs"`
	ImageHash string `json:"image_hash"`
	Template  string `json:"template"`
}

// CompareRequest scores two samples against each other. Each side may be an
// image or an encoded template.
type CompareRequest struct {
	ProbeImage        string `json:"probe_image,omitempty"`
	CandidateImage    string `json:"candidate_image,omitempty"`
	ProbeTemplate     string `json:"probe_template,omitempty"`
	CandidateTemplate string `json:"candidate_template,omitempty"`
}

// CompareResponse reports a pairwise score.
type CompareResponse struct {
	Score          float64 `json:"score"`
	Match          bool    `json:"match"`
	ProbeBlobs     int     `json:"probe_blobs"`
	CandidateBlobs int     `json:"candidate_blobs"`
	Elapsed        string  `json:"elapsed"`
}

// StudentsResponse lists roster entries.
type StudentsResponse struct {
	Students []roster.Student `json:"students"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
