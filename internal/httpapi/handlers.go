package httpapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"ridgeid/internal/capture"
	"ridgeid/internal/matching"
	"ridgeid/internal/roster"
	"ridgeid/internal/services"
	"ridgeid/internal/template"
)

func (s *Server) handleHealth(c *fiber.Ctx) error {
	database := "ok"
	if err := s.store.Ping(c.UserContext()); err != nil {
		database = err.Error()
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"database": database,
		"time":     time.Now().UTC(),
	})
}

func (s *Server) handleStudents(c *fiber.Ctx) error {
	students, err := s.store.ListStudents(c.UserContext())
	if err != nil {
		return services.Wrap(services.ErrStorageUnavailable, "api", "list students", "", err)
	}
	resp := StudentsResponse{Students: students}
	if resp.Students == nil {
		resp.Students = []roster.Student{}
	}
	return c.JSON(resp)
}

func (s *Server) handleStudent(c *fiber.Ctx) error {
	id := c.Params("id")
	st, err := s.store.GetStudent(c.UserContext(), id)
	if err != nil {
		return services.Wrap(services.ErrStorageUnavailable, "api", "get student", id, err)
	}
	if st == nil {
		return services.Wrap(services.ErrNotFound, "api", "get student", "unknown student "+id, nil)
	}
	return c.JSON(st)
}

func (s *Server) handleEnroll(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	var req ImageRequest
	if err := c.BodyParser(&req); err != nil {
		return services.Wrap(services.ErrValidation, "api", "enroll", "invalid request body", err)
	}
	tpl, err := templateFromImage(req.Image, "image")
	if err != nil {
		return err
	}
	ctx := services.WithStudentID(c.UserContext(), id)
	if err := s.reader.Enroll(ctx, id, &tpl); err != nil {
		return err
	}
	encoded, err := template.Encode(tpl)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(EnrollResponse{
		StudentID: id,
		Blobs:     tpl.Len(),
		ImageHash: tpl.ImageHash,
		Template:  encoded,
	})
}

func (s *Server) handleIdentify(c *fiber.Ctx) error {
	start := time.Now()
	var req IdentifyRequest
	if err := c.BodyParser(&req); err != nil {
		return services.Wrap(services.ErrValidation, "api", "identify", "invalid request body", err)
	}
	probe, err := templateFromEither(req.Image, req.Template, "image", "template")
	if err != nil {
		return err
	}
	res, err := s.reader.Identify(c.UserContext(), probe)
	if err != nil {
		return err
	}
	return c.JSON(IdentifyResponse{
		Matched:   res.Matched,
		Student:   res.Student,
		Score:     res.Score,
		BestScore: res.BestScore,
		Compared:  res.Compared,
		Skipped:   len(res.Skipped),
		Elapsed:   time.Since(start).String(),
	})
}

func (s *Server) handleCompare(c *fiber.Ctx) error {
	start := time.Now()
	var req CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return services.Wrap(services.ErrValidation, "api", "compare", "invalid request body", err)
	}
	probe, err := templateFromEither(req.ProbeImage, req.ProbeTemplate, "probe_image", "probe_template")
	if err != nil {
		return err
	}
	candidate, err := templateFromEither(req.CandidateImage, req.CandidateTemplate, "candidate_image", "candidate_template")
	if err != nil {
		return err
	}
	score := matching.Score(probe, candidate)
	return c.JSON(CompareResponse{
		Score:          score,
		Match:          score > matching.AcceptanceThreshold,
		ProbeBlobs:     probe.Len(),
		CandidateBlobs: candidate.Len(),
		Elapsed:        time.Since(start).String(),
	})
}

func templateFromEither(image, encoded, imageField, templateField string) (template.Template, error) {
	switch {
	case strings.TrimSpace(encoded) != "":
		return template.Decode(encoded)
	case strings.TrimSpace(image) != "":
		return templateFromImage(image, imageField)
	default:
		return template.Template{}, services.Wrap(services.ErrValidation, "api", "", imageField+" or "+templateField+" is required", nil)
	}
}

func templateFromImage(image, field string) (template.Template, error) {
	if strings.TrimSpace(image) == "" {
		return template.Template{}, services.Wrap(services.ErrValidation, "api", "", field+" is required", nil)
	}
	raster, err := capture.DecodeBase64(image)
	if err != nil {
		return template.Template{}, services.Wrap(services.ErrValidation, "api", "", "invalid "+field, err)
	}
	return template.Extract(raster)
}
