package httpapi

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ridgeid/internal/logging"
	"ridgeid/internal/services"
)

// authMiddleware validates bearer tokens. An empty token disables the check.
// The health probe is always reachable.
func authMiddleware(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" || c.Path() == "/health" {
			return c.Next()
		}
		auth := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(auth, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		if subtle.ConstantTimeCompare([]byte(strings.TrimPrefix(auth, "Bearer ")), []byte(token)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		return c.Next()
	}
}

// requestContext attaches a request id to the user context and logs the
// request once it completes.
func (s *Server) requestContext(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Get(fiber.HeaderXRequestID))
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)
	c.SetUserContext(services.WithRequestID(c.UserContext(), id))

	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else {
			status = statusForError(err)
		}
	}
	logging.WithContext(c.UserContext(), s.logger).Info("request handled",
		logging.String("method", c.Method()),
		logging.String("path", c.Path()),
		logging.Int("status", status),
		logging.Duration("elapsed", time.Since(start)),
	)
	return err
}

func (s *Server) serialize(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.Next()
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ErrorResponse{Error: fe.Message})
	}
	status := statusForError(err)
	if status >= fiber.StatusInternalServerError {
		logging.ErrorWithContext(logging.WithContext(c.UserContext(), s.logger), "request failed", "api_request_failed",
			logging.String("path", c.Path()),
			logging.Error(err),
		)
	}
	return c.Status(status).JSON(ErrorResponse{Error: err.Error(), Kind: services.Kind(err)})
}

func statusForError(err error) int {
	switch services.Kind(err) {
	case "validation", "malformed_template", "no_template_captured", "capture_unavailable":
		return fiber.StatusBadRequest
	case "extraction_failed":
		return fiber.StatusUnprocessableEntity
	case "not_found":
		return fiber.StatusNotFound
	case "storage_unavailable":
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
