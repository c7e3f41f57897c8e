package handlers

import (
	"context"
	"errors"
	"strconv"

	"brewery/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// OutcomeKind tags the result of a handler operation.
type OutcomeKind int

const (
	OutcomeFound OutcomeKind = iota
	OutcomeNotFound
	OutcomeInvalid
	OutcomeMalformed
	OutcomeConflict
	OutcomeCreated
	OutcomeUpdated
	OutcomeDeleted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeConflict:
		return "conflict"
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Outcome is the domain result of a handler operation, rendered by a ResponseMapper.
type Outcome struct {
	Kind       OutcomeKind
	Value      interface{}
	ID         uint
	Message    string
	Violations []validation.FieldError
}

func found(value interface{}) Outcome { return Outcome{Kind: OutcomeFound, Value: value} }

func notFound() Outcome { return Outcome{Kind: OutcomeNotFound} }

func malformed(message string) Outcome { return Outcome{Kind: OutcomeMalformed, Message: message} }

func invalid(violations []validation.FieldError) Outcome {
	return Outcome{Kind: OutcomeInvalid, Message: "Validation failed", Violations: violations}
}

func conflict(message string) Outcome { return Outcome{Kind: OutcomeConflict, Message: message} }

// ErrorBody is the JSON body of 4xx responses that carry one.
type ErrorBody struct {
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// ResponseMapper turns outcomes into HTTP responses for one API surface.
type ResponseMapper struct {
	// BasePath is the collection path used to build Location headers, e.g. "/api/v1/beer".
	BasePath      string
	CreatedStatus int
	DeletedStatus int
}

// V1Responses is the policy of the annotated-controller surface.
func V1Responses(basePath string) ResponseMapper {
	return ResponseMapper{BasePath: basePath, CreatedStatus: fiber.StatusCreated, DeletedStatus: fiber.StatusOK}
}

// V2Responses is the policy of the functional-routing surface.
func V2Responses(basePath string) ResponseMapper {
	return ResponseMapper{BasePath: basePath, CreatedStatus: fiber.StatusNoContent, DeletedStatus: fiber.StatusNoContent}
}

// Write renders o on c.
func (m ResponseMapper) Write(c *fiber.Ctx, o Outcome) error {
	switch o.Kind {
	case OutcomeFound:
		return c.Status(fiber.StatusOK).JSON(o.Value)
	case OutcomeNotFound:
		c.Status(fiber.StatusNotFound)
		return nil
	case OutcomeInvalid, OutcomeMalformed:
		return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Message: o.Message, Errors: o.Violations})
	case OutcomeConflict:
		return c.Status(fiber.StatusConflict).JSON(ErrorBody{Message: o.Message})
	case OutcomeCreated:
		c.Set(fiber.HeaderLocation, m.BasePath+"/"+strconv.FormatUint(uint64(o.ID), 10))
		c.Status(m.CreatedStatus)
		return nil
	case OutcomeUpdated:
		c.Status(fiber.StatusNoContent)
		return nil
	case OutcomeDeleted:
		c.Status(m.DeletedStatus)
		return nil
	default:
		return errors.New("unknown handler outcome " + o.Kind.String())
	}
}

// ErrorHandler renders errors that escape the handlers. Internal error text is logged, never sent.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			c.Status(fiberErr.Code)
			return nil
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			log.Warn().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request abandoned before completion")
			c.Status(fiber.StatusServiceUnavailable)
			return nil
		default:
			log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorBody{
				Message: "Internal Server Error",
			})
		}
	}
}
