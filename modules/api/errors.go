package api

import (
	"errors"
	"log"

	"github.com/bkluczynski-zz/node-todo-app/domain/apperror"
	"github.com/gofiber/fiber/v2"
)

// writeError maps a port error onto an HTTP response.
func writeError(c *fiber.Ctx, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperror.KindValidation, apperror.KindConflict:
			fields := appErr.Fields
			if len(fields) == 0 {
				fields = map[string]string{"message": appErr.Message}
			}
			return c.Status(fiber.StatusBadRequest).JSON(ValidationErrorResponse{Errors: fields})
		case apperror.KindNotFound:
			return emptyStatus(c, fiber.StatusNotFound)
		case apperror.KindUnauthorized:
			return emptyStatus(c, fiber.StatusUnauthorized)
		}
	}

	log.Printf("[api] Request %s %s failed: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// emptyStatus responds with status and no body.
func emptyStatus(c *fiber.Ctx, status int) error {
	return c.Status(status).Send(nil)
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: "Invalid request body",
	})
}

// customErrorHandler handles errors returned by Fiber itself.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
