package http

import (
	"craftfolio/internal/usecase"
	"craftfolio/pkg/apperror"
	"craftfolio/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler turns any error returned by a handler into the JSON error
// payload. Internal errors are logged and reported without details.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	appErr := apperror.As(err)
	logError(c, appErr)
	return c.Status(appErr.Code).JSON(errorBody(appErr))
}

// chatError answers a failed chat edit. The body carries a userReply so the
// client always has something to show.
func chatError(c *fiber.Ctx, err error) error {
	appErr := apperror.As(err)
	logError(c, appErr)

	body := errorBody(appErr)
	body["details"] = details(appErr)
	body["userReply"] = usecase.ErrorReply
	if appErr.Kind == apperror.KindPatchApply {
		body["applied"] = appErr.Applied
	}
	return c.Status(appErr.Code).JSON(body)
}

func errorBody(appErr *apperror.AppError) fiber.Map {
	body := fiber.Map{
		"error": appErr.Message,
		"kind":  appErr.Kind,
	}
	if appErr.Raw != "" {
		body["raw"] = appErr.Raw
	}
	return body
}

func details(appErr *apperror.AppError) string {
	if appErr.Kind == apperror.KindInternal || appErr.Err == nil {
		return appErr.Message
	}
	return appErr.Err.Error()
}

func logError(c *fiber.Ctx, appErr *apperror.AppError) {
	attrs := []any{
		"method", c.Method(),
		"path", c.Path(),
		"kind", appErr.Kind,
		"error", appErr.Error(),
	}
	if appErr.Code >= fiber.StatusInternalServerError {
		logger.Log.Error("request failed", attrs...)
		if appErr.Raw != "" {
			logger.Log.Debug("raw model output", "path", c.Path(), "raw", appErr.Raw)
		}
		return
	}
	logger.Log.Warn("request rejected", attrs...)
}
