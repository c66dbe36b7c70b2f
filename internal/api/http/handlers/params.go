package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/institute-service/pkg/util"
)

func parseID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewInvalidRequest("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return id, nil
}

func invalidPayload() error {
	return apperrors.NewInvalidRequest("invalid payload", nil)
}
