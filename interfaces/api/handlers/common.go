package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/application/serviceimpl"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/utils"
)

// currentUser ดึง user context ที่ Protected middleware ใส่ไว้
func currentUser(c *fiber.Ctx) (*utils.UserContext, error) {
	return utils.GetUserFromContext(c)
}

// parseIDParam อ่าน :id param เป็น uuid
func parseIDParam(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// serviceErrorResponse แปลง service error เป็น HTTP response ที่ถูกต้อง
func serviceErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, serviceimpl.ErrProductNotFound),
		errors.Is(err, serviceimpl.ErrVideoNotFound),
		errors.Is(err, serviceimpl.ErrPostNotFound):
		return utils.NotFoundResponse(c, err.Error())

	case errors.Is(err, serviceimpl.ErrFolderNotInitialized):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, utils.ErrCodeFolderNotInitialized, err.Error(), nil)

	case errors.Is(err, serviceimpl.ErrVideoProcessing):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, utils.ErrCodeVideoProcessing, err.Error(), nil)

	case errors.Is(err, serviceimpl.ErrInsufficientDisk):
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, utils.ErrCodeInsufficientDisk, err.Error(), nil)

	case errors.Is(err, serviceimpl.ErrScriptRequired),
		errors.Is(err, serviceimpl.ErrInvalidPlatform),
		errors.Is(err, serviceimpl.ErrScheduleInPast),
		errors.Is(err, serviceimpl.ErrVideoNotReady),
		errors.Is(err, serviceimpl.ErrPostNotPosted):
		return utils.BadRequestResponse(c, err.Error())

	case errors.Is(err, serviceimpl.ErrCannotReschedule),
		errors.Is(err, serviceimpl.ErrCannotCancel),
		errors.Is(err, serviceimpl.ErrPostNotPublishable):
		return utils.BadRequestResponse(c, err.Error())

	default:
		return utils.InternalServerErrorResponse(c)
	}
}
