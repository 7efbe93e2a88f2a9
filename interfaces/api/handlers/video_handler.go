package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/dto"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/ports"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/services"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/utils"
)

type VideoHandler struct {
	productionService services.ProductionService
	storage           ports.StoragePort
}

func NewVideoHandler(productionService services.ProductionService, storage ports.StoragePort) *VideoHandler {
	return &VideoHandler{
		productionService: productionService,
		storage:           storage,
	}
}

// Generate รับงานสร้างวิดีโอเข้า pipeline - ตอบ 202 ทันที
func (h *VideoHandler) Generate(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.GenerateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if fieldErrors := utils.ValidateStruct(&req); len(fieldErrors) > 0 {
		return utils.ValidationErrorResponse(c, fieldErrors)
	}

	resp, err := h.productionService.StartProduction(c.UserContext(), user.ID, &req)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(utils.Response{
		Success: true,
		Data:    resp,
	})
}

// GetStatus สถานะ + progress ของ video
func (h *VideoHandler) GetStatus(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	videoID, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid video ID")
	}

	status, err := h.productionService.GetStatus(c.UserContext(), user.ID, videoID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, status)
}

// GetByID รายละเอียด video
func (h *VideoHandler) GetByID(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	videoID, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid video ID")
	}

	video, err := h.productionService.GetVideo(c.UserContext(), user.ID, videoID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.ToVideoResponse(video, h.storage.GetFileURL))
}

// List videos ของ user (paginated)
func (h *VideoHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.ListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid query parameters")
	}
	req.Normalize()

	videos, total, err := h.productionService.ListVideos(c.UserContext(), user.ID, req.Page, req.Limit)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.PaginatedSuccessResponse(c, dto.ToVideoResponses(videos, h.storage.GetFileURL), total, req.Page, req.Limit)
}

// Delete ลบ video - reject ระหว่าง pipeline ทำงาน
func (h *VideoHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	videoID, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid video ID")
	}

	if err := h.productionService.DeleteVideo(c.UserContext(), user.ID, videoID); err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.NoContentResponse(c)
}
