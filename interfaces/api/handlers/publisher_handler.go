package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/services"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/utils"
)

// PublisherHandler manual trigger สำหรับ publisher jobs (นอกเหนือจาก cron)
type PublisherHandler struct {
	publisherService services.PublisherService
}

func NewPublisherHandler(publisherService services.PublisherService) *PublisherHandler {
	return &PublisherHandler{publisherService: publisherService}
}

// RunBatch สั่งรัน publish batch ทันที
func (h *PublisherHandler) RunBatch(c *fiber.Ctx) error {
	result, err := h.publisherService.RunBatch(c.UserContext())
	if err != nil {
		return utils.InternalServerErrorResponse(c)
	}
	return utils.SuccessResponse(c, result)
}

// RefreshAllAnalytics สั่งรัน analytics refresh ทันที
func (h *PublisherHandler) RefreshAllAnalytics(c *fiber.Ctx) error {
	if err := h.publisherService.RefreshAllAnalytics(c.UserContext()); err != nil {
		return utils.InternalServerErrorResponse(c)
	}
	return utils.SuccessResponse(c, fiber.Map{"status": "completed"})
}
