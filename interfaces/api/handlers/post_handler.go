package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/dto"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/services"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/utils"
)

type PostHandler struct {
	postService      services.PostService
	publisherService services.PublisherService
}

func NewPostHandler(postService services.PostService, publisherService services.PublisherService) *PostHandler {
	return &PostHandler{
		postService:      postService,
		publisherService: publisherService,
	}
}

// Create สร้าง post ใหม่ (draft หรือ scheduled)
func (h *PostHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if fieldErrors := utils.ValidateStruct(&req); len(fieldErrors) > 0 {
		return utils.ValidationErrorResponse(c, fieldErrors)
	}

	post, err := h.postService.CreatePost(c.UserContext(), user.ID, &req)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.CreatedResponse(c, dto.ToPostResponse(post))
}

// GetByID รายละเอียด post
func (h *PostHandler) GetByID(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	postID, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid post ID")
	}

	post, err := h.postService.GetPost(c.UserContext(), user.ID, postID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.ToPostResponse(post))
}

// List posts ของ user (paginated)
func (h *PostHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.ListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid query parameters")
	}
	req.Normalize()

	posts, total, err := h.postService.ListPosts(c.UserContext(), user.ID, req.Page, req.Limit)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.PaginatedSuccessResponse(c, dto.ToPostResponses(posts), total, req.Page, req.Limit)
}

// Reschedule เลื่อนเวลาโพสต์
func (h *PostHandler) Reschedule(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	postID, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid post ID")
	}

	var req dto.ReschedulePostRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if fieldErrors := utils.ValidateStruct(&req); len(fieldErrors) > 0 {
		return utils.ValidationErrorResponse(c, fieldErrors)
	}

	post, err := h.postService.Reschedule(c.UserContext(), user.ID, postID, &req)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.ToPostResponse(post))
}

// Cancel ยกเลิก post (draft/scheduled เท่านั้น)
func (h *PostHandler) Cancel(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	postID, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid post ID")
	}

	if err := h.postService.Cancel(c.UserContext(), user.ID, postID); err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.NoContentResponse(c)
}

// PublishNow โพสต์ทันที ข้าม schedule
func (h *PostHandler) PublishNow(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	postID, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid post ID")
	}

	result, err := h.publisherService.PublishNow(c.UserContext(), user.ID, postID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, result)
}

// RefreshAnalytics ดึง analytics ล่าสุดของ post จาก platform
func (h *PostHandler) RefreshAnalytics(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	postID, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid post ID")
	}

	if err := h.publisherService.RefreshAnalytics(c.UserContext(), user.ID, postID); err != nil {
		return serviceErrorResponse(c, err)
	}

	post, err := h.postService.GetPost(c.UserContext(), user.ID, postID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.ToPostResponse(post))
}
