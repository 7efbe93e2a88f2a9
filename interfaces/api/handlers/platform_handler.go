package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/WzGTO/ai-video-poster-pro-sub001/infrastructure/platform"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/utils"
)

// PlatformHandler จัดการ OAuth flow ของ platform ที่ต้อง user consent
type PlatformHandler struct {
	youtube *platform.YouTubeAdapter
}

func NewPlatformHandler(youtube *platform.YouTubeAdapter) *PlatformHandler {
	return &PlatformHandler{youtube: youtube}
}

// YouTubeAuthURL คืน consent URL สำหรับเชื่อมบัญชี YouTube
// state = user id เพื่อ map callback กลับมาหา user
func (h *PlatformHandler) YouTubeAuthURL(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	if h.youtube == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, utils.ErrCodePlatformAuth, "YouTube integration is not configured", nil)
	}

	return utils.SuccessResponse(c, fiber.Map{
		"authUrl": h.youtube.GetAuthURL(user.ID.String()),
	})
}

// YouTubeCallback แลก authorization code เป็น token แล้วเก็บ credential
func (h *PlatformHandler) YouTubeCallback(c *fiber.Ctx) error {
	if h.youtube == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, utils.ErrCodePlatformAuth, "YouTube integration is not configured", nil)
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return utils.BadRequestResponse(c, "Missing code or state parameter")
	}

	userID, err := uuid.Parse(state)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid state parameter")
	}

	cred, err := h.youtube.ExchangeAndSaveToken(c.UserContext(), code, userID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadGateway, utils.ErrCodePlatformAuth, "Failed to exchange authorization code", nil)
	}

	return utils.SuccessResponse(c, fiber.Map{
		"platform":    cred.Platform,
		"connectedAt": cred.CreatedAt,
	})
}
