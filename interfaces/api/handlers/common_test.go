package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/WzGTO/ai-video-poster-pro-sub001/application/serviceimpl"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/utils"
)

// TestServiceErrorResponse ตรวจ mapping จาก service error เป็น HTTP status + error code
func TestServiceErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"product not found", serviceimpl.ErrProductNotFound, fiber.StatusNotFound, utils.ErrCodeNotFound},
		{"video not found", serviceimpl.ErrVideoNotFound, fiber.StatusNotFound, utils.ErrCodeNotFound},
		{"post not found", serviceimpl.ErrPostNotFound, fiber.StatusNotFound, utils.ErrCodeNotFound},
		{"folder not initialized", serviceimpl.ErrFolderNotInitialized, fiber.StatusBadRequest, utils.ErrCodeFolderNotInitialized},
		{"video processing", serviceimpl.ErrVideoProcessing, fiber.StatusBadRequest, utils.ErrCodeVideoProcessing},
		{"insufficient disk", serviceimpl.ErrInsufficientDisk, fiber.StatusServiceUnavailable, utils.ErrCodeInsufficientDisk},
		{"script required", serviceimpl.ErrScriptRequired, fiber.StatusBadRequest, utils.ErrCodeBadRequest},
		{"schedule in past", serviceimpl.ErrScheduleInPast, fiber.StatusBadRequest, utils.ErrCodeBadRequest},
		{"cannot reschedule", serviceimpl.ErrCannotReschedule, fiber.StatusBadRequest, utils.ErrCodeBadRequest},
		{"cannot cancel", serviceimpl.ErrCannotCancel, fiber.StatusBadRequest, utils.ErrCodeBadRequest},
		{"post not publishable", serviceimpl.ErrPostNotPublishable, fiber.StatusBadRequest, utils.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/svc-error", func(c *fiber.Ctx) error {
				return serviceErrorResponse(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/svc-error", nil))
			if err != nil {
				t.Fatalf("app.Test failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var body utils.Response
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body.Success {
				t.Error("expected success=false")
			}
			if body.Error == nil || body.Error.Code != tt.wantCode {
				t.Errorf("error code = %v, want %s", body.Error, tt.wantCode)
			}
		})
	}
}
