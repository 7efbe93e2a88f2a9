package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/dto"
	"github.com/WzGTO/ai-video-poster-pro-sub001/domain/services"
	"github.com/WzGTO/ai-video-poster-pro-sub001/pkg/utils"
)

type ProductHandler struct {
	productService services.ProductService
}

func NewProductHandler(productService services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if fieldErrors := utils.ValidateStruct(&req); len(fieldErrors) > 0 {
		return utils.ValidationErrorResponse(c, fieldErrors)
	}

	product, err := h.productService.CreateProduct(c.UserContext(), user.ID, &req)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.CreatedResponse(c, dto.ToProductResponse(product))
}

func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	productID, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid product ID")
	}

	product, err := h.productService.GetProduct(c.UserContext(), user.ID, productID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.ToProductResponse(product))
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.ListRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid query parameters")
	}
	req.Normalize()

	products, total, err := h.productService.ListProducts(c.UserContext(), user.ID, req.Page, req.Limit)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.PaginatedSuccessResponse(c, dto.ToProductResponses(products), total, req.Page, req.Limit)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	productID, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid product ID")
	}

	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestResponse(c, "Invalid request body")
	}
	if fieldErrors := utils.ValidateStruct(&req); len(fieldErrors) > 0 {
		return utils.ValidationErrorResponse(c, fieldErrors)
	}

	product, err := h.productService.UpdateProduct(c.UserContext(), user.ID, productID, &req)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.ToProductResponse(product))
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	productID, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid product ID")
	}

	if err := h.productService.DeleteProduct(c.UserContext(), user.ID, productID); err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.NoContentResponse(c)
}

// InitStorage สร้าง blob folder ของ product - ต้องเรียกก่อนสั่ง production
func (h *ProductHandler) InitStorage(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	productID, err := parseIDParam(c)
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid product ID")
	}

	product, err := h.productService.InitStorage(c.UserContext(), user.ID, productID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, dto.ToProductResponse(product))
}
