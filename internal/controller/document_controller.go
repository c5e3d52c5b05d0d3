package controller

import (
	"strconv"

	"document-search-be/internal/pkg/serverutils"
	"document-search-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Recent(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.ISearchService
}

func NewDocumentController(service service.ISearchService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Get("/recent", c.Recent)
}

func (c *documentController) Recent(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "5"))

	res, err := c.service.RecentDocuments(ctx.Context(), limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get recent documents", res))
}
