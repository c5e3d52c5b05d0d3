package controller

import (
	"document-search-be/internal/dto"
	"document-search-be/internal/pkg/serverutils"
	"document-search-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
}

type searchController struct {
	service service.ISearchService
}

func NewSearchController(service service.ISearchService) ISearchController {
	return &searchController{service: service}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search/v1")
	h.Get("", c.Search)
	h.Post("", c.Search)
}

// Search accepts the query either as query parameters (GET) or JSON body
// (POST). The response is the raw results/pagination shape, not the
// success envelope, to match the documented contract.
func (c *searchController) Search(ctx *fiber.Ctx) error {
	var req dto.SearchRequest

	if ctx.Method() == fiber.MethodPost {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	} else {
		if err := ctx.QueryParser(&req); err != nil {
			return err
		}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
