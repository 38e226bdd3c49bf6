package controller

import (
	"medvault-be/internal/dto"
	"medvault-be/internal/pkg/serverutils"
	"medvault-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	SearchReports(ctx *fiber.Ctx) error
}

type searchController struct {
	searchService service.ISearchService
	authMw        fiber.Handler
}

func NewSearchController(searchService service.ISearchService, authMw fiber.Handler) ISearchController {
	return &searchController{
		searchService: searchService,
		authMw:        authMw,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search")
	h.Use(c.authMw)
	h.Get("reports", c.SearchReports)
}

func (c *searchController) SearchReports(ctx *fiber.Ctx) error {
	req := dto.SearchReportsRequest{
		Query: ctx.Query("q"),
		Limit: ctx.QueryInt("limit", 0),
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.SearchReports(ctx.Context(), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search reports", res))
}
