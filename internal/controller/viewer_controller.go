package controller

import (
	"errors"

	"medvault-be/internal/dto"
	"medvault-be/internal/pkg/serverutils"
	"medvault-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IViewerController interface {
	RegisterRoutes(r fiber.Router)
	Open(ctx *fiber.Ctx) error
	State(ctx *fiber.Ctx) error
	Zoom(ctx *fiber.Ctx) error
	ResetZoom(ctx *fiber.Ctx) error
	Pan(ctx *fiber.Ctx) error
	Page(ctx *fiber.Ctx) error
	Key(ctx *fiber.Ctx) error
	Fullscreen(ctx *fiber.Ctx) error
	Image(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
}

type viewerController struct {
	viewerService service.IViewerService
	authMw        fiber.Handler
}

func NewViewerController(viewerService service.IViewerService, authMw fiber.Handler) IViewerController {
	return &viewerController{
		viewerService: viewerService,
		authMw:        authMw,
	}
}

func (c *viewerController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/viewer")
	h.Use(c.authMw)
	h.Post("sessions", c.Open)
	h.Get("sessions/:id", c.State)
	h.Post("sessions/:id/zoom", c.Zoom)
	h.Post("sessions/:id/zoom/reset", c.ResetZoom)
	h.Post("sessions/:id/pan", c.Pan)
	h.Post("sessions/:id/page", c.Page)
	h.Post("sessions/:id/key", c.Key)
	h.Post("sessions/:id/fullscreen", c.Fullscreen)
	h.Get("sessions/:id/image", c.Image)
	h.Delete("sessions/:id", c.Close)
}

func (c *viewerController) Open(ctx *fiber.Ctx) error {
	var req dto.OpenViewerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.viewerService.Open(ctx.Context(), serverutils.UserID(ctx), &req)
	if err != nil {
		return viewerError(err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success open viewer", res))
}

func (c *viewerController) State(ctx *fiber.Ctx) error {
	res, err := c.viewerService.State(serverutils.UserID(ctx), ctx.Params("id"))
	if err != nil {
		return viewerError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get viewer state", res))
}

func (c *viewerController) Zoom(ctx *fiber.Ctx) error {
	var req dto.ViewerZoomRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.viewerService.Zoom(serverutils.UserID(ctx), ctx.Params("id"), req.Delta)
	if err != nil {
		return viewerError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success zoom", res))
}

func (c *viewerController) ResetZoom(ctx *fiber.Ctx) error {
	res, err := c.viewerService.ResetZoom(serverutils.UserID(ctx), ctx.Params("id"))
	if err != nil {
		return viewerError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success reset zoom", res))
}

func (c *viewerController) Pan(ctx *fiber.Ctx) error {
	var req dto.ViewerPanRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.viewerService.Pan(serverutils.UserID(ctx), ctx.Params("id"), req.X, req.Y)
	if err != nil {
		return viewerError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success pan", res))
}

func (c *viewerController) Page(ctx *fiber.Ctx) error {
	var req dto.ViewerPageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.viewerService.SetPage(serverutils.UserID(ctx), ctx.Params("id"), req.Page)
	if err != nil {
		return viewerError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success set page", res))
}

func (c *viewerController) Key(ctx *fiber.Ctx) error {
	var req dto.ViewerKeyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.viewerService.Key(serverutils.UserID(ctx), ctx.Params("id"), req.Key)
	if err != nil {
		return viewerError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success handle key", res))
}

func (c *viewerController) Fullscreen(ctx *fiber.Ctx) error {
	res, err := c.viewerService.ToggleFullscreen(serverutils.UserID(ctx), ctx.Params("id"))
	if err != nil {
		return viewerError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success toggle fullscreen", res))
}

func (c *viewerController) Image(ctx *fiber.Ctx) error {
	data, err := c.viewerService.PageImage(serverutils.UserID(ctx), ctx.Params("id"))
	if err != nil {
		return viewerError(err)
	}
	ctx.Set(fiber.HeaderContentType, "image/png")
	return ctx.Send(data)
}

func (c *viewerController) Close(ctx *fiber.Ctx) error {
	c.viewerService.Close(serverutils.UserID(ctx), ctx.Params("id"))
	return ctx.JSON(serverutils.SuccessResponse("Success close viewer", nil))
}

func viewerError(err error) error {
	if errors.Is(err, service.ErrViewerSessionNotFound) || errors.Is(err, service.ErrDocumentNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}
