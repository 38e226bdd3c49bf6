package controller

import (
	"errors"

	"medvault-be/internal/dto"
	"medvault-be/internal/pkg/serverutils"
	"medvault-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISettingsController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	UpdateProfile(ctx *fiber.Ctx) error
	UpdateApiKey(ctx *fiber.Ctx) error
	DeleteApiKey(ctx *fiber.Ctx) error
}

type settingsController struct {
	settingsService service.ISettingsService
	authMw          fiber.Handler
}

func NewSettingsController(settingsService service.ISettingsService, authMw fiber.Handler) ISettingsController {
	return &settingsController{
		settingsService: settingsService,
		authMw:          authMw,
	}
}

func (c *settingsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/settings")
	h.Use(c.authMw)
	h.Get("", c.Show)
	h.Put("profile", c.UpdateProfile)
	h.Put("api-key", c.UpdateApiKey)
	h.Delete("api-key", c.DeleteApiKey)
}

func (c *settingsController) Show(ctx *fiber.Ctx) error {
	res, err := c.settingsService.Get(ctx.Context(), serverutils.UserID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get settings", res))
}

func (c *settingsController) UpdateProfile(ctx *fiber.Ctx) error {
	var req dto.UpdateProfileRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.settingsService.UpdateProfile(ctx.Context(), serverutils.UserID(ctx), &req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update profile", res))
}

func (c *settingsController) UpdateApiKey(ctx *fiber.Ctx) error {
	var req dto.UpdateApiKeyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.settingsService.UpdateApiKey(ctx.Context(), serverutils.UserID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update API key", res))
}

func (c *settingsController) DeleteApiKey(ctx *fiber.Ctx) error {
	if err := c.settingsService.DeleteApiKey(ctx.Context(), serverutils.UserID(ctx)); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete API key", nil))
}
