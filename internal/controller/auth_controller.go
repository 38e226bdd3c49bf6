package controller

import (
	"medvault-be/internal/dto"
	"medvault-be/internal/pkg/serverutils"
	"medvault-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Refresh(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
	ForgotPassword(ctx *fiber.Ctx) error
	ResetPassword(ctx *fiber.Ctx) error
}

type authController struct {
	authService service.IAuthService
	authMw      fiber.Handler
}

func NewAuthController(authService service.IAuthService, authMw fiber.Handler) IAuthController {
	return &authController{
		authService: authService,
		authMw:      authMw,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("register", c.Register)
	h.Post("login", c.Login)
	h.Post("refresh", c.Refresh)
	h.Post("logout", c.Logout)
	h.Post("forgot-password", c.ForgotPassword)
	h.Post("reset-password", c.ResetPassword)
	h.Get("me", c.authMw, c.Me)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.authService.Register(ctx.Context(), &req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success register user", res))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.authService.Login(ctx.Context(), &req, ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success login", res))
}

func (c *authController) Refresh(ctx *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.authService.Refresh(ctx.Context(), req.RefreshToken, ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success refresh token", res))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := c.authService.Logout(ctx.Context(), req.RefreshToken); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success logout", nil))
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	res, err := c.authService.Me(ctx.Context(), serverutils.UserID(ctx))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

func (c *authController) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.authService.ForgotPassword(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("If the email exists, a reset link has been sent", nil))
}

func (c *authController) ResetPassword(ctx *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.authService.ResetPassword(ctx.Context(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset password", nil))
}
