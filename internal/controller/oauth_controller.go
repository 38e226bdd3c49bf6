package controller

import (
	"fmt"

	"medvault-be/internal/pkg/serverutils"
	"medvault-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	oauthService service.IOAuthService
	clientURL    string
}

func NewOAuthController(oauthService service.IOAuthService, clientURL string) IOAuthController {
	return &oauthController{
		oauthService: oauthService,
		clientURL:    clientURL,
	}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/oauth")
	h.Get(":provider/login", c.Login)
	h.Get(":provider/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	url, err := c.oauthService.GetLoginURL(ctx.Params("provider"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return ctx.Redirect(url, fiber.StatusTemporaryRedirect)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing authorization code")
	}

	pair, err := c.oauthService.HandleCallback(ctx.Context(), ctx.Params("provider"), code, ctx.IP(), ctx.Get("User-Agent"))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	// Browser flows land back on the client app with the pair in the
	// fragment; API flows read the JSON body.
	if c.clientURL != "" && ctx.Accepts("html", "json") == "html" {
		redirect := fmt.Sprintf("%s/oauth/complete#access_token=%s&refresh_token=%s",
			c.clientURL, pair.AccessToken, pair.RefreshToken)
		return ctx.Redirect(redirect, fiber.StatusTemporaryRedirect)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success login with provider", pair))
}
