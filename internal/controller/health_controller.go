package controller

import (
	"github.com/gofiber/fiber/v2"

	"docqa-be/internal/service"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	sessionService service.ISessionService
}

func NewHealthController(sessionService service.ISessionService) IHealthController {
	return &healthController{sessionService: sessionService}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(c.sessionService.ServiceHealth(ctx.Context()))
}
