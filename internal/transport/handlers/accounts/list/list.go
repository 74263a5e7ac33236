package list

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kuvalkin/classroom-accounts/internal/service/account"
	"github.com/kuvalkin/classroom-accounts/internal/transport/handlers/internal/respond"
)

type Handler struct {
	accountService account.Service
}

func New(accountService account.Service) *Handler {
	return &Handler{
		accountService: accountService,
	}
}

func (h *Handler) Handle(ctx *fiber.Ctx) error {
	list, err := h.accountService.List(ctx.Context())
	if err != nil {
		ctx.Status(fiber.StatusInternalServerError)

		return ctx.JSON(fiber.Map{"message": "Internal server error", "error": respond.Details(err)})
	}

	ctx.Status(fiber.StatusOK)

	return ctx.JSON(respond.Accounts(list))
}
