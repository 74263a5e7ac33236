package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/kuvalkin/classroom-accounts/internal/service/account"
	"github.com/kuvalkin/classroom-accounts/internal/support/log"
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

// userName carries the email; clients still send it under the old name.
type payload struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

func (h *Handler) Handle(ctx *fiber.Ctx) error {
	p := new(payload)

	if err := ctx.BodyParser(p); err != nil {
		log.Logger().Debugw("invalid payload", "err", err, "requestid", ctx.Locals("requestid"))

		ctx.Status(fiber.StatusBadRequest)

		return ctx.JSON(fiber.Map{"message": "missing credentials"})
	}

	summary, err := h.accountService.Login(ctx.Context(), p.UserName, p.Password)
	if err != nil {
		if errors.Is(err, account.ErrValidation) {
			ctx.Status(fiber.StatusBadRequest)

			return ctx.JSON(fiber.Map{"message": err.Error()})
		}

		if errors.Is(err, account.ErrInvalidCredentials) {
			ctx.Status(fiber.StatusUnauthorized)

			return ctx.JSON(fiber.Map{"message": err.Error()})
		}

		ctx.Status(fiber.StatusInternalServerError)

		return ctx.JSON(fiber.Map{"message": "An error occurred during login.", "error": respond.Details(err)})
	}

	ctx.Status(fiber.StatusOK)

	return ctx.JSON(respond.Account(summary))
}
