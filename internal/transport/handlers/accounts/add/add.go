package add

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

type payload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func (h *Handler) Handle(ctx *fiber.Ctx) error {
	var p *payload

	if err := ctx.BodyParser(&p); err != nil || p == nil {
		log.Logger().Debugw("invalid payload", "err", err, "requestid", ctx.Locals("requestid"))

		ctx.Status(fiber.StatusBadRequest)

		return ctx.JSON(fiber.Map{"message": "Invalid user data."})
	}

	_, err := h.accountService.Add(ctx.Context(), &account.AdminInput{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Role:      p.Role,
	})
	if err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			ctx.Status(fiber.StatusBadRequest)

			return ctx.JSON(fiber.Map{"message": err.Error()})
		}

		ctx.Status(fiber.StatusInternalServerError)

		return ctx.JSON(fiber.Map{"message": "An error occurred while adding the user.", "error": respond.Details(err)})
	}

	ctx.Status(fiber.StatusOK)

	return ctx.JSON(fiber.Map{"message": "User added successfully."})
}
