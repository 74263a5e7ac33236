package register

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

type userJSON struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func (h *Handler) Handle(ctx *fiber.Ctx) error {
	p := new(account.Input)

	if err := ctx.BodyParser(p); err != nil {
		log.Logger().Debugw("invalid payload", "err", err, "requestid", ctx.Locals("requestid"))

		ctx.Status(fiber.StatusBadRequest)

		return ctx.JSON(fiber.Map{"error": "invalid payload"})
	}

	summary, err := h.accountService.Register(ctx.Context(), p)
	if err != nil {
		return h.handleError(ctx, err)
	}

	ctx.Status(fiber.StatusOK)

	return ctx.JSON(fiber.Map{
		"message": "User registered successfully",
		"user": userJSON{
			FirstName: summary.FirstName,
			LastName:  summary.LastName,
			Email:     summary.Email,
			Role:      summary.Role.String(),
		},
	})
}

func (h *Handler) handleError(ctx *fiber.Ctx, err error) error {
	var validationErr *account.ValidationError
	if errors.As(err, &validationErr) {
		body := fiber.Map{"error": validationErr.Reason}
		if len(validationErr.Fields) > 0 {
			body["fields"] = validationErr.Fields
		}

		if len(validationErr.AllowedValues) > 0 {
			body["allowedValues"] = respond.Roles(validationErr.AllowedValues)
		}

		ctx.Status(fiber.StatusBadRequest)

		return ctx.JSON(body)
	}

	if errors.Is(err, account.ErrEmailTaken) {
		ctx.Status(fiber.StatusBadRequest)

		return ctx.JSON(fiber.Map{"error": err.Error()})
	}

	var datastoreErr *account.DatastoreError
	if errors.As(err, &datastoreErr) {
		ctx.Status(fiber.StatusInternalServerError)

		return ctx.JSON(fiber.Map{"error": "Database error", "details": datastoreErr.Details})
	}

	ctx.Status(fiber.StatusInternalServerError)

	return ctx.JSON(fiber.Map{"error": "Internal server error", "details": err.Error()})
}
