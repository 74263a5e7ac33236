package respond

import (
	"errors"

	"github.com/kuvalkin/classroom-accounts/internal/service/account"
)

type AccountJSON struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func Account(s *account.Summary) AccountJSON {
	return AccountJSON{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Role:      s.Role.String(),
	}
}

func Accounts(list []*account.Summary) []AccountJSON {
	result := make([]AccountJSON, 0, len(list))
	for _, s := range list {
		result = append(result, Account(s))
	}

	return result
}

// Roles converts roles to plain strings for JSON bodies.
func Roles(roles []account.Role) []string {
	result := make([]string, 0, len(roles))
	for _, r := range roles {
		result = append(result, r.String())
	}

	return result
}

// Details is the diagnostic string sent along with a 5xx response.
func Details(err error) string {
	var datastoreErr *account.DatastoreError
	if errors.As(err, &datastoreErr) {
		return datastoreErr.Details
	}

	return err.Error()
}
