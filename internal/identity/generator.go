// Package identity produces the two unique identifiers assigned to every
// employee: the numeric employee ID and the mnemonic login ID. Both follow
// the same generate-candidate / check-store / bounded-retry pattern; the
// store's unique indexes remain the final arbiter under concurrency.
package identity

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	errors "github.com/frahmantamala/employee-records/internal"
)

// Store is the slice of the record store the generators need.
type Store interface {
	ExistsByID(id string) (bool, error)
	ExistsByLoginID(loginID string) (bool, error)
}

const (
	// employeeIDSuffix marks IDs minted by this system.
	employeeIDSuffix = "1"

	maxAttempts = 1000
)

type Generator struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Generator {
	return &Generator{store: store, logger: logger}
}

// EmployeeID draws random 5-digit zero-padded candidates with the fixed
// suffix digit appended until the store reports one unused. The retry
// budget matches the login generator's.
func (g *Generator) EmployeeID() (string, error) {
	id, err := g.unique(
		func(int) string {
			return fmt.Sprintf("%05d%s", rand.Intn(100000), employeeIDSuffix)
		},
		g.store.ExistsByID,
	)
	if err == errBudgetExhausted {
		return "", errors.NewResourceExhaustedError(
			fmt.Sprintf("Unable to generate a unique employee ID after %d attempts", maxAttempts),
			errors.ErrCodeEmployeeIDExhausted)
	}
	if err != nil {
		return "", errors.NewInternalError("failed to check employee ID uniqueness", err)
	}
	return id, nil
}

// LoginID prefers the bare lowercase initials; when those are taken it
// disambiguates with a random 3-digit zero-padded suffix.
func (g *Generator) LoginID(firstName, lastName string) (string, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)

	if firstName == "" {
		return "", errors.NewValidationFieldError("first_name", "First name must not be empty", errors.ErrCodeEmptyName)
	}
	if lastName == "" {
		return "", errors.NewValidationFieldError("last_name", "Last name must not be empty", errors.ErrCodeEmptyName)
	}

	firstInitial := []rune(firstName)[0]
	lastInitial := []rune(lastName)[0]
	base := strings.ToLower(string(firstInitial) + string(lastInitial))

	loginID, err := g.unique(
		func(attempt int) string {
			if attempt == 0 {
				return base
			}
			return base + fmt.Sprintf("%03d", rand.Intn(1000))
		},
		g.store.ExistsByLoginID,
	)
	if err == errBudgetExhausted {
		g.logger.Error("login ID space exhausted", "base", base, "attempts", maxAttempts)
		return "", errors.NewResourceExhaustedError(
			fmt.Sprintf("Unable to generate a unique login ID after %d attempts", maxAttempts),
			errors.ErrCodeLoginIDExhausted)
	}
	if err != nil {
		return "", errors.NewInternalError("failed to check login ID uniqueness", err)
	}
	return loginID, nil
}

var errBudgetExhausted = fmt.Errorf("retry budget exhausted")

// unique runs the generate/check loop until a free candidate turns up or
// the attempt budget runs out.
func (g *Generator) unique(next func(attempt int) string, exists func(string) (bool, error)) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := next(attempt)
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", errBudgetExhausted
}
