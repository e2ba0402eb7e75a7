package interest

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const MaxPhoneLength = 32

// Interest is a player's request to be notified about a league.
type Interest struct {
	ID        string
	LeagueID  string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

func (i Interest) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("interest id is required")
	}
	if strings.TrimSpace(i.LeagueID) == "" {
		return fmt.Errorf("league id is required")
	}
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := mail.ParseAddress(i.Email); err != nil {
		return fmt.Errorf("email is invalid: %w", err)
	}
	if len(i.Phone) > MaxPhoneLength {
		return fmt.Errorf("phone must be at most %d characters", MaxPhoneLength)
	}

	return nil
}

// NormalizeEmail lowercases and trims an address so duplicates compare equal.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
