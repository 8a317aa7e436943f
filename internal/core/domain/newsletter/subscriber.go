package newsletter

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidEmail is returned when a subscription address fails validation.
var ErrInvalidEmail = errors.New("newsletter: invalid email address")

type Subscriber struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	SubscribedAt time.Time  `json:"subscribed_at" db:"subscribed_at"`
	WelcomedAt   *time.Time `json:"welcomed_at,omitempty" db:"welcomed_at"`
}

// ValidEmail is the same minimal check the public form performs; real
// verification happens via the welcome email.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

// Normalize lowercases and trims an address for storage and lookups.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
