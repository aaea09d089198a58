package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered vault owner. PasswordHash and the pending code
// fields never leave the service layer.
type Account struct {
	ID                   uuid.UUID  `json:"id"`
	Name                 string     `json:"name"`
	Email                string     `json:"email"`
	PasswordHash         string     `json:"-"`
	Verified             bool       `json:"verified"`
	PendingCode          *string    `json:"-"`
	PendingCodeExpiresAt *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// AccountView is the redacted form of an Account.
type AccountView struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Account) View() AccountView {
	return AccountView{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Verified:  a.Verified,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// HasPendingCode reports whether a verification cycle is outstanding.
func (a *Account) HasPendingCode() bool {
	return a.PendingCode != nil && a.PendingCodeExpiresAt != nil
}
