package models

import (
	"time"

	"github.com/google/uuid"
)

const DefaultVaultCategory = "Other"

// VaultRecord is a stored credential. Every query on it is scoped by OwnerID.
type VaultRecord struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Title       string    `json:"title"`
	SecretValue string    `json:"secret_value"`
	Username    string    `json:"username"`
	Site        string    `json:"site"`
	Category    string    `json:"category"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
