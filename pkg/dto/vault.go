package dto

// CreateVaultRecordRequest has no owner field; the owner is always the
// authenticated account.
type CreateVaultRecordRequest struct {
	Title       string `json:"title"`
	SecretValue string `json:"secret_value"`
	Username    string `json:"username"`
	Site        string `json:"site"`
	Category    string `json:"category"`
	Notes       string `json:"notes"`
}

type UpdateVaultRecordRequest struct {
	Title       *string `json:"title"`
	SecretValue *string `json:"secret_value"`
	Username    *string `json:"username"`
	Site        *string `json:"site"`
	Category    *string `json:"category"`
	Notes       *string `json:"notes"`
}
