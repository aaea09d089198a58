package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/dimitrije/securevault-api/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyRequest accepts the code under "code" or "otp".
type VerifyRequest struct {
	Email string `json:"email"`
	Code  Code   `json:"code"`
	OTP   Code   `json:"otp"`
}

func (r VerifyRequest) SuppliedCode() string {
	if r.Code != "" {
		return string(r.Code)
	}
	return string(r.OTP)
}

type ResendRequest struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expires_at"`
	User      models.AccountView `json:"user"`
}

type MeResponse struct {
	User models.AccountView `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Code is a verification code sent either as a JSON string or a number.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("code must be a string or a number")
	}
	*c = Code(n.String())
	return nil
}
