package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dimitrije/securevault-api/internal/middleware"
	"github.com/dimitrije/securevault-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type AuthHandler struct {
	identity IdentityServiceInterface
	logger   *slog.Logger
}

func NewAuthHandler(identity IdentityServiceInterface, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{identity: identity, logger: logger}
}

func (h *AuthHandler) Register(c *drift.Context) {
	var req dto.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if err := h.identity.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		respondError(c, h.logger, err, "failed to register account")
		return
	}

	_ = c.JSON(http.StatusCreated, dto.MessageResponse{
		Message: "account created, check your email for the verification code",
	})
}

func (h *AuthHandler) Verify(c *drift.Context) {
	var req dto.VerifyRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if err := h.identity.VerifyAccount(c.Request.Context(), req.Email, req.SuppliedCode()); err != nil {
		respondError(c, h.logger, err, "failed to verify account")
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "account verified"})
}

func (h *AuthHandler) Resend(c *drift.Context) {
	var req dto.ResendRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if err := h.identity.ResendCode(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, err, "failed to resend verification code")
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "verification code resent, check your email"})
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	result, err := h.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "failed to log in")
		return
	}

	_ = c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.Account,
	})
}

func (h *AuthHandler) Me(c *drift.Context) {
	principal := middleware.GetPrincipal(c)
	if principal == nil {
		c.Unauthorized("not authenticated")
		return
	}

	_ = c.JSON(http.StatusOK, dto.MeResponse{User: h.identity.WhoAmI(principal.Account)})
}
