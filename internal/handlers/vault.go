package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dimitrije/securevault-api/internal/middleware"
	"github.com/dimitrije/securevault-api/internal/services"
	"github.com/dimitrije/securevault-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type VaultHandler struct {
	vault        VaultServiceInterface
	logger       *slog.Logger
	strictDelete bool
}

// NewVaultHandler builds the vault routes. With strictDelete a DELETE that
// matched nothing answers 404; otherwise it answers 200 either way.
func NewVaultHandler(vault VaultServiceInterface, logger *slog.Logger, strictDelete bool) *VaultHandler {
	return &VaultHandler{vault: vault, logger: logger, strictDelete: strictDelete}
}

func (h *VaultHandler) List(c *drift.Context) {
	ownerID := middleware.GetAccountID(c)
	if ownerID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	records, err := h.vault.List(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, h.logger, err, "failed to list passwords")
		return
	}

	_ = c.JSON(http.StatusOK, records)
}

func (h *VaultHandler) Create(c *drift.Context) {
	ownerID := middleware.GetAccountID(c)
	if ownerID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateVaultRecordRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	record, err := h.vault.Create(c.Request.Context(), ownerID, services.VaultRecordInput{
		Title:       req.Title,
		SecretValue: req.SecretValue,
		Username:    req.Username,
		Site:        req.Site,
		Category:    req.Category,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err, "failed to create password")
		return
	}

	_ = c.JSON(http.StatusCreated, record)
}

func (h *VaultHandler) Update(c *drift.Context) {
	ownerID := middleware.GetAccountID(c)
	if ownerID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid password id")
		return
	}

	var req dto.UpdateVaultRecordRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	record, err := h.vault.Update(c.Request.Context(), ownerID, recordID, services.VaultRecordPatch{
		Title:       req.Title,
		SecretValue: req.SecretValue,
		Username:    req.Username,
		Site:        req.Site,
		Category:    req.Category,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err, "failed to update password")
		return
	}

	_ = c.JSON(http.StatusOK, record)
}

func (h *VaultHandler) Delete(c *drift.Context) {
	ownerID := middleware.GetAccountID(c)
	if ownerID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid password id")
		return
	}

	deleted, err := h.vault.Delete(c.Request.Context(), ownerID, recordID)
	if err != nil {
		respondError(c, h.logger, err, "failed to delete password")
		return
	}
	if !deleted && h.strictDelete {
		c.NotFound(services.ErrVaultRecordNotFound.Error())
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "deleted"})
}
