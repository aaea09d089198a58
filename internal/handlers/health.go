package handlers

import (
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"
)

func Health(c *drift.Context) {
	_ = c.JSON(http.StatusOK, map[string]any{
		"ok":      true,
		"message": "SecureVault API up",
	})
}
