package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hairwise/hairwise-backend/internal/services"
)

type AdminHandler struct {
	svc services.AdminService
}

func NewAdminHandler(svc services.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) Users(c *gin.Context) {
	rows, err := h.svc.ListUsers(c.Request.Context(), limitQuery(c, 50, 200))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": rows})
}

func (h *AdminHandler) Conversations(c *gin.Context) {
	rows, err := h.svc.ListConversations(c.Request.Context(), limitQuery(c, 50, 200))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": rows})
}
