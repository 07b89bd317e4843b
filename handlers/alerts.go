package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/garoto002/siku-backend/alerts"
	"github.com/garoto002/siku-backend/logger"
	"github.com/garoto002/siku-backend/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) ListAlerts(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	if limit <= 0 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	items, count, err := h.Store.ListAlerts(c.Request.Context(), userID, limit, skip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "count": count})
}

func (h *Handler) MarkAlertRead(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	alertID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	alert, err := h.Store.MarkAlertRead(c.Request.Context(), userID, alertID)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": alert})
}

func (h *Handler) DeleteAlert(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	alertID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.Store.DeleteAlert(c.Request.Context(), userID, alertID); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DetectAlerts is the manual, synchronous trigger for a single user's
// detection run, with optional threshold overrides in the body.
func (h *Handler) DetectAlerts(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var overrides alerts.Overrides
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&overrides); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.Engine.Run(c.Request.Context(), userID, overrides)
	if err != nil {
		if errors.Is(err, alerts.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Get().Error("manual detection run failed",
			zap.String("user_id", userID.Hex()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type PushTokenRequest struct {
	Token string `json:"token"`
}

func (h *Handler) RegisterPushToken(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req PushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	if err := h.Store.SetPushToken(c.Request.Context(), userID, req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) GetAlertSettings(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	user, err := h.Store.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": user.AlertSettings})
}

// UpdateAlertSettings merges a partial update into the stored settings.
// The merge is deep: the types map is combined key by key instead of being
// replaced wholesale.
func (h *Handler) UpdateAlertSettings(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var update models.AlertSettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.Store.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	merged := user.AlertSettings.Merge(update)
	if err := h.Store.UpdateAlertSettings(c.Request.Context(), userID, merged); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": merged})
}
