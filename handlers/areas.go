package handlers

import (
	"net/http"

	"github.com/garoto002/siku-backend/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type AreaRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=50"`
	Color string `json:"color"`
}

func (h *Handler) CreateArea(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area := &models.Area{User: userID, Name: req.Name, Color: req.Color}
	if err := h.Store.CreateArea(c.Request.Context(), area); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": area})
}

func (h *Handler) ListAreas(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	areas, err := h.Store.ListAreas(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": areas})
}

func (h *Handler) UpdateArea(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req AreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	area, err := h.Store.UpdateArea(c.Request.Context(), userID, id, bson.M{"name": req.Name, "color": req.Color})
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": area})
}

func (h *Handler) DeleteArea(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.Store.DeleteArea(c.Request.Context(), userID, id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
