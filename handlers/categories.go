package handlers

import (
	"net/http"

	"github.com/garoto002/siku-backend/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type CategoryRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=50"`
	Area  string `json:"area" binding:"required"`
	Color string `json:"color"`
}

func (h *Handler) CreateCategory(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	areaID, err := bson.ObjectIDFromHex(req.Area)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid area id"})
		return
	}

	category := &models.Category{User: userID, Area: areaID, Name: req.Name, Color: req.Color}
	if err := h.Store.CreateCategory(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": category})
}

func (h *Handler) ListCategories(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var areaID *bson.ObjectID
	if v := c.Query("area"); v != "" {
		id, err := bson.ObjectIDFromHex(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid area id"})
			return
		}
		areaID = &id
	}

	categories, err := h.Store.ListCategories(c.Request.Context(), userID, areaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	areaID, err := bson.ObjectIDFromHex(req.Area)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid area id"})
		return
	}

	category, err := h.Store.UpdateCategory(c.Request.Context(), userID, id,
		bson.M{"name": req.Name, "area": areaID, "color": req.Color})
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.Store.DeleteCategory(c.Request.Context(), userID, id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
