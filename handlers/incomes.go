package handlers

import (
	"net/http"

	"github.com/garoto002/siku-backend/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateIncome(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, area, category, err := req.parse()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	income := &models.Income{
		User:        userID,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		Area:        area,
		Category:    category,
	}
	if err := h.Store.CreateIncome(c.Request.Context(), income); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": income})
}

func (h *Handler) ListIncomes(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	items, count, err := h.Store.ListIncomes(c.Request.Context(), userID, listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "count": count})
}

func (h *Handler) UpdateIncome(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	set, unset, err := req.updateDocs()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	income, err := h.Store.UpdateIncome(c.Request.Context(), userID, id, set, unset)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": income})
}

func (h *Handler) DeleteIncome(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.Store.DeleteIncome(c.Request.Context(), userID, id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
