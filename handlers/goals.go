package handlers

import (
	"net/http"
	"time"

	"github.com/garoto002/siku-backend/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type GoalRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

func validGoalDates(start, end string) bool {
	if _, err := time.Parse("2006-01-02", start); err != nil {
		return false
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		return false
	}
	return start <= end
}

func (h *Handler) CreateGoal(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validGoalDates(req.StartDate, req.EndDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be YYYY-MM-DD with start before end"})
		return
	}

	goal := &models.Goal{
		User:        userID,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      models.GoalStatus(req.Status),
		Priority:    models.GoalPriority(req.Priority),
	}
	if err := h.Store.CreateGoal(c.Request.Context(), goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": goal})
}

func (h *Handler) ListGoals(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	goals, err := h.Store.ListGoals(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": goals})
}

func (h *Handler) UpdateGoal(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validGoalDates(req.StartDate, req.EndDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be YYYY-MM-DD with start before end"})
		return
	}

	updates := bson.M{
		"title":       req.Title,
		"description": req.Description,
		"start_date":  req.StartDate,
		"end_date":    req.EndDate,
	}
	if req.Status != "" {
		updates["status"] = models.GoalStatus(req.Status)
	}
	if req.Priority != "" {
		updates["priority"] = models.GoalPriority(req.Priority)
	}

	goal, err := h.Store.UpdateGoal(c.Request.Context(), userID, id, updates)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": goal})
}

func (h *Handler) DeleteGoal(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.Store.DeleteGoal(c.Request.Context(), userID, id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
