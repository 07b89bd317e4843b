package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/garoto002/siku-backend/models"
	"github.com/garoto002/siku-backend/mongodb"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ActivityRequest struct {
	Title       string            `json:"title" binding:"required,max=100"`
	Description string            `json:"description" binding:"max=500"`
	Date        string            `json:"date"`
	StartTime   string            `json:"start_time"`
	EndTime     string            `json:"end_time"`
	Priority    string            `json:"priority"`
	Status      string            `json:"status"`
	Category    string            `json:"category"`
	Reminders   []models.Reminder `json:"reminders"`
}

// parseActivityDate accepts a timestamp or a bare calendar date; an empty
// value defaults to now, matching how habit-style activities are logged.
func parseActivityDate(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// validActivityTimes checks optional "HH:MM" start/end times: each must
// parse, and when both are present the end must be after the start.
func validActivityTimes(start, end string) bool {
	var startT, endT time.Time
	var err error
	if start != "" {
		if startT, err = time.Parse("15:04", start); err != nil {
			return false
		}
	}
	if end != "" {
		if endT, err = time.Parse("15:04", end); err != nil {
			return false
		}
	}
	if start != "" && end != "" {
		return endT.After(startT)
	}
	return true
}

func (h *Handler) CreateActivity(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := parseActivityDate(req.Date, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, use YYYY-MM-DD or RFC3339"})
		return
	}
	if !validActivityTimes(req.StartTime, req.EndTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End time must be after start time (HH:MM)"})
		return
	}

	priority := models.GoalPriority(req.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}
	category := req.Category
	if category == "" {
		category = models.DefaultActivityCategory
	}
	reminders := req.Reminders
	if reminders == nil {
		reminders = []models.Reminder{}
	}

	activity := &models.Activity{
		User:        userID,
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Priority:    priority,
		Status:      models.ActivityPending,
		Category:    category,
		Reminders:   reminders,
	}
	if err := h.Store.CreateActivity(c.Request.Context(), activity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": activity})
}

func (h *Handler) ListActivities(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	filter := mongodb.ActivityFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}
	if v := c.Query("category"); v != "" {
		for _, cat := range strings.Split(v, ",") {
			if cat = strings.TrimSpace(cat); cat != "" {
				filter.Categories = append(filter.Categories, cat)
			}
		}
	}
	if v := c.Query("start"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.From = t
		}
	}
	if v := c.Query("end"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.To = t.Add(24*time.Hour - time.Nanosecond)
		}
	}
	filter.Page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)

	items, count, err := h.Store.ListActivities(c.Request.Context(), userID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "count": count})
}

func (h *Handler) GetActivity(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	activity, err := h.Store.GetActivity(c.Request.Context(), userID, id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": activity})
}

func (h *Handler) UpdateActivity(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := parseActivityDate(req.Date, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, use YYYY-MM-DD or RFC3339"})
		return
	}
	if !validActivityTimes(req.StartTime, req.EndTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End time must be after start time (HH:MM)"})
		return
	}

	updates := bson.M{
		"title":       req.Title,
		"description": req.Description,
		"date":        date,
		"start_time":  req.StartTime,
		"end_time":    req.EndTime,
	}
	if req.Priority != "" {
		updates["priority"] = models.GoalPriority(req.Priority)
	}
	if req.Status != "" {
		updates["status"] = models.ActivityStatus(req.Status)
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Reminders != nil {
		updates["reminders"] = req.Reminders
	}

	activity, err := h.Store.UpdateActivity(c.Request.Context(), userID, id, updates)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": activity})
}

func (h *Handler) DeleteActivity(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.Store.DeleteActivity(c.Request.Context(), userID, id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ActivityStats(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	stats, err := h.Store.ActivityStats(c.Request.Context(), userID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}
