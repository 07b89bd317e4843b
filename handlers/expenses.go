package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/garoto002/siku-backend/models"
	"github.com/garoto002/siku-backend/mongodb"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type TransactionRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Date        string  `json:"date" binding:"required"`
	Area        string  `json:"area"`
	Category    string  `json:"category"`
}

func (r *TransactionRequest) parse() (time.Time, bson.ObjectID, bson.ObjectID, error) {
	date, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		// Accept bare calendar dates as well
		date, err = time.Parse("2006-01-02", r.Date)
		if err != nil {
			return time.Time{}, bson.ObjectID{}, bson.ObjectID{}, err
		}
	}

	var area, category bson.ObjectID
	if r.Area != "" {
		if area, err = bson.ObjectIDFromHex(r.Area); err != nil {
			return time.Time{}, bson.ObjectID{}, bson.ObjectID{}, err
		}
	}
	if r.Category != "" {
		if category, err = bson.ObjectIDFromHex(r.Category); err != nil {
			return time.Time{}, bson.ObjectID{}, bson.ObjectID{}, err
		}
	}
	return date, area, category, nil
}

// updateDocs splits the request into $set fields and $unset fields: an
// omitted area or category clears the stored reference, so those rows
// return to the uncategorized bucket instead of grouping under a zero id.
func (r *TransactionRequest) updateDocs() (set, unset bson.M, err error) {
	date, area, category, err := r.parse()
	if err != nil {
		return nil, nil, err
	}

	set = bson.M{
		"title":       r.Title,
		"description": r.Description,
		"amount":      r.Amount,
		"date":        date,
	}
	unset = bson.M{}
	if area.IsZero() {
		unset["area"] = ""
	} else {
		set["area"] = area
	}
	if category.IsZero() {
		unset["category"] = ""
	} else {
		set["category"] = category
	}
	return set, unset, nil
}

func listFilter(c *gin.Context) mongodb.ExpenseFilter {
	filter := mongodb.ExpenseFilter{}
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
	filter.Limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	return filter
}

func (h *Handler) CreateExpense(c *gin.Context) {
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

	expense := &models.Expense{
		User:        userID,
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        date,
		Area:        area,
		Category:    category,
	}
	if err := h.Store.CreateExpense(c.Request.Context(), expense); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": expense})
}

func (h *Handler) ListExpenses(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	items, count, err := h.Store.ListExpenses(c.Request.Context(), userID, listFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "count": count})
}

func (h *Handler) GetExpense(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	expense, err := h.Store.GetExpense(c.Request.Context(), userID, id)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": expense})
}

func (h *Handler) UpdateExpense(c *gin.Context) {
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

	expense, err := h.Store.UpdateExpense(c.Request.Context(), userID, id, set, unset)
	if err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": expense})
}

func (h *Handler) DeleteExpense(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.Store.DeleteExpense(c.Request.Context(), userID, id); err != nil {
		writeStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ExpenseTotals serves the bucketed totals report: by calendar period or
// grouped by area/category.
func (h *Handler) ExpenseTotals(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	period := c.DefaultQuery("period", "daily")
	groupBy := c.DefaultQuery("groupBy", "none")
	switch groupBy {
	case "none", "area", "category":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "groupBy must be none, area or category"})
		return
	}

	filter := listFilter(c)
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)

	totals, err := h.Store.ExpenseTotals(c.Request.Context(), userID, period, groupBy, filter.From, filter.To, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"meta":   gin.H{"period": period, "groupBy": groupBy},
		"totals": totals,
	})
}
