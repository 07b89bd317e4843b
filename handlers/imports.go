package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/garoto002/siku-backend/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const importRowCap = 5000

// ImportStatement ingests a CSV bank statement (columns: date, title,
// amount, optional description) as expenses. Amounts are parsed as exact
// decimals so malformed or lossy values are rejected per row rather than
// silently truncated; rejected rows are reported back with line numbers.
func (h *Handler) ImportStatement(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A CSV file upload named 'file' is required"})
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = detectDelimiter(c.Query("delimiter"))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Could not parse CSV: %v", err)})
		return
	}
	if len(records) > importRowCap {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Statement exceeds %d rows", importRowCap)})
		return
	}

	var (
		expenses []models.Expense
		rejected []gin.H
	)
	for i, record := range records {
		line := i + 1
		if i == 0 && isHeaderRow(record) {
			continue
		}
		if len(record) < 3 {
			rejected = append(rejected, gin.H{"line": line, "reason": "expected at least date, title, amount"})
			continue
		}

		date, err := parseStatementDate(strings.TrimSpace(record[0]))
		if err != nil {
			rejected = append(rejected, gin.H{"line": line, "reason": "invalid date"})
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(record[2], ",", ".")))
		if err != nil || !amount.IsPositive() {
			rejected = append(rejected, gin.H{"line": line, "reason": "invalid amount"})
			continue
		}

		expense := models.Expense{
			User:   userID,
			Title:  strings.TrimSpace(record[1]),
			Amount: amount.InexactFloat64(),
			Date:   date,
		}
		if len(record) > 3 {
			expense.Description = strings.TrimSpace(record[3])
		}
		expenses = append(expenses, expense)
	}

	inserted, err := h.Store.InsertExpenses(c.Request.Context(), expenses)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imported": inserted,
		"rejected": rejected,
	})
}

func detectDelimiter(param string) rune {
	switch param {
	case ";":
		return ';'
	case "\t":
		return '\t'
	default:
		return ','
	}
}

func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "date" || first == "data"
}

func parseStatementDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "02/01/2006", "01/02/2006", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", value)
}
