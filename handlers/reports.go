package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const exportRowCap = 10000

type exportRow struct {
	kind        string
	date        time.Time
	title       string
	description string
	amount      float64
}

// ExportCSV streams the user's transactions as a semicolon-separated CSV,
// newest first, with expense/income totals in the footer.
func (h *Handler) ExportCSV(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	kind := c.DefaultQuery("type", "all")
	filter := listFilter(c)
	filter.Page = 1
	filter.Limit = exportRowCap

	var rows []exportRow

	if kind == "all" || kind == "expenses" {
		expenses, _, err := h.Store.ListExpenses(c.Request.Context(), userID, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		for _, e := range expenses {
			rows = append(rows, exportRow{"Expense", e.Date, e.Title, e.Description, e.Amount})
		}
	}
	if kind == "all" || kind == "incomes" {
		incomes, _, err := h.Store.ListIncomes(c.Request.Context(), userID, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		for _, i := range incomes {
			rows = append(rows, exportRow{"Income", i.Date, i.Title, i.Description, i.Amount})
		}
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].date.After(rows[j].date) })

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s.csv", time.Now().Format("2006-01-02")))

	writeExportCSV(c.Writer, rows)
}

func writeExportCSV(w io.Writer, rows []exportRow) {
	writer := csv.NewWriter(w)
	writer.Comma = ';'
	defer writer.Flush()

	_ = writer.Write([]string{"Type", "Date", "Title", "Description", "Amount"})

	var totalExpenses, totalIncomes float64
	for _, r := range rows {
		_ = writer.Write([]string{
			r.kind,
			r.date.Format("2006-01-02"),
			r.title,
			r.description,
			fmt.Sprintf("%.2f", r.amount),
		})
		if r.kind == "Expense" {
			totalExpenses += r.amount
		} else {
			totalIncomes += r.amount
		}
	}

	_ = writer.Write([]string{})
	_ = writer.Write([]string{"Total expenses", "", "", "", fmt.Sprintf("%.2f", totalExpenses)})
	_ = writer.Write([]string{"Total incomes", "", "", "", fmt.Sprintf("%.2f", totalIncomes)})
	_ = writer.Write([]string{"Balance", "", "", "", fmt.Sprintf("%.2f", totalIncomes-totalExpenses)})
}
