package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/garoto002/siku-backend/logger"
	"github.com/garoto002/siku-backend/models"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

const insightsCacheTTL = 15 * time.Minute

// Insights is the financial summary served to the dashboard: month and
// week spending trends, top categories, savings rate, a coarse 0-100
// score, and an optional AI narrative.
type Insights struct {
	MonthExpenses     float64              `json:"month_expenses"`
	PrevMonthExpenses float64              `json:"prev_month_expenses"`
	MonthTrendPercent float64              `json:"month_trend_percent"`
	WeekExpenses      float64              `json:"week_expenses"`
	PrevWeekExpenses  float64              `json:"prev_week_expenses"`
	WeekTrendPercent  float64              `json:"week_trend_percent"`
	MonthIncome       float64              `json:"month_income"`
	Balance           float64              `json:"balance"`
	SavingsRate       float64              `json:"savings_rate"`
	Score             int                  `json:"score"`
	TopCategories     []models.PeriodTotal `json:"top_categories"`
	GoalsTotal        int64                `json:"goals_total"`
	GoalsDone         int64                `json:"goals_done"`
	Narrative         string               `json:"narrative,omitempty"`
	CachedAt          time.Time            `json:"cached_at"`
}

func (h *Handler) GetInsights(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	cacheKey := "insights:" + userID.Hex()
	var cached Insights
	if h.Cache.Get(c.Request.Context(), cacheKey, &cached) {
		c.JSON(http.StatusOK, gin.H{"data": cached, "cached": true})
		return
	}

	insights, err := h.buildInsights(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.Cache.Set(c.Request.Context(), cacheKey, insights, insightsCacheTTL)
	c.JSON(http.StatusOK, gin.H{"data": insights, "cached": false})
}

func (h *Handler) buildInsights(ctx context.Context, userID bson.ObjectID) (*Insights, error) {
	now := time.Now()
	monthStart := now.AddDate(0, 0, -30)
	prevMonthStart := monthStart.AddDate(0, 0, -30)
	weekStart := now.AddDate(0, 0, -7)
	prevWeekStart := weekStart.AddDate(0, 0, -7)

	monthExpenses, err := h.Store.ExpenseSum(ctx, userID, monthStart, now)
	if err != nil {
		return nil, err
	}
	prevMonthExpenses, err := h.Store.ExpenseSum(ctx, userID, prevMonthStart, monthStart)
	if err != nil {
		return nil, err
	}
	weekExpenses, err := h.Store.ExpenseSum(ctx, userID, weekStart, now)
	if err != nil {
		return nil, err
	}
	prevWeekExpenses, err := h.Store.ExpenseSum(ctx, userID, prevWeekStart, weekStart)
	if err != nil {
		return nil, err
	}
	monthIncome, err := h.Store.IncomeSum(ctx, userID, monthStart, now)
	if err != nil {
		return nil, err
	}
	topCategories, err := h.Store.ExpenseTotals(ctx, userID, "", "category", monthStart, now, 5)
	if err != nil {
		return nil, err
	}
	goalsTotal, goalsDone, err := h.Store.CountGoalsByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	insights := &Insights{
		MonthExpenses:     monthExpenses,
		PrevMonthExpenses: prevMonthExpenses,
		MonthTrendPercent: trendPercent(monthExpenses, prevMonthExpenses),
		WeekExpenses:      weekExpenses,
		PrevWeekExpenses:  prevWeekExpenses,
		WeekTrendPercent:  trendPercent(weekExpenses, prevWeekExpenses),
		MonthIncome:       monthIncome,
		Balance:           monthIncome - monthExpenses,
		TopCategories:     topCategories,
		GoalsTotal:        goalsTotal,
		GoalsDone:         goalsDone,
		CachedAt:          time.Now(),
	}
	if monthIncome > 0 {
		insights.SavingsRate = (monthIncome - monthExpenses) / monthIncome * 100
	}
	insights.Score = financialScore(insights)

	if h.AI != nil {
		narrative, err := h.AI.GenerateInsight(ctx, insightsSummary(insights))
		if err != nil {
			logger.Get().Warn("AI narrative generation failed",
				zap.String("user_id", userID.Hex()),
				zap.Error(err))
		} else {
			insights.Narrative = narrative
		}
	}
	return insights, nil
}

func trendPercent(current, previous float64) float64 {
	if previous <= 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// financialScore grades the month 0-100: savings rate dominates, goal
// completion and a flat-or-falling spending trend add the rest.
func financialScore(i *Insights) int {
	score := 0.0

	switch {
	case i.SavingsRate >= 20:
		score += 50
	case i.SavingsRate > 0:
		score += i.SavingsRate / 20 * 50
	}

	if i.GoalsTotal > 0 {
		score += float64(i.GoalsDone) / float64(i.GoalsTotal) * 25
	}

	if i.MonthTrendPercent <= 0 {
		score += 25
	} else if i.MonthTrendPercent < 30 {
		score += (30 - i.MonthTrendPercent) / 30 * 25
	}

	if score > 100 {
		score = 100
	}
	return int(score)
}

func insightsSummary(i *Insights) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This month: income %.2f, expenses %.2f, balance %.2f, savings rate %.1f%%, score %d/100.\n",
		i.MonthIncome, i.MonthExpenses, i.Balance, i.SavingsRate, i.Score)
	fmt.Fprintf(&b, "Spending trend vs previous month: %.1f%%. Goals done: %d/%d.\n",
		i.MonthTrendPercent, i.GoalsDone, i.GoalsTotal)
	if len(i.TopCategories) > 0 {
		b.WriteString("Top spending categories:\n")
		for idx, cat := range i.TopCategories {
			fmt.Fprintf(&b, "%d. %s: %.2f\n", idx+1, cat.Key, cat.Total)
		}
	}
	b.WriteString("Analyze the spending pattern and give practical advice.")
	return b.String()
}
