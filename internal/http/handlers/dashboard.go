package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/fintrack/fintrack/internal/cache"
	"github.com/fintrack/fintrack/internal/charts"
	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/domain/ledger"
	"github.com/fintrack/fintrack/internal/http/middlewares"
	"github.com/fintrack/fintrack/internal/utils"
	"github.com/gin-gonic/gin"
)

type EntriesLister interface {
	ListIncomes(ctx context.Context, userID string, rng ledger.DateRange) ([]ledger.Entry, error)
	ListExpenses(ctx context.Context, userID string, rng ledger.DateRange) ([]ledger.Entry, error)
}

type DashboardHandler struct {
	entries    EntriesLister
	chartCache *cache.Cache
}

func NewDashboardHandler(entries EntriesLister, chartCache *cache.Cache) *DashboardHandler {
	return &DashboardHandler{entries: entries, chartCache: chartCache}
}

type dashboardVM struct {
	Name      string
	StartDate string
	EndDate   string
	Summary   ledger.Summary
	Incomes   []ledger.Entry
	Expenses  []ledger.Entry
	ChartURL  string
}

// Dashboard renders totals, the expense breakdown and both entry
// lists. A POSTed filter narrows everything to the inclusive range;
// the plain GET (and the redirect after adding an entry) shows all
// entries.
func (h *DashboardHandler) Dashboard(ctx *gin.Context) {
	uid, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	name, _ := middlewares.UserNameFromContext(ctx)

	var req ledger.DashboardRequest

	if ctx.Request.Method == http.MethodPost {
		// an unparseable filter form just means no filter
		_ = ctx.ShouldBind(&req)
	}

	rng := parseRange(req.StartDate, req.EndDate)

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	incomes, err := h.entries.ListIncomes(cctx, uid, rng)

	if err != nil {
		ctx.String(http.StatusInternalServerError, "dashboard unavailable")
		return
	}

	expenses, err := h.entries.ListExpenses(cctx, uid, rng)

	if err != nil {
		ctx.String(http.StatusInternalServerError, "dashboard unavailable")
		return
	}

	summary := ledger.Summarize(incomes, expenses)

	vm := dashboardVM{
		Name:      name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Summary:   summary,
		Incomes:   incomes,
		Expenses:  expenses,
	}

	if len(summary.CategoryTotals) > 0 {
		if rng.From != nil {
			vm.ChartURL = chartURL(req.StartDate, req.EndDate)
		} else {
			vm.ChartURL = "/dashboard/chart.png"
		}
	}

	ctx.HTML(http.StatusOK, "dashboard.html", vm)
}

// Chart serves the breakdown image the dashboard embeds. Rendering a
// PNG per page load is the expensive part of this app, so results sit
// in a short-TTL cache keyed by user and range.
func (h *DashboardHandler) Chart(ctx *gin.Context) {
	uid, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		ctx.Status(http.StatusNotFound)
		return
	}

	rng := parseRange(ctx.Query("start"), ctx.Query("end"))

	key := utils.BuildChartCacheKey(uid, rng.From, rng.To)

	if v, ok := h.chartCache.Get(key); ok {
		ctx.Data(http.StatusOK, "image/png", v.([]byte))
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	expenses, err := h.entries.ListExpenses(cctx, uid, rng)

	if err != nil {
		ctx.Status(http.StatusInternalServerError)
		return
	}

	summary := ledger.Summarize(nil, expenses)

	png, err := charts.RenderCategoryBreakdown(summary.CategoryTotals)

	if err != nil {
		ctx.Status(http.StatusInternalServerError)
		return
	}

	if png == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	h.chartCache.Set(key, png)

	ctx.Data(http.StatusOK, "image/png", png)
}

// parseRange turns the optional form fields into a DateRange. The
// filter applies only when both bounds are present and parse; a lone
// or malformed bound leaves the view unfiltered.
func parseRange(start, end string) ledger.DateRange {
	if start == "" || end == "" {
		return ledger.DateRange{}
	}

	from, err := ledger.ParseDate(start)

	if err != nil {
		return ledger.DateRange{}
	}

	to, err := ledger.ParseDate(end)

	if err != nil {
		return ledger.DateRange{}
	}

	return ledger.DateRange{From: &from, To: &to}
}

func chartURL(start, end string) string {
	q := url.Values{}

	if start != "" {
		q.Set("start", start)
	}

	if end != "" {
		q.Set("end", end)
	}

	if len(q) == 0 {
		return "/dashboard/chart.png"
	}

	return "/dashboard/chart.png?" + q.Encode()
}
