package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/domain/ledger"
	"github.com/fintrack/fintrack/internal/http/middlewares"
	"github.com/fintrack/fintrack/internal/observability"
	"github.com/gin-gonic/gin"
)

type EntryWriter interface {
	AddIncome(ctx context.Context, userID string, amount ledger.Money, source string, date time.Time) (ledger.Entry, error)
	AddExpense(ctx context.Context, userID string, amount ledger.Money, category string, date time.Time) (ledger.Entry, error)
}

type LedgerHandler struct {
	entries EntryWriter
	prom    *observability.Prom
}

func NewLedgerHandler(entries EntryWriter, prom *observability.Prom) *LedgerHandler {
	return &LedgerHandler{entries: entries, prom: prom}
}

type entryFormVM struct {
	Error  string
	Amount string
	Label  string
	Date   string
}

func (h *LedgerHandler) AddIncomeForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "add_income.html", entryFormVM{
		Date: time.Now().Format(ledger.DateLayout),
	})
}

func (h *LedgerHandler) AddExpenseForm(ctx *gin.Context) {
	ctx.HTML(http.StatusOK, "add_expense.html", entryFormVM{
		Date: time.Now().Format(ledger.DateLayout),
	})
}

func (h *LedgerHandler) AddIncome(ctx *gin.Context) {
	h.addEntry(ctx, ledger.Income)
}

func (h *LedgerHandler) AddExpense(ctx *gin.Context) {
	h.addEntry(ctx, ledger.Expense)
}

// addEntry is the shared POST path for both forms. The two differ only
// in the label field and the destination table.
func (h *LedgerHandler) addEntry(ctx *gin.Context, kind ledger.Kind) {
	uid, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		// RequireSession guards these routes; missing identity means
		// a wiring bug, not a user error
		ctx.Redirect(http.StatusFound, "/login")
		return
	}

	template := "add_income.html"

	if kind == ledger.Expense {
		template = "add_expense.html"
	}

	var req ledger.AddEntryRequest

	if err := ctx.ShouldBind(&req); err != nil {
		ctx.HTML(http.StatusBadRequest, template, entryFormVM{
			Error:  FormErrorMessage(err),
			Amount: req.Amount,
			Label:  h.label(req, kind),
			Date:   req.Date,
		})
		return
	}

	redisplay := func(msg string) {
		ctx.HTML(http.StatusOK, template, entryFormVM{
			Error:  msg,
			Amount: req.Amount,
			Label:  h.label(req, kind),
			Date:   req.Date,
		})
	}

	amount, err := ledger.ParseAmount(req.Amount)

	if err != nil {
		redisplay("Enter a valid, non-negative amount.")
		return
	}

	date, err := ledger.ParseDate(req.Date)

	if err != nil {
		redisplay("Enter the date as YYYY-MM-DD.")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	if kind == ledger.Income {
		_, err = h.entries.AddIncome(cctx, uid, amount, req.Source, date)
	} else {
		_, err = h.entries.AddExpense(cctx, uid, amount, req.Category, date)
	}

	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) {
			redisplay("Enter a valid, non-negative amount.")
			return
		}

		ctx.HTML(http.StatusInternalServerError, template, entryFormVM{
			Error:  "Could not save the entry. Try again.",
			Amount: req.Amount,
			Label:  h.label(req, kind),
			Date:   req.Date,
		})
		return
	}

	h.prom.EntriesCreated.WithLabelValues(string(kind)).Inc()

	ctx.Redirect(http.StatusFound, "/dashboard")
}

func (h *LedgerHandler) label(req ledger.AddEntryRequest, kind ledger.Kind) string {
	if kind == ledger.Income {
		return req.Source
	}

	return req.Category
}
