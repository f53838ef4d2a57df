package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/domain/ledger"
	"github.com/fintrack/fintrack/internal/http/handlers"
	"github.com/fintrack/fintrack/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Fake implementation of the handlers.EntryWriter interface

type fakeEntryWriter struct {
	addIncomeFn  func(ctx context.Context, userID string, amount ledger.Money, source string, date time.Time) (ledger.Entry, error)
	addExpenseFn func(ctx context.Context, userID string, amount ledger.Money, category string, date time.Time) (ledger.Entry, error)
}

func (f *fakeEntryWriter) AddIncome(ctx context.Context, userID string, amount ledger.Money, source string, date time.Time) (ledger.Entry, error) {
	if f.addIncomeFn != nil {
		return f.addIncomeFn(ctx, userID, amount, source, date)
	}

	return ledger.Entry{}, nil
}

func (f *fakeEntryWriter) AddExpense(ctx context.Context, userID string, amount ledger.Money, category string, date time.Time) (ledger.Entry, error) {
	if f.addExpenseFn != nil {
		return f.addExpenseFn(ctx, userID, amount, category, date)
	}

	return ledger.Entry{}, nil
}

// withUser mimics what RequireSession puts on the context.

func withUser(id, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.CtxUserID, id)
		c.Set(middlewares.CtxUserName, name)
		c.Next()
	}
}

func TestAddIncomeHandler(t *testing.T) {
	tests := []struct {
		name           string
		form           url.Values
		loggedIn       bool
		repoSetUp      func(*fakeEntryWriter)
		wantStatusCode int
		wantLocation   string
		wantBody       string
	}{
		{
			name: "success_redirects_to_dashboard",
			form: url.Values{
				"amount": {"1000.00"},
				"source": {"Salary"},
				"date":   {"2025-01-15"},
			},
			loggedIn: true,
			repoSetUp: func(f *fakeEntryWriter) {
				f.addIncomeFn = func(ctx context.Context, userID string, amount ledger.Money, source string, date time.Time) (ledger.Entry, error) {
					if amount.Cents != 100000 {
						t.Fatalf("got %d cents, want 100000", amount.Cents)
					}

					if source != "Salary" {
						t.Fatalf("got source %q, want Salary", source)
					}

					return ledger.Entry{ID: 1, UserID: userID, Amount: amount, Label: source, Date: date}, nil
				}
			},
			wantStatusCode: http.StatusFound,
			wantLocation:   "/dashboard",
		},
		{
			name: "not_logged_in",
			form: url.Values{
				"amount": {"10"},
				"date":   {"2025-01-15"},
			},
			wantStatusCode: http.StatusFound,
			wantLocation:   "/login",
		},
		{
			name: "missing_amount",
			form: url.Values{
				"source": {"Salary"},
				"date":   {"2025-01-15"},
			},
			loggedIn:       true,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "unparseable_amount",
			form: url.Values{
				"amount": {"ten dollars"},
				"source": {"Salary"},
				"date":   {"2025-01-15"},
			},
			loggedIn:       true,
			wantStatusCode: http.StatusOK,
			wantBody:       "valid, non-negative amount",
		},
		{
			name: "negative_amount",
			form: url.Values{
				"amount": {"-5"},
				"source": {"Salary"},
				"date":   {"2025-01-15"},
			},
			loggedIn:       true,
			wantStatusCode: http.StatusOK,
			wantBody:       "valid, non-negative amount",
		},
		{
			name: "unparseable_date",
			form: url.Values{
				"amount": {"10"},
				"source": {"Salary"},
				"date":   {"15/01/2025"},
			},
			loggedIn:       true,
			wantStatusCode: http.StatusOK,
			wantBody:       "YYYY-MM-DD",
		},
		{
			name: "store_error",
			form: url.Values{
				"amount": {"10"},
				"source": {"Salary"},
				"date":   {"2025-01-15"},
			},
			loggedIn: true,
			repoSetUp: func(f *fakeEntryWriter) {
				f.addIncomeFn = func(ctx context.Context, userID string, amount ledger.Money, source string, date time.Time) (ledger.Entry, error) {
					return ledger.Entry{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeEntryWriter{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewLedgerHandler(repo, newTestProm())

			var mw []gin.HandlerFunc

			if tt.loggedIn {
				mw = append(mw, withUser("u1", "Ada"))
			}

			r := setupRouter(http.MethodPost, "/add_income", h.AddIncome, mw...)

			w := postForm(r, "/add_income", tt.form)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantLocation != "" && w.Header().Get("Location") != tt.wantLocation {
				t.Fatalf("got Location %q, want %q", w.Header().Get("Location"), tt.wantLocation)
			}

			if tt.wantBody != "" && !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Fatalf("body missing %q: %s", tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestAddExpenseHandler(t *testing.T) {
	var gotCategory string

	repo := &fakeEntryWriter{
		addExpenseFn: func(ctx context.Context, userID string, amount ledger.Money, category string, date time.Time) (ledger.Entry, error) {
			gotCategory = category
			return ledger.Entry{ID: 1, UserID: userID, Amount: amount, Label: category, Date: date}, nil
		},
	}

	h := handlers.NewLedgerHandler(repo, newTestProm())

	r := setupRouter(http.MethodPost, "/add_expense", h.AddExpense, withUser("u1", "Ada"))

	w := postForm(r, "/add_expense", url.Values{
		"amount":   {"200"},
		"category": {"Rent"},
		"date":     {"2025-01-16"},
	})

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("got %d -> %q, want 302 -> /dashboard", w.Code, w.Header().Get("Location"))
	}

	if gotCategory != "Rent" {
		t.Fatalf("got category %q, want Rent", gotCategory)
	}
}

// forms default the date field to today so a quick entry needs only
// amount and label

func TestAddEntryFormsDefaultDate(t *testing.T) {
	h := handlers.NewLedgerHandler(&fakeEntryWriter{}, newTestProm())

	r := setupRouter(http.MethodGet, "/add_income", h.AddIncomeForm, withUser("u1", "Ada"))

	req, w := getRequest("/add_income")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	today := time.Now().Format(ledger.DateLayout)

	if !strings.Contains(w.Body.String(), today) {
		t.Fatalf("form not pre-filled with today's date %q", today)
	}
}
