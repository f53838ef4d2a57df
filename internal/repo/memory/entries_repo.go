package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fintrack/fintrack/internal/domain/ledger"
)

// EntriesRepo keeps the two ledgers in slices, matching the postgres
// repo's ordering contract: date descending, insertion id ascending on
// equal dates.
type EntriesRepo struct {
	mu       sync.RWMutex
	nextID   int64
	incomes  []ledger.Entry
	expenses []ledger.Entry
}

func NewEntriesRepo() *EntriesRepo {
	return &EntriesRepo{nextID: 1}
}

func (r *EntriesRepo) AddIncome(ctx context.Context, userID string, amount ledger.Money, source string, date time.Time) (ledger.Entry, error) {
	return r.add(&r.incomes, userID, amount, source, date)
}

func (r *EntriesRepo) AddExpense(ctx context.Context, userID string, amount ledger.Money, category string, date time.Time) (ledger.Entry, error) {
	return r.add(&r.expenses, userID, amount, category, date)
}

func (r *EntriesRepo) ListIncomes(ctx context.Context, userID string, rng ledger.DateRange) ([]ledger.Entry, error) {
	return r.list(r.incomes, userID, rng), nil
}

func (r *EntriesRepo) ListExpenses(ctx context.Context, userID string, rng ledger.DateRange) ([]ledger.Entry, error) {
	return r.list(r.expenses, userID, rng), nil
}

func (r *EntriesRepo) add(dst *[]ledger.Entry, userID string, amount ledger.Money, label string, date time.Time) (ledger.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := ledger.Entry{
		ID:        r.nextID,
		UserID:    userID,
		Amount:    amount,
		Label:     label,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}

	r.nextID++
	*dst = append(*dst, e)

	return e, nil
}

func (r *EntriesRepo) list(src []ledger.Entry, userID string, rng ledger.DateRange) []ledger.Entry {
	r.mu.RLock()

	output := make([]ledger.Entry, 0)

	for _, e := range src {
		if e.UserID != userID {
			continue
		}

		if rng.From != nil && e.Date.Before(*rng.From) {
			continue
		}

		if rng.To != nil && e.Date.After(*rng.To) {
			continue
		}

		output = append(output, e)
	}

	r.mu.RUnlock()

	sort.SliceStable(output, func(i, j int) bool {
		if !output[i].Date.Equal(output[j].Date) {
			return output[i].Date.After(output[j].Date)
		}

		return output[i].ID < output[j].ID
	})

	return output
}
