package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fintrack/fintrack/internal/domain/ledger"
	"github.com/fintrack/fintrack/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EntriesRepo persists the two append-only ledger tables. Incomes and
// expenses share a shape (label column aside), so the SQL is built per
// table from one helper.
type EntriesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewEntriesRepo(pool *pgxpool.Pool, prom *observability.Prom) *EntriesRepo {
	return &EntriesRepo{pool: pool, prom: prom}
}

const (
	incomesTable  = "incomes"
	expensesTable = "expenses"

	incomeLabelCol  = "source"
	expenseLabelCol = "category"
)

func (r *EntriesRepo) AddIncome(ctx context.Context, userID string, amount ledger.Money, source string, date time.Time) (ledger.Entry, error) {
	return r.add(ctx, incomesTable, incomeLabelCol, userID, amount, source, date)
}

func (r *EntriesRepo) AddExpense(ctx context.Context, userID string, amount ledger.Money, category string, date time.Time) (ledger.Entry, error) {
	return r.add(ctx, expensesTable, expenseLabelCol, userID, amount, category, date)
}

func (r *EntriesRepo) ListIncomes(ctx context.Context, userID string, rng ledger.DateRange) ([]ledger.Entry, error) {
	return r.list(ctx, incomesTable, incomeLabelCol, userID, rng)
}

func (r *EntriesRepo) ListExpenses(ctx context.Context, userID string, rng ledger.DateRange) ([]ledger.Entry, error) {
	return r.list(ctx, expensesTable, expenseLabelCol, userID, rng)
}

func (r *EntriesRepo) add(ctx context.Context, table, labelCol, userID string, amount ledger.Money, label string, date time.Time) (ledger.Entry, error) {
	e := ledger.Entry{
		UserID:    userID,
		Amount:    amount,
		Label:     label,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (user_id, amount_cents, %s, entry_date, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		table, labelCol,
	)

	err := r.prom.ObserveDB(table+".add", func() error {
		return r.pool.QueryRow(ctx, query,
			e.UserID, e.Amount.Cents, e.Label, e.Date, e.CreatedAt,
		).Scan(&e.ID)
	})

	if err != nil {
		return ledger.Entry{}, err
	}

	return e, nil
}

func (r *EntriesRepo) list(ctx context.Context, table, labelCol, userID string, rng ledger.DateRange) ([]ledger.Entry, error) {
	conds := []string{"user_id = $1"}
	args := []interface{}{userID}

	argsPosition := 2

	// inclusive date range filters

	if rng.From != nil {
		conds = append(conds, fmt.Sprintf("entry_date >= $%d", argsPosition))
		args = append(args, *rng.From)
		argsPosition++
	}

	if rng.To != nil {
		conds = append(conds, fmt.Sprintf("entry_date <= $%d", argsPosition))
		args = append(args, *rng.To)
		argsPosition++
	}

	query := fmt.Sprintf(
		`SELECT id, user_id, amount_cents, %s, entry_date, created_at
		 FROM %s
		 WHERE %s
		 ORDER BY entry_date DESC, id ASC`,
		labelCol, table, strings.Join(conds, " AND "),
	)

	var output []ledger.Entry

	err := r.prom.ObserveDB(table+".list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		output = make([]ledger.Entry, 0)

		for rows.Next() {
			var e ledger.Entry

			err = rows.Scan(&e.ID, &e.UserID, &e.Amount.Cents, &e.Label, &e.Date, &e.CreatedAt)

			if err != nil {
				return err
			}

			output = append(output, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}
