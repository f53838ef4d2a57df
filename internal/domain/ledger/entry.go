package ledger

import (
	"errors"
	"time"
)

// Kind separates the two entry tables. Income labels are sources
// ("salary"), expense labels are categories ("rent").
type Kind string

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type Entry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Amount    Money     `json:"amount"`
	Label     string    `json:"label"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// DateRange filters entries inclusively on both ends. Nil bounds mean
// unbounded. An inverted range (To before From) matches nothing.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// DateLayout is the calendar-date form entries travel in over forms
// and render with in views.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO-8601 calendar date at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)

	if err != nil {
		return time.Time{}, ErrInvalidDate
	}

	return t, nil
}

// AddEntryRequest carries the /add_income and /add_expense form fields.
// The label field name differs between the two forms, so handlers bind
// the right one and copy it over.
type AddEntryRequest struct {
	Amount   string `form:"amount" binding:"required"`
	Source   string `form:"source" binding:"omitempty,max=100"`
	Category string `form:"category" binding:"omitempty,max=100"`
	Date     string `form:"date" binding:"required"`
}

// DashboardRequest carries the optional /dashboard filter fields.
type DashboardRequest struct {
	StartDate string `form:"start_date" binding:"omitempty"`
	EndDate   string `form:"end_date" binding:"omitempty"`
}
