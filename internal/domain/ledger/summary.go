package ledger

// CategoryAmount is one slice of the expense breakdown.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// Summary is what the dashboard shows for a filtered entry set.
type Summary struct {
	TotalIncome    Money            `json:"totalIncome"`
	TotalExpense   Money            `json:"totalExpense"`
	Balance        Money            `json:"balance"`
	CategoryTotals []CategoryAmount `json:"categoryTotals"`
}

// Summarize folds already-filtered income and expense entries into
// totals, balance and per-category expense sums. The breakdown keeps
// categories in order of first appearance rather than sorting them.
// Empty inputs produce zero totals and an empty breakdown.
func Summarize(incomes, expenses []Entry) Summary {
	var s Summary

	for _, in := range incomes {
		s.TotalIncome = s.TotalIncome.Add(in.Amount)
	}

	index := make(map[string]int, len(expenses))

	for _, ex := range expenses {
		s.TotalExpense = s.TotalExpense.Add(ex.Amount)

		i, ok := index[ex.Label]

		if !ok {
			index[ex.Label] = len(s.CategoryTotals)
			s.CategoryTotals = append(s.CategoryTotals, CategoryAmount{Name: ex.Label})
			i = index[ex.Label]
		}

		s.CategoryTotals[i].Amount = s.CategoryTotals[i].Amount.Add(ex.Amount)
	}

	s.Balance = s.TotalIncome.Sub(s.TotalExpense)

	return s
}
