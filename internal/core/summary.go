package core

// Statistics summarises every stored transaction.
type Statistics struct {
	TotalIncome       Money `json:"total_income"`
	TotalExpenses     Money `json:"total_expenses"`
	TotalTransactions int64 `json:"total_transactions"`
}

// CategorySpending is the expense total of one category.
type CategorySpending struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Total Money  `json:"total"`
	Count int64  `json:"count"`
}

// Dashboard bundles the aggregates a client renders on its overview page.
type Dashboard struct {
	Statistics         Statistics         `json:"statistics"`
	SpendingByCategory []CategorySpending `json:"spending_by_category"`
}

// Balance is income minus expenses.
func (s Statistics) Balance() Money {
	return Money{Cents: s.TotalIncome.Cents - s.TotalExpenses.Cents}
}
