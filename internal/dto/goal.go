package dto

type GoalRequest struct {
	Title         *string  `json:"title"`
	TargetAmount  *float64 `json:"targetAmount"`
	PresentAmount *float64 `json:"presentAmount"`
	CurrencyID    *string  `json:"currencyId"`
	Category      *string  `json:"category"`
	Month         *int     `json:"month"`
	Year          *int     `json:"year"`
}

type GoalView struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	TargetAmount  float64 `json:"targetAmount"`
	PresentAmount float64 `json:"presentAmount"`
	Progress      float64 `json:"progress"`
	Currency      string  `json:"currency"`
	Category      *string `json:"category"`
}

// GoalsByPeriod groups goals by year, then month.
type GoalsByPeriod map[int]map[int][]GoalView
