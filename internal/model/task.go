package model

import "time"

// Task is a household task a child can complete. Value is always a
// non-negative magnitude; whether it pays, deducts, or is a bonus is decided
// by the category flags at aggregation time. Disabled tasks stay in the
// database so historical completions keep their value.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Value       float64   `json:"value"`
	IsDiscount  bool      `json:"isDiscount"`
	IsBonus     bool      `json:"isBonus"`
	SortOrder   int       `json:"order"`
	Enable      bool      `json:"enable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
