package model

import "time"

// CompletedTask records that a child completed a task on a given day.
// At most one record exists per (task, child, calendar day); the toggle
// operation maintains this inside a transaction.
type CompletedTask struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	ChildID   string    `json:"childId"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskRef is the slice of Task the completion listing joins in: just enough
// for clients to compute values without a second fetch.
type TaskRef struct {
	Value      float64 `json:"value"`
	IsDiscount bool    `json:"isDiscount"`
	IsBonus    bool    `json:"isBonus"`
}

// CompletedTaskWithTask is a completion joined with its task's category data.
type CompletedTaskWithTask struct {
	CompletedTask
	Task TaskRef `json:"task"`
}
