// Package summary computes the daily and monthly financial summaries for a
// child. Totals are always recomputed from current completions joined with
// their tasks; nothing is incrementally persisted, so the figures cannot
// drift from the underlying records.
package summary

import (
	"time"

	"github.com/frocha/mesada/internal/dates"
	"github.com/frocha/mesada/internal/model"
)

// CompletionSource provides completions joined with task category data.
type CompletionSource interface {
	ListByChildAndRange(childID string, start, end time.Time) ([]model.CompletedTaskWithTask, error)
}

// TaskSource provides the task-catalog counts summaries need.
type TaskSource interface {
	CountEnabledPaid() (int, error)
}

// Service aggregates completions into summaries.
type Service struct {
	completions CompletionSource
	tasks       TaskSource
	now         func() time.Time
}

func NewService(completions CompletionSource, tasks TaskSource) *Service {
	return &Service{
		completions: completions,
		tasks:       tasks,
		now:         time.Now,
	}
}

// Daily computes a child's summary for the calendar day containing date.
//
// Paid and bonus tasks add their value; completed discounts contribute
// nothing to the daily total and are instead reported as TotalDiscountWeek,
// summed over the ISO week (Monday through Sunday) containing the day.
// Only plain paid tasks count toward the completion ratio.
func (s *Service) Daily(childID string, date time.Time) (*model.DailySummary, error) {
	dayRows, err := s.completions.ListByChildAndRange(childID, dates.StartOfDay(date), dates.EndOfDay(date))
	if err != nil {
		return nil, err
	}

	var out model.DailySummary
	for _, ct := range dayRows {
		if !ct.Task.IsDiscount {
			out.TotalValue += ct.Task.Value
		}
		if !ct.Task.IsDiscount && !ct.Task.IsBonus {
			out.CompletedTasks++
		}
	}

	out.TotalTasks, err = s.tasks.CountEnabledPaid()
	if err != nil {
		return nil, err
	}

	weekRows, err := s.completions.ListByChildAndRange(childID, dates.StartOfWeek(date), dates.EndOfWeek(date))
	if err != nil {
		return nil, err
	}
	for _, ct := range weekRows {
		if ct.Task.IsDiscount {
			out.TotalDiscountWeek += ct.Task.Value
		}
	}

	return &out, nil
}

// Monthly computes a child's summary for the calendar month containing date.
//
// Here discounts subtract from TotalValue (and accumulate positively in
// TotalDiscounts). DailyAverageValue divides by the full month's day count,
// except for the current month where only elapsed days are averaged.
func (s *Service) Monthly(childID string, date time.Time) (*model.MonthlySummary, error) {
	rows, err := s.completions.ListByChildAndRange(childID, dates.StartOfMonth(date), dates.EndOfMonth(date))
	if err != nil {
		return nil, err
	}

	var out model.MonthlySummary
	for _, ct := range rows {
		switch {
		case ct.Task.IsDiscount:
			out.TotalValue -= ct.Task.Value
			out.TotalDiscounts += ct.Task.Value
		default:
			out.TotalValue += ct.Task.Value
			if !ct.Task.IsBonus {
				out.CompletedTasks++
			}
		}
	}

	if days := s.daysToUse(date); days > 0 {
		out.DailyAverageValue = out.TotalValue / float64(days)
	}

	return &out, nil
}

// daysToUse is the divisor for the monthly average: the full day count of the
// target month, or the current day of month when the target month is still in
// progress.
func (s *Service) daysToUse(date time.Time) int {
	now := s.now()
	if date.Year() == now.Year() && date.Month() == now.Month() {
		return now.Day()
	}
	return dates.DaysInMonth(date)
}
