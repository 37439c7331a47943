// Package reports summarizes completed work from the history log into daily
// and weekly reports.
package reports

import (
	"time"
)

// DailyReport contains aggregated data for a single day.
type DailyReport struct {
	Date           time.Time       `json:"date"`
	Completed      []CompletedTask `json:"completed"`
	CompletedCount int             `json:"completed_count"`
	BySection      []SectionCount  `json:"by_section"`
	ByPriority     []PriorityCount `json:"by_priority"`
	Board          BoardSummary    `json:"board"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// WeeklyReport contains aggregated data for a week starting on Sunday.
type WeeklyReport struct {
	StartDate      time.Time      `json:"start_date"`
	EndDate        time.Time      `json:"end_date"`
	TotalCompleted int            `json:"total_completed"`
	DailyAverage   float64        `json:"daily_average"`
	BySection      []SectionCount `json:"by_section"`
	ByDay          []DayCount     `json:"by_day"`
	Board          BoardSummary   `json:"board"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// CompletedTask is one history item as shown in a report.
type CompletedTask struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Section        string `json:"section"`
	Priority       string `json:"priority"`
	CompletionTime string `json:"completion_time"`
	WasOverdue     bool   `json:"was_overdue"`
}

// SectionCount represents a count grouped by section name.
type SectionCount struct {
	Section string `json:"section"`
	Count   int    `json:"count"`
}

// PriorityCount represents a count grouped by priority.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// DayCount represents completions on a specific day.
type DayCount struct {
	Date      string `json:"date"`
	DayOfWeek string `json:"day_of_week"`
	Completed int    `json:"completed"`
}

// BoardSummary describes what is still open on the board.
type BoardSummary struct {
	Sections int `json:"sections"`
	Pending  int `json:"pending"`
	Overdue  int `json:"overdue"`
}
