package reports

import (
	"sort"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/history"
)

// Section labels used when a history item no longer maps onto a named section.
const (
	GeneralSection = "General"
	DeletedSection = "Deleted section"
)

// Generator creates reports from a board and its history log. Both are read
// only; callers hold whatever lock guards them.
type Generator struct {
	board   *board.Board
	history *history.Log
	now     func() time.Time
}

// NewGenerator creates a new report generator.
func NewGenerator(b *board.Board, h *history.Log) *Generator {
	return &Generator{board: b, history: h, now: time.Now}
}

// SetNowFunc overrides the clock used for GeneratedAt and overdue counts.
func (g *Generator) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	g.now = now
}

// GenerateDaily generates a report for the calendar day of date.
func (g *Generator) GenerateDaily(date time.Time) *DailyReport {
	date = startOfDay(date)
	now := g.now()

	completed := g.completedOn(date)
	sectionCounts := make(map[string]int)
	priorityCounts := make(map[board.Priority]int)
	for _, c := range completed {
		sectionCounts[c.Section]++
	}
	if p := g.history.PartitionFor(date); p != nil {
		for _, it := range p.Items() {
			priorityCounts[it.Task.Priority.OrDefault()]++
		}
	}

	var byPriority []PriorityCount
	for p := board.PriorityUrgent; p <= board.PriorityLow; p++ {
		if n := priorityCounts[p]; n > 0 {
			byPriority = append(byPriority, PriorityCount{Priority: p.String(), Count: n})
		}
	}

	return &DailyReport{
		Date:           date,
		Completed:      completed,
		CompletedCount: len(completed),
		BySection:      sortedSectionCounts(sectionCounts),
		ByPriority:     byPriority,
		Board:          g.boardSummary(now),
		GeneratedAt:    now,
	}
}

// GenerateWeekly generates a report for the week containing startDate.
func (g *Generator) GenerateWeekly(startDate time.Time) *WeeklyReport {
	// Align to start of week (Sunday)
	startDate = startOfWeekSunday(startDate)
	endDate := startDate.AddDate(0, 0, 7)
	now := g.now()

	sectionCounts := make(map[string]int)
	byDay := make([]DayCount, 7)
	total := 0
	for i := range byDay {
		day := startDate.AddDate(0, 0, i)
		completed := g.completedOn(day)
		byDay[i] = DayCount{
			Date:      day.Format("2006-01-02"),
			DayOfWeek: day.Format("Mon"),
			Completed: len(completed),
		}
		for _, c := range completed {
			sectionCounts[c.Section]++
		}
		total += len(completed)
	}

	return &WeeklyReport{
		StartDate:      startDate,
		EndDate:        endDate.Add(-time.Nanosecond), // End of last day
		TotalCompleted: total,
		DailyAverage:   float64(total) / 7,
		BySection:      sortedSectionCounts(sectionCounts),
		ByDay:          byDay,
		Board:          g.boardSummary(now),
		GeneratedAt:    now,
	}
}

// completedOn lists the items completed on day in completion order.
func (g *Generator) completedOn(day time.Time) []CompletedTask {
	p := g.history.PartitionFor(day)
	if p == nil {
		return []CompletedTask{}
	}
	items := p.Items()
	out := make([]CompletedTask, 0, len(items))
	for _, it := range items {
		out = append(out, CompletedTask{
			ID:             it.Task.ID,
			Name:           it.Task.Name,
			Section:        g.sectionName(it.Task.SectionID),
			Priority:       it.Task.Priority.OrDefault().String(),
			CompletionTime: it.Task.CompletionTime,
			WasOverdue:     it.Task.Expired,
		})
	}
	return out
}

func (g *Generator) sectionName(id string) string {
	s := g.board.FindSection(id)
	switch {
	case s == nil && id != board.DefaultSectionID:
		return DeletedSection
	case s == nil || s.IsDefault() || s.Name == "":
		return GeneralSection
	default:
		return s.Name
	}
}

func (g *Generator) boardSummary(now time.Time) BoardSummary {
	summary := BoardSummary{Sections: len(g.board.Sections())}
	for _, t := range g.board.AllTasks() {
		summary.Pending++
		if t.Expired || t.IsExpired(now) {
			summary.Overdue++
		}
	}
	return summary
}

func sortedSectionCounts(counts map[string]int) []SectionCount {
	out := make([]SectionCount, 0, len(counts))
	for section, count := range counts {
		out = append(out, SectionCount{Section: section, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Section < out[j].Section
	})
	return out
}

// startOfDay returns the start of the day (midnight).
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeekSunday returns the start of the week (Sunday).
func startOfWeekSunday(t time.Time) time.Time {
	t = startOfDay(t)
	return t.AddDate(0, 0, -int(t.Weekday()))
}
