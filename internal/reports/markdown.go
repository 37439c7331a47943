package reports

import (
	"fmt"
	"strings"
)

// FormatDailyMarkdown renders a daily report as Markdown.
func FormatDailyMarkdown(r *DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Report: %s\n\n", r.Date.Format("Monday, 02 Jan 2006"))

	fmt.Fprintf(&b, "## Completed (%d)\n\n", r.CompletedCount)
	if len(r.Completed) == 0 {
		b.WriteString("_Nothing completed._\n")
	}
	for _, c := range r.Completed {
		line := fmt.Sprintf("- [x] %s", c.Name)
		if c.CompletionTime != "" {
			line += fmt.Sprintf(" _(%s)_", c.CompletionTime)
		}
		line += fmt.Sprintf(" · %s · %s", c.Section, c.Priority)
		if c.WasOverdue {
			line += " · overdue"
		}
		b.WriteString(line + "\n")
	}

	if len(r.BySection) > 0 {
		b.WriteString("\n## By Section\n\n")
		writeSectionTable(&b, r.BySection)
	}

	if len(r.ByPriority) > 0 {
		b.WriteString("\n## By Priority\n\n")
		b.WriteString("| Priority | Completed |\n|---|---|\n")
		for _, p := range r.ByPriority {
			fmt.Fprintf(&b, "| %s | %d |\n", p.Priority, p.Count)
		}
	}

	writeBoardSummary(&b, r.Board)
	fmt.Fprintf(&b, "\n_Generated %s_\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	return b.String()
}

// FormatWeeklyMarkdown renders a weekly report as Markdown.
func FormatWeeklyMarkdown(r *WeeklyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Weekly Report: %s – %s\n\n",
		r.StartDate.Format("02 Jan"), r.EndDate.Format("02 Jan 2006"))

	fmt.Fprintf(&b, "**%d** tasks completed (%.1f per day)\n\n", r.TotalCompleted, r.DailyAverage)

	b.WriteString("## By Day\n\n")
	b.WriteString("| Day | Date | Completed |\n|---|---|---|\n")
	for _, d := range r.ByDay {
		fmt.Fprintf(&b, "| %s | %s | %d |\n", d.DayOfWeek, d.Date, d.Completed)
	}

	if len(r.BySection) > 0 {
		b.WriteString("\n## By Section\n\n")
		writeSectionTable(&b, r.BySection)
	}

	writeBoardSummary(&b, r.Board)
	fmt.Fprintf(&b, "\n_Generated %s_\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	return b.String()
}

func writeSectionTable(b *strings.Builder, counts []SectionCount) {
	b.WriteString("| Section | Completed |\n|---|---|\n")
	for _, s := range counts {
		fmt.Fprintf(b, "| %s | %d |\n", escapeCell(s.Section), s.Count)
	}
}

func writeBoardSummary(b *strings.Builder, s BoardSummary) {
	b.WriteString("\n## Still Open\n\n")
	fmt.Fprintf(b, "- Pending: %d\n- Overdue: %d\n- Sections: %d\n", s.Pending, s.Overdue, s.Sections)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
