package board

import (
	"encoding/json"
	"testing"
	"time"
)

var testLoc = time.FixedZone("test", 2*60*60)

func TestTask_ExpireInstant(t *testing.T) {
	tests := []struct {
		name    string
		endDate string
		endTime string
		want    time.Time
		wantOK  bool
	}{
		{
			name:   "no deadline",
			wantOK: false,
		},
		{
			name:    "date only is due by end of day",
			endDate: "Fri, 16 Oct, 2026",
			want:    time.Date(2026, 10, 17, 0, 0, 0, 0, testLoc),
			wantOK:  true,
		},
		{
			name:    "iso date only",
			endDate: "2026-10-16",
			want:    time.Date(2026, 10, 17, 0, 0, 0, 0, testLoc),
			wantOK:  true,
		},
		{
			name:    "date and time",
			endDate: "Fri, 16 Oct, 2026",
			endTime: "14:30",
			want:    time.Date(2026, 10, 16, 14, 30, 0, 0, testLoc),
			wantOK:  true,
		},
		{
			name:    "unparseable date",
			endDate: "someday",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{EndDate: tt.endDate, EndTime: tt.endTime}
			got, ok := task.ExpireInstant(testLoc)
			if ok != tt.wantOK {
				t.Fatalf("ExpireInstant() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ExpireInstant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTask_IsExpired_NoDeadline(t *testing.T) {
	task := &Task{Name: "no date"}
	for _, now := range []time.Time{
		time.Date(1970, 1, 1, 0, 0, 0, 0, testLoc),
		time.Date(2026, 10, 16, 12, 0, 0, 0, testLoc),
		time.Date(2999, 12, 31, 23, 59, 59, 0, testLoc),
	} {
		if task.IsExpired(now) {
			t.Errorf("IsExpired(%v) = true for a task without deadline", now)
		}
	}
}

func TestTask_IsExpired_FlipsAtInstant(t *testing.T) {
	task := &Task{EndDate: "2026-10-16"}
	instant := time.Date(2026, 10, 17, 0, 0, 0, 0, testLoc)

	if task.IsExpired(instant.Add(-time.Nanosecond)) {
		t.Error("IsExpired() = true just before the instant")
	}
	if task.IsExpired(instant) {
		t.Error("IsExpired() = true exactly at the instant")
	}
	if !task.IsExpired(instant.Add(time.Nanosecond)) {
		t.Error("IsExpired() = false just after the instant")
	}
}

func TestTask_ApplyEdit(t *testing.T) {
	task := &Task{ID: "todo1", Name: "old", Description: "keep", EndDate: "2020-01-01", Priority: PriorityLow}
	name := "new"
	prio := PriorityHigh
	diff := 2

	task.ApplyEdit(Changes{Name: &name, Priority: &prio, Difficulty: &diff})

	if task.Name != "new" {
		t.Errorf("Name = %q, want new", task.Name)
	}
	if task.Description != "keep" {
		t.Errorf("Description = %q, want keep", task.Description)
	}
	if task.Priority != PriorityHigh || task.Difficulty != 2 {
		t.Errorf("Priority/Difficulty = %v/%d, want high/2", task.Priority, task.Difficulty)
	}
	if task.Expired {
		t.Error("ApplyEdit must not recompute Expired")
	}
}

func TestTask_Duplicate(t *testing.T) {
	orig := &Task{
		ID: "todo1", SectionID: "s1", Name: "write", Description: "d",
		EndDate: "2026-10-16", EndTime: "10:00", Priority: PriorityMedium, Difficulty: 3, Expired: true,
	}
	dup := orig.Duplicate()

	if dup.ID == orig.ID {
		t.Fatal("Duplicate() kept the original id")
	}
	dup.ID = orig.ID
	if *dup != *orig {
		t.Errorf("Duplicate() fields = %+v, want %+v", *dup, *orig)
	}
}

func TestPriority_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
	}{
		{`1`, PriorityUrgent},
		{`"2"`, PriorityHigh},
		{`"4"`, PriorityLow},
		{`""`, PriorityLow},
		{`0`, PriorityLow},
		{`9`, PriorityLow},
	}
	for _, tt := range tests {
		var p Priority
		if err := json.Unmarshal([]byte(tt.in), &p); err != nil {
			t.Fatalf("Unmarshal(%s) error = %v", tt.in, err)
		}
		if p != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, p, tt.want)
		}
	}

	var p Priority
	if err := json.Unmarshal([]byte(`"high"`), &p); err == nil {
		t.Error("Unmarshal(\"high\") expected error")
	}
}

func TestParseClock(t *testing.T) {
	h, m, ok := ParseClock("09:05")
	if !ok || h != 9 || m != 5 {
		t.Errorf("ParseClock(09:05) = %d, %d, %v", h, m, ok)
	}
	if _, _, ok := ParseClock("25:00"); ok {
		t.Error("ParseClock(25:00) ok = true")
	}
}
