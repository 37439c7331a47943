package board

import "testing"

func taskIDs(tasks []*Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSection_InsertTask(t *testing.T) {
	tests := []struct {
		name   string
		anchor string
		before bool
		want   []string
	}{
		{"append without anchor", "", false, []string{"a", "b", "c", "x"}},
		{"after anchor", "a", false, []string{"a", "x", "b", "c"}},
		{"before anchor", "b", true, []string{"a", "x", "b", "c"}},
		{"before first", "a", true, []string{"x", "a", "b", "c"}},
		{"after last", "c", false, []string{"a", "b", "c", "x"}},
		{"unknown anchor appends", "missing", true, []string{"a", "b", "c", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Section{ID: "s1"}
			for _, id := range []string{"a", "b", "c"} {
				s.InsertTask(&Task{ID: id}, "", false)
			}

			x := &Task{ID: "x", SectionID: "elsewhere"}
			s.InsertTask(x, tt.anchor, tt.before)

			if got := taskIDs(s.Tasks()); !equalIDs(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
			if x.SectionID != "s1" {
				t.Errorf("SectionID = %q, want s1", x.SectionID)
			}
		})
	}
}

func TestSection_RemoveTask(t *testing.T) {
	s := &Section{ID: "s1"}
	s.InsertTask(&Task{ID: "a"}, "", false)
	s.InsertTask(&Task{ID: "b"}, "", false)

	if got := s.RemoveTask("missing"); got != nil {
		t.Errorf("RemoveTask(missing) = %v, want nil", got)
	}
	if s.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", s.Count())
	}

	removed := s.RemoveTask("a")
	if removed == nil || removed.ID != "a" {
		t.Fatalf("RemoveTask(a) = %v", removed)
	}
	if s.FindTask("a") != nil {
		t.Error("task a still present")
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}
}

func TestSection_Duplicate(t *testing.T) {
	s := &Section{ID: "s1", Name: "Work"}
	s.InsertTask(&Task{ID: "a", Name: "first", Priority: PriorityHigh, EndDate: "2026-10-16"}, "", false)
	s.InsertTask(&Task{ID: "b", Name: "second", Difficulty: 2}, "", false)

	c := s.Duplicate()

	if c.ID == s.ID {
		t.Fatal("Duplicate() kept the section id")
	}
	if c.Name != s.Name {
		t.Errorf("Name = %q, want %q", c.Name, s.Name)
	}
	if c.Count() != s.Count() {
		t.Fatalf("Count() = %d, want %d", c.Count(), s.Count())
	}

	orig := s.Tasks()
	for i, dup := range c.Tasks() {
		if dup.ID == orig[i].ID {
			t.Errorf("task %d kept id %q", i, dup.ID)
		}
		if dup.SectionID != c.ID {
			t.Errorf("task %d SectionID = %q, want %q", i, dup.SectionID, c.ID)
		}
		want := *orig[i]
		want.ID, want.SectionID = dup.ID, dup.SectionID
		if *dup != want {
			t.Errorf("task %d = %+v, want %+v", i, *dup, want)
		}
	}

	// The original must be untouched.
	if got := taskIDs(s.Tasks()); !equalIDs(got, []string{"a", "b"}) {
		t.Errorf("original order = %v", got)
	}
	if s.Tasks()[0].SectionID != "s1" {
		t.Error("original task re-parented")
	}
}
