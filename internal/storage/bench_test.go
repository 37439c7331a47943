package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/history"
)

func benchBoard(size int) *board.Board {
	b := board.New()
	sections := []string{board.DefaultSectionID}
	for i := 0; i < 4; i++ {
		s := &board.Section{ID: fmt.Sprintf("section%d", i), Name: fmt.Sprintf("Section %d", i)}
		b.AddSection(s, "")
		sections = append(sections, s.ID)
	}
	for i := 0; i < size; i++ {
		t := &board.Task{
			ID:       fmt.Sprintf("todo%d", i),
			Name:     fmt.Sprintf("Task %d", i),
			EndDate:  "Fri, 16 Oct, 2026",
			Priority: board.Priority(i%4 + 1),
		}
		b.AddTask(t, sections[i%len(sections)], "", false)
	}
	return b
}

// BenchmarkSaveBoard measures board persistence with varying sizes
func BenchmarkSaveBoard(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			store, err := NewFileStore(b.TempDir(), nil)
			if err != nil {
				b.Fatal(err)
			}
			repo := NewRepository(store, nil)
			snapshot := benchBoard(size)
			ctx := context.Background()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := repo.SaveBoard(ctx, snapshot); err != nil {
					b.Fatalf("SaveBoard failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkLoadBoard measures board loading with varying sizes
func BenchmarkLoadBoard(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			repo := NewRepository(NewMemoryStore(), nil)
			ctx := context.Background()
			repo.SaveBoard(ctx, benchBoard(size))

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := repo.LoadBoard(ctx); err != nil {
					b.Fatalf("LoadBoard failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkLoadHistory measures history decoding across many partitions
func BenchmarkLoadHistory(b *testing.B) {
	l := history.New()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 1000; i++ {
		l.Record(&board.Task{ID: fmt.Sprintf("todo%d", i)}, "12:00", start.AddDate(0, 0, i/5))
	}
	repo := NewRepository(NewMemoryStore(), nil)
	repo.SetLocation(time.UTC)
	ctx := context.Background()
	repo.SaveHistory(ctx, l)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := repo.LoadHistory(ctx); err != nil {
			b.Fatalf("LoadHistory failed: %v", err)
		}
	}
}
