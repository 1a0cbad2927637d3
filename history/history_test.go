package history_test

import (
	"context"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wwpbim/bepgen/dbopen"
	"github.com/wwpbim/bepgen/history"
)

func testStore(t *testing.T) *history.Store {
	t.Helper()
	db := dbopen.OpenMemory(t)
	s := history.NewStore(db)
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	runs := []history.Run{
		{Kind: history.KindFill, Project: "Depot", Output: "/out/a.docx", Changes: 7, Removed: 3, Status: history.StatusOK, CreatedAt: base},
		{Kind: history.KindGenerate, Project: "Depot", Output: "/out/a.md", Status: history.StatusOK, CreatedAt: base.Add(time.Minute)},
		{Kind: history.KindFill, Project: "Annex", Template: "/tpl/bep.docx", Status: history.StatusError, Detail: "template missing", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range runs {
		if _, err := s.Record(ctx, r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent returned %d runs, want 3", len(got))
	}
	// Newest first.
	if got[0].Project != "Annex" || got[2].Project != "Depot" {
		t.Errorf("order = %q, %q, %q", got[0].Project, got[1].Project, got[2].Project)
	}
	if got[0].Status != history.StatusError || got[0].Detail != "template missing" {
		t.Errorf("error run = %+v", got[0])
	}
	if got[2].Changes != 7 || got[2].Removed != 3 {
		t.Errorf("fill counters = %d, %d", got[2].Changes, got[2].Removed)
	}
	if !got[2].CreatedAt.Equal(base) {
		t.Errorf("CreatedAt = %v, want %v", got[2].CreatedAt, base)
	}
}

func TestRecentLimit(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for i := range 5 {
		r := history.Run{Kind: history.KindFill, Status: history.StatusOK,
			CreatedAt: time.Date(2026, 3, 1, 10, i, 0, 0, time.UTC)}
		if _, err := s.Record(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent(2) returned %d runs", len(got))
	}
}

func TestRecordStampsTime(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	if _, err := s.Record(ctx, history.Run{Kind: history.KindFill, Status: history.StatusOK}); err != nil {
		t.Fatal(err)
	}

	r, ok, err := s.Last(ctx, "")
	if err != nil || !ok {
		t.Fatalf("Last: ok=%v err=%v", ok, err)
	}
	if r.CreatedAt.Before(before) {
		t.Errorf("zero CreatedAt was not stamped: %v", r.CreatedAt)
	}
}

func TestLastByKind(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.Record(ctx, history.Run{Kind: history.KindFill, Output: "/out/old.docx", Status: history.StatusOK, CreatedAt: base})
	s.Record(ctx, history.Run{Kind: history.KindGenerate, Output: "/out/new.md", Status: history.StatusOK, CreatedAt: base.Add(time.Minute)})

	r, ok, err := s.Last(ctx, history.KindFill)
	if err != nil || !ok {
		t.Fatalf("Last(fill): ok=%v err=%v", ok, err)
	}
	if r.Output != "/out/old.docx" {
		t.Errorf("Last(fill).Output = %q", r.Output)
	}

	r, ok, err = s.Last(ctx, "")
	if err != nil || !ok {
		t.Fatalf("Last(any): ok=%v err=%v", ok, err)
	}
	if r.Output != "/out/new.md" {
		t.Errorf("Last(any).Output = %q", r.Output)
	}
}

func TestLastEmpty(t *testing.T) {
	s := testStore(t)
	_, ok, err := s.Last(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Last on empty log reported a run")
	}
}
