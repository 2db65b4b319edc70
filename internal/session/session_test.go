package session

import (
	"strings"
	"testing"
	"time"

	"bankdash/internal/table"
)

func testTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.Load(strings.NewReader("age,job\n25,admin\n40,admin\n60,blue-collar\n"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return tbl
}

func TestStore_CreateAndGet(t *testing.T) {
	st := NewStore(time.Hour, time.Hour)
	defer st.Close()

	s := st.Create(testTable(t), "key1")
	if s.ID == "" {
		t.Fatal("empty session ID")
	}

	got, ok := st.Get(s.ID)
	if !ok {
		t.Fatal("session not found")
	}
	if got.ContentKey != "key1" {
		t.Errorf("ContentKey = %q, want key1", got.ContentKey)
	}

	if _, ok := st.Get("unknown"); ok {
		t.Error("unknown ID returned a session")
	}
}

func TestSession_ViewRecomputesFromBase(t *testing.T) {
	st := NewStore(time.Hour, time.Hour)
	defer st.Close()
	s := st.Create(testTable(t), "key1")

	s.SetFilters([]table.FilterSpec{table.NewCategoricalSpec("job", []string{"admin"})})
	view, err := s.View()
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if view.NumRows() != 2 {
		t.Errorf("filtered view has %d rows, want 2", view.NumRows())
	}

	// Widening the filter again works because the base is preserved.
	s.SetFilters(nil)
	view, err = s.View()
	if err != nil {
		t.Fatalf("View failed: %v", err)
	}
	if view.NumRows() != 3 {
		t.Errorf("unfiltered view has %d rows, want 3", view.NumRows())
	}
}

func TestStore_ExpiresIdleSessions(t *testing.T) {
	st := NewStore(10*time.Millisecond, time.Hour)
	defer st.Close()

	st.Create(testTable(t), "key1")
	if st.Len() != 1 {
		t.Fatalf("Len = %d, want 1", st.Len())
	}

	// Drive the sweep directly instead of waiting on the ticker.
	st.expire(time.Now().Add(time.Second))
	if st.Len() != 0 {
		t.Errorf("Len = %d after expiry, want 0", st.Len())
	}
}
