package cache

import (
	"path/filepath"
	"testing"

	"github.com/ichika06/ojt-tracker/timelog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLedgerRoundTrip(t *testing.T) {
	store := openTestStore(t)

	entries := []timelog.Entry{
		{Date: "2024-01-01", Hours: 8, NeededHours: 6, Overtime: 2},
		{Date: "2024-01-02", Hours: 4},
	}
	if err := store.SaveLedger("uid-1", entries); err != nil {
		t.Fatalf("save ledger: %v", err)
	}

	loaded, ok, err := store.LoadLedger("uid-1")
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if !ok {
		t.Fatalf("expected cached ledger")
	}
	if len(loaded) != 2 || loaded[0].Date != "2024-01-01" || loaded[0].Hours != 8 {
		t.Fatalf("unexpected cached entries: %+v", loaded)
	}
}

func TestLoadLedger_MissingUser(t *testing.T) {
	store := openTestStore(t)
	if _, ok, err := store.LoadLedger("nobody"); err != nil || ok {
		t.Fatalf("expected no cache, got ok=%v err=%v", ok, err)
	}
}

func TestLedger_NamespacedPerUser(t *testing.T) {
	store := openTestStore(t)

	if err := store.SaveLedger("uid-1", []timelog.Entry{{Date: "2024-01-01", Hours: 8}}); err != nil {
		t.Fatalf("save uid-1: %v", err)
	}
	if err := store.SaveLedger("uid-2", []timelog.Entry{{Date: "2024-02-02", Hours: 3}}); err != nil {
		t.Fatalf("save uid-2: %v", err)
	}

	first, _, err := store.LoadLedger("uid-1")
	if err != nil {
		t.Fatalf("load uid-1: %v", err)
	}
	second, _, err := store.LoadLedger("uid-2")
	if err != nil {
		t.Fatalf("load uid-2: %v", err)
	}
	if first[0].Date == second[0].Date {
		t.Fatalf("cache leaked across users: %+v vs %+v", first, second)
	}
}

func TestGoalRoundTripAndOverwrite(t *testing.T) {
	store := openTestStore(t)

	if _, ok, err := store.LoadGoal("uid-1"); err != nil || ok {
		t.Fatalf("expected no cached goal, got ok=%v err=%v", ok, err)
	}

	if err := store.SaveGoal("uid-1", 486); err != nil {
		t.Fatalf("save goal: %v", err)
	}
	if err := store.SaveGoal("uid-1", 520.5); err != nil {
		t.Fatalf("overwrite goal: %v", err)
	}

	goal, ok, err := store.LoadGoal("uid-1")
	if err != nil {
		t.Fatalf("load goal: %v", err)
	}
	if !ok || goal != 520.5 {
		t.Fatalf("goal = %v ok=%v, want 520.5", goal, ok)
	}
}

func TestDarkModePreference(t *testing.T) {
	store := openTestStore(t)

	enabled, err := store.LoadDarkMode()
	if err != nil {
		t.Fatalf("load default dark mode: %v", err)
	}
	if enabled {
		t.Fatalf("dark mode should default to false")
	}

	if err := store.SaveDarkMode(true); err != nil {
		t.Fatalf("save dark mode: %v", err)
	}
	enabled, err = store.LoadDarkMode()
	if err != nil {
		t.Fatalf("load dark mode: %v", err)
	}
	if !enabled {
		t.Fatalf("dark mode not persisted")
	}
}
