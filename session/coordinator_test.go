package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ichika06/ojt-tracker/cache"
	"github.com/ichika06/ojt-tracker/metrics"
	"github.com/ichika06/ojt-tracker/remote"
	"github.com/ichika06/ojt-tracker/timelog"
)

// stubClient records writes and serves canned snapshots. fetchGate, when
// set, holds every fetch until the channel is closed so tests can observe
// the cache-only state deterministically.
type stubClient struct {
	mu        sync.Mutex
	entries   []timelog.Entry
	goal      float64
	failWrite bool
	fetchGate chan struct{}

	signOuts     int
	wroteEntries []timelog.Entry
	wroteGoals   []float64
	deletedDates []string
}

func (s *stubClient) SignUp(ctx context.Context, email, password string) (remote.User, error) {
	return remote.User{}, errors.New("not implemented")
}

func (s *stubClient) SignIn(ctx context.Context, email, password string) (remote.User, error) {
	return remote.User{}, errors.New("not implemented")
}

func (s *stubClient) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signOuts++
	return nil
}

func (s *stubClient) waitGate(ctx context.Context) error {
	s.mu.Lock()
	gate := s.fetchGate
	s.mu.Unlock()
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *stubClient) FetchLogEntries(ctx context.Context, userID string) ([]timelog.Entry, error) {
	if err := s.waitGate(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]timelog.Entry(nil), s.entries...), nil
}

func (s *stubClient) FetchGoal(ctx context.Context, userID string) (float64, error) {
	if err := s.waitGate(ctx); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goal, nil
}

func (s *stubClient) WriteLogEntry(ctx context.Context, userID string, entry timelog.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite {
		return errors.New("write refused")
	}
	s.wroteEntries = append(s.wroteEntries, entry)
	return nil
}

func (s *stubClient) DeleteLogEntry(ctx context.Context, userID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite {
		return errors.New("delete refused")
	}
	s.deletedDates = append(s.deletedDates, date)
	return nil
}

func (s *stubClient) WriteGoal(ctx context.Context, userID string, goal float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite {
		return errors.New("write refused")
	}
	s.wroteGoals = append(s.wroteGoals, goal)
	return nil
}

func testCache(t *testing.T) *cache.Store {
	t.Helper()
	store, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testCoordinator(t *testing.T, client remote.Client, store *cache.Store) *Coordinator {
	t.Helper()
	coord := New(client, store, Options{
		PollInterval: time.Hour,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(coord.Teardown)
	return coord
}

// gatedStub never resolves a fetch, keeping subscriptions silent so tests of
// local mutation see only their own effects.
func gatedStub() *stubClient {
	return &stubClient{fetchGate: make(chan struct{})}
}

func verifiedUser() remote.User {
	return remote.User{ID: "uid-1", Email: "trainee@example.com", Verified: true}
}

func waitForSnapshotLen(t *testing.T, coord *Coordinator, want int) []timelog.Entry {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		entries := coord.Snapshot()
		if len(entries) == want {
			return entries
		}
		select {
		case <-deadline:
			t.Fatalf("snapshot never reached %d entries, last: %+v", want, entries)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStart_RejectsUnverifiedAndSignsOut(t *testing.T) {
	client := &stubClient{}
	coord := testCoordinator(t, client, testCache(t))

	err := coord.Start(context.Background(), remote.User{ID: "uid-1", Email: "new@example.com"})
	if !errors.Is(err, ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}
	if client.signOuts != 1 {
		t.Fatalf("signOuts = %d, want 1", client.signOuts)
	}
	if _, err := coord.LogHours(context.Background(), "2024-01-01", 8, nil); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted after rejected start, got %v", err)
	}
}

func TestStart_ServesCacheThenRemoteSnapshot(t *testing.T) {
	store := testCache(t)
	if err := store.SaveLedger("uid-1", []timelog.Entry{{Date: "2024-01-01", Hours: 4}}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	if err := store.SaveGoal("uid-1", 500); err != nil {
		t.Fatalf("seed goal: %v", err)
	}

	gate := make(chan struct{})
	client := &stubClient{
		entries: []timelog.Entry{
			{Date: "2024-01-01", Hours: 8},
			{Date: "2024-01-02", Hours: 6},
		},
		goal:      600,
		fetchGate: gate,
	}
	coord := testCoordinator(t, client, store)

	if err := coord.Start(context.Background(), verifiedUser()); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Cache view is available before any remote fetch resolves.
	entries := coord.Snapshot()
	if len(entries) != 1 || entries[0].Hours != 4 {
		t.Fatalf("cached view = %+v, want one 4h entry", entries)
	}
	if coord.Goal() != 500 {
		t.Fatalf("cached goal = %v, want 500", coord.Goal())
	}

	close(gate)

	entries = waitForSnapshotLen(t, coord, 2)
	if entries[0].Hours != 8 || entries[1].Date != "2024-01-02" {
		t.Fatalf("remote snapshot not applied: %+v", entries)
	}

	deadline := time.After(2 * time.Second)
	for coord.Goal() != 600 {
		select {
		case <-deadline:
			t.Fatalf("goal snapshot not applied, goal = %v", coord.Goal())
		case <-time.After(5 * time.Millisecond):
		}
	}

	// The remote snapshot overwrites the cached copy.
	cached, ok, err := store.LoadLedger("uid-1")
	if err != nil || !ok {
		t.Fatalf("load cache: ok=%v err=%v", ok, err)
	}
	if len(cached) != 2 {
		t.Fatalf("cache not refreshed from snapshot: %+v", cached)
	}
}

func TestLogHours_WritesRemoteAndCache(t *testing.T) {
	client := gatedStub()
	store := testCache(t)
	coord := testCoordinator(t, client, store)
	if err := coord.Start(context.Background(), verifiedUser()); err != nil {
		t.Fatalf("start: %v", err)
	}

	needed := 6.0
	entry, err := coord.LogHours(context.Background(), "2024-03-04", 8, &needed)
	if err != nil {
		t.Fatalf("log hours: %v", err)
	}
	if entry.Overtime != 2 {
		t.Fatalf("overtime = %v, want 2", entry.Overtime)
	}

	client.mu.Lock()
	wrote := append([]timelog.Entry(nil), client.wroteEntries...)
	client.mu.Unlock()
	if len(wrote) != 1 || wrote[0].Date != "2024-03-04" {
		t.Fatalf("remote writes = %+v", wrote)
	}

	cached, ok, err := store.LoadLedger("uid-1")
	if err != nil || !ok || len(cached) != 1 || cached[0].Hours != 8 {
		t.Fatalf("cache after log: ok=%v err=%v entries=%+v", ok, err, cached)
	}
}

func TestLogHours_RemoteFailureKeepsLocalChange(t *testing.T) {
	client := gatedStub()
	client.failWrite = true
	store := testCache(t)
	coord := testCoordinator(t, client, store)
	if err := coord.Start(context.Background(), verifiedUser()); err != nil {
		t.Fatalf("start: %v", err)
	}

	entry, err := coord.LogHours(context.Background(), "2024-03-04", 7.5, nil)
	if !errors.Is(err, ErrRemoteWrite) {
		t.Fatalf("expected ErrRemoteWrite, got %v", err)
	}
	if entry.Hours != 7.5 {
		t.Fatalf("entry = %+v", entry)
	}

	entries := coord.Snapshot()
	if len(entries) != 1 || entries[0].Hours != 7.5 {
		t.Fatalf("local change lost: %+v", entries)
	}
	cached, ok, _ := store.LoadLedger("uid-1")
	if !ok || len(cached) != 1 {
		t.Fatalf("cache missing local change: ok=%v entries=%+v", ok, cached)
	}
}

func TestLogHours_RejectsInvalidHours(t *testing.T) {
	client := gatedStub()
	coord := testCoordinator(t, client, testCache(t))
	if err := coord.Start(context.Background(), verifiedUser()); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := coord.LogHours(context.Background(), "2024-03-04", 0, nil); !errors.Is(err, timelog.ErrInvalidHours) {
		t.Fatalf("expected ErrInvalidHours, got %v", err)
	}
	if len(coord.Snapshot()) != 0 {
		t.Fatalf("rejected log must not mutate the ledger")
	}
	client.mu.Lock()
	defer client.mu.Unlock()
	if len(client.wroteEntries) != 0 {
		t.Fatalf("rejected log must not reach the remote store")
	}
}

func TestRemoveEntry(t *testing.T) {
	client := gatedStub()
	store := testCache(t)
	coord := testCoordinator(t, client, store)
	if err := coord.Start(context.Background(), verifiedUser()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := coord.LogHours(context.Background(), "2024-03-04", 8, nil); err != nil {
		t.Fatalf("log hours: %v", err)
	}

	if err := coord.RemoveEntry(context.Background(), "2024-03-04"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(coord.Snapshot()) != 0 {
		t.Fatalf("entry not removed locally")
	}

	client.mu.Lock()
	deleted := append([]string(nil), client.deletedDates...)
	client.mu.Unlock()
	if len(deleted) != 1 || deleted[0] != "2024-03-04" {
		t.Fatalf("remote deletes = %v", deleted)
	}

	cached, ok, _ := store.LoadLedger("uid-1")
	if !ok || len(cached) != 0 {
		t.Fatalf("cache still holds removed entry: %+v", cached)
	}
}

func TestSaveGoal_CoercesInvalidToDefault(t *testing.T) {
	client := gatedStub()
	coord := testCoordinator(t, client, testCache(t))
	if err := coord.Start(context.Background(), verifiedUser()); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := coord.SaveGoal(context.Background(), -5); err != nil {
		t.Fatalf("save goal: %v", err)
	}
	if coord.Goal() != metrics.DefaultGoal {
		t.Fatalf("goal = %v, want default %d", coord.Goal(), metrics.DefaultGoal)
	}

	if err := coord.SaveGoal(context.Background(), 520); err != nil {
		t.Fatalf("save goal: %v", err)
	}
	if coord.Goal() != 520 {
		t.Fatalf("goal = %v, want 520", coord.Goal())
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	if len(client.wroteGoals) != 2 || client.wroteGoals[0] != metrics.DefaultGoal || client.wroteGoals[1] != 520 {
		t.Fatalf("remote goals = %v", client.wroteGoals)
	}
}

func TestTeardown_ClearsStateButKeepsCache(t *testing.T) {
	client := gatedStub()
	store := testCache(t)
	coord := testCoordinator(t, client, store)
	if err := coord.Start(context.Background(), verifiedUser()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := coord.LogHours(context.Background(), "2024-03-04", 8, nil); err != nil {
		t.Fatalf("log hours: %v", err)
	}

	coord.Teardown()

	if len(coord.Snapshot()) != 0 {
		t.Fatalf("ledger survives teardown")
	}
	if coord.Goal() != metrics.DefaultGoal {
		t.Fatalf("goal not reset, got %v", coord.Goal())
	}
	if _, err := coord.LogHours(context.Background(), "2024-03-05", 8, nil); !errors.Is(err, ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted after teardown, got %v", err)
	}

	// The device cache is intentionally retained for the next sign-in.
	cached, ok, err := store.LoadLedger("uid-1")
	if err != nil || !ok || len(cached) != 1 {
		t.Fatalf("cache lost on teardown: ok=%v err=%v entries=%+v", ok, err, cached)
	}
}

func TestSummary(t *testing.T) {
	client := gatedStub()
	coord := testCoordinator(t, client, testCache(t))
	if err := coord.Start(context.Background(), verifiedUser()); err != nil {
		t.Fatalf("start: %v", err)
	}

	needed := 6.0
	if _, err := coord.LogHours(context.Background(), "2024-03-04", 8, &needed); err != nil {
		t.Fatalf("log hours: %v", err)
	}
	if err := coord.SaveGoal(context.Background(), 100); err != nil {
		t.Fatalf("save goal: %v", err)
	}

	summary := coord.Summary()
	if summary.TotalLogged != 8 || summary.Remaining != 92 || summary.TotalOvertime != 2 {
		t.Fatalf("summary = %+v", summary)
	}
}
