// Package session owns the in-memory ledger and goal for one authenticated
// user and keeps them consistent with the remote store: cache first for an
// instant view, subscriptions for the authoritative one, and local-only
// fallback when a remote write fails so the app stays usable offline.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync"
	"time"

	"github.com/ichika06/ojt-tracker/cache"
	"github.com/ichika06/ojt-tracker/metrics"
	"github.com/ichika06/ojt-tracker/remote"
	"github.com/ichika06/ojt-tracker/timelog"
)

var (
	// ErrNotStarted reports an operation against a torn-down or never
	// started session.
	ErrNotStarted = errors.New("session: not started")

	// ErrNotVerified rejects identities whose email is unverified; the
	// session layer signs them out rather than exposing a half
	// authenticated state.
	ErrNotVerified = errors.New("session: email not verified")

	// ErrRemoteWrite is non-fatal: the mutation was kept locally and will
	// reconcile when a later write succeeds or the subscription delivers a
	// corrective snapshot.
	ErrRemoteWrite = errors.New("session: remote write failed, change kept locally")
)

type Options struct {
	// PollInterval paces the snapshot subscriptions. Zero uses the remote
	// package default.
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Coordinator is the single owner of the ledger and goal between Start and
// Teardown. All mutation funnels through it, serialized by one mutex.
type Coordinator struct {
	client   remote.Client
	cache    *cache.Store
	logger   *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	started bool
	user    remote.User
	ledger  *timelog.Ledger
	goal    float64

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	logsSub *remote.LogEntrySubscription
	goalSub *remote.GoalSubscription
}

func New(client remote.Client, store *cache.Store, opts Options) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Coordinator{
		client:   client,
		cache:    store,
		logger:   logger,
		interval: opts.PollInterval,
		ledger:   timelog.NewLedger(),
		goal:     metrics.DefaultGoal,
	}
}

// Start activates the session for a signed-in user: the cache is read
// synchronously for instant display, then both remote subscriptions are
// opened. Unverified identities are signed out and rejected.
func (c *Coordinator) Start(ctx context.Context, user remote.User) error {
	if !user.Verified {
		if err := c.client.SignOut(ctx); err != nil {
			c.logger.Warn("sign-out of unverified account failed", "error", err)
		}
		return fmt.Errorf("%w: %s", ErrNotVerified, user.Email)
	}

	c.mu.Lock()
	c.started = true
	c.user = user
	c.ledger = timelog.NewLedger()
	c.goal = metrics.DefaultGoal

	if cached, ok, err := c.cache.LoadLedger(user.ID); err != nil {
		c.logger.Warn("cached ledger unreadable", "error", err)
	} else if ok {
		c.ledger.ReplaceAll(cached)
	}
	if cachedGoal, ok, err := c.cache.LoadGoal(user.ID); err != nil {
		c.logger.Warn("cached goal unreadable", "error", err)
	} else if ok && cachedGoal > 0 {
		c.goal = cachedGoal
	}
	c.mu.Unlock()

	// Subscriptions outlive the Start call; they end at Teardown.
	subCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.logsSub = remote.SubscribeLogEntries(subCtx, c.client, user.ID, c.interval)
	c.goalSub = remote.SubscribeGoal(subCtx, c.client, user.ID, c.interval)

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		for entries := range c.logsSub.Updates() {
			c.applyLedgerSnapshot(entries)
		}
	}()
	go func() {
		defer c.wg.Done()
		for goal := range c.goalSub.Updates() {
			c.applyGoalSnapshot(goal)
		}
	}()

	return nil
}

// Teardown cancels both subscriptions and discards the in-memory state. The
// cache keyed by the signed-out user is left untouched; it cannot leak into
// another user's session because every key carries the user ID. Safe to call
// on every exit path, including before Start.
func (c *Coordinator) Teardown() {
	// Mark stopped first so in-flight snapshot deliveries are discarded
	// instead of racing the state reset below.
	c.mu.Lock()
	c.started = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.wg.Wait()
		c.cancel = nil
		c.logsSub = nil
		c.goalSub = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = remote.User{}
	c.ledger = timelog.NewLedger()
	c.goal = metrics.DefaultGoal
}

// Refresh performs one synchronous snapshot fetch for both ledger and goal,
// for callers that cannot wait on the subscription cadence. Failures keep
// the cached view and are returned as a non-fatal condition.
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return ErrNotStarted
	}
	userID := c.user.ID
	c.mu.Unlock()

	entries, entriesErr := c.client.FetchLogEntries(ctx, userID)
	if entriesErr == nil {
		c.applyLedgerSnapshot(entries)
	}
	goal, goalErr := c.client.FetchGoal(ctx, userID)
	if goalErr == nil {
		if goal <= 0 {
			goal = metrics.DefaultGoal
		}
		c.applyGoalSnapshot(goal)
	}

	if entriesErr != nil {
		return fmt.Errorf("refresh ledger: %w", entriesErr)
	}
	if goalErr != nil {
		return fmt.Errorf("refresh goal: %w", goalErr)
	}
	return nil
}

// LogHours upserts one day's record. The mutation is applied to the ledger
// and cache first, then written remotely; a failed remote write is reported
// as ErrRemoteWrite while the local change stands (the next successful write
// or snapshot reconciles it). Validation failures leave everything
// unchanged.
func (c *Coordinator) LogHours(ctx context.Context, date string, hours float64, neededHours *float64) (timelog.Entry, error) {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return timelog.Entry{}, ErrNotStarted
	}

	entry, err := c.ledger.Upsert(date, hours, neededHours, time.Now().UTC())
	if err != nil {
		c.mu.Unlock()
		return timelog.Entry{}, err
	}
	userID := c.user.ID
	snapshot := c.ledger.Entries()
	c.mu.Unlock()

	if err := c.cache.SaveLedger(userID, snapshot); err != nil {
		c.logger.Warn("cache write failed", "error", err)
	}

	if err := c.client.WriteLogEntry(ctx, userID, entry); err != nil {
		c.logger.Warn("remote log write failed, keeping local change",
			"date", date, "error", err)
		return entry, fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}
	return entry, nil
}

// RemoveEntry deletes one day's record locally and remotely, with the same
// fallback contract as LogHours.
func (c *Coordinator) RemoveEntry(ctx context.Context, date string) error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return ErrNotStarted
	}
	c.ledger.Remove(date)
	userID := c.user.ID
	snapshot := c.ledger.Entries()
	c.mu.Unlock()

	if err := c.cache.SaveLedger(userID, snapshot); err != nil {
		c.logger.Warn("cache write failed", "error", err)
	}

	if err := c.client.DeleteLogEntry(ctx, userID, date); err != nil {
		c.logger.Warn("remote delete failed, keeping local change",
			"date", date, "error", err)
		return fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}
	return nil
}

// SaveGoal updates the overall target. Non-positive or non-finite values
// fall back to the default, mirroring the tracked input's coercion.
func (c *Coordinator) SaveGoal(ctx context.Context, goal float64) error {
	if math.IsNaN(goal) || math.IsInf(goal, 0) || goal <= 0 {
		goal = metrics.DefaultGoal
	}

	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return ErrNotStarted
	}
	c.goal = goal
	userID := c.user.ID
	c.mu.Unlock()

	if err := c.cache.SaveGoal(userID, goal); err != nil {
		c.logger.Warn("cache write failed", "error", err)
	}

	if err := c.client.WriteGoal(ctx, userID, goal); err != nil {
		c.logger.Warn("remote goal write failed, keeping local change",
			"goal", goal, "error", err)
		return fmt.Errorf("%w: %v", ErrRemoteWrite, err)
	}
	return nil
}

// Snapshot returns the current entries sorted by date.
func (c *Coordinator) Snapshot() []timelog.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Entries()
}

// LedgerCopy returns an independent ledger built from the current snapshot,
// for read-shared consumers like the metrics engine and the calendar grid.
func (c *Coordinator) LedgerCopy() *timelog.Ledger {
	copied := timelog.NewLedger()
	copied.ReplaceAll(c.Snapshot())
	return copied
}

func (c *Coordinator) Goal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goal
}

func (c *Coordinator) User() remote.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Summary derives the statistics for the current state.
func (c *Coordinator) Summary() metrics.Summary {
	c.mu.Lock()
	ledger := c.ledger
	goal := c.goal
	entries := ledger.Entries()
	c.mu.Unlock()

	snapshot := timelog.NewLedger()
	snapshot.ReplaceAll(entries)
	return metrics.Summarize(snapshot, goal)
}

// applyLedgerSnapshot mirrors a remote delivery: full in-memory replacement
// (remote is authoritative) followed by a cache overwrite.
func (c *Coordinator) applyLedgerSnapshot(entries []timelog.Entry) {
	c.mu.Lock()
	if !c.started {
		// A slow delivery racing sign-out resolves against a torn-down
		// session and is discarded.
		c.mu.Unlock()
		return
	}
	c.ledger.ReplaceAll(entries)
	userID := c.user.ID
	snapshot := c.ledger.Entries()
	c.mu.Unlock()

	if err := c.cache.SaveLedger(userID, snapshot); err != nil {
		c.logger.Warn("cache write failed", "error", err)
	}
}

func (c *Coordinator) applyGoalSnapshot(goal float64) {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return
	}
	c.goal = goal
	userID := c.user.ID
	c.mu.Unlock()

	if err := c.cache.SaveGoal(userID, goal); err != nil {
		c.logger.Warn("cache write failed", "error", err)
	}
}
