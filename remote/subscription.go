package remote

import (
	"context"
	"time"

	"github.com/ichika06/ojt-tracker/metrics"
	"github.com/ichika06/ojt-tracker/timelog"
)

// DefaultPollInterval paces snapshot polling when the config leaves it unset.
const DefaultPollInterval = 30 * time.Second

// LogEntrySubscription delivers full ledger snapshots until canceled. A
// failed fetch delivers the empty snapshot: consumers treat that as "no data
// yet", never as a blocking error state.
type LogEntrySubscription struct {
	updates chan []timelog.Entry
	cancel  context.CancelFunc
}

// SubscribeLogEntries opens a snapshot stream for one user. The first
// snapshot is fetched immediately, then on every interval tick. Cancel (or
// canceling ctx) stops delivery and closes the channel.
func SubscribeLogEntries(ctx context.Context, client Client, userID string, interval time.Duration) *LogEntrySubscription {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	sub := &LogEntrySubscription{
		updates: make(chan []timelog.Entry, 1),
		cancel:  cancel,
	}

	go func() {
		defer close(sub.updates)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			entries, err := client.FetchLogEntries(ctx, userID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				entries = []timelog.Entry{}
			}
			select {
			case sub.updates <- entries:
			case <-ctx.Done():
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub
}

// Updates is the snapshot stream; it closes after Cancel.
func (s *LogEntrySubscription) Updates() <-chan []timelog.Entry {
	return s.updates
}

// Cancel stops the subscription. Safe to call more than once.
func (s *LogEntrySubscription) Cancel() {
	s.cancel()
}

// GoalSubscription delivers goal snapshots until canceled. A failed fetch
// delivers the default goal.
type GoalSubscription struct {
	updates chan float64
	cancel  context.CancelFunc
}

// SubscribeGoal opens a goal snapshot stream for one user, with the same
// delivery contract as SubscribeLogEntries.
func SubscribeGoal(ctx context.Context, client Client, userID string, interval time.Duration) *GoalSubscription {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	sub := &GoalSubscription{
		updates: make(chan float64, 1),
		cancel:  cancel,
	}

	go func() {
		defer close(sub.updates)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			goal, err := client.FetchGoal(ctx, userID)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				goal = metrics.DefaultGoal
			}
			if goal <= 0 {
				goal = metrics.DefaultGoal
			}
			select {
			case sub.updates <- goal:
			case <-ctx.Done():
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub
}

func (s *GoalSubscription) Updates() <-chan float64 {
	return s.updates
}

func (s *GoalSubscription) Cancel() {
	s.cancel()
}
