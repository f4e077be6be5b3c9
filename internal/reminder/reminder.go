// Package reminder runs the background jobs: due-word reminders and
// periodic state snapshots.
package reminder

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/store"
	"github.com/abhisek/lingua/internal/vocab"
)

const (
	// DefaultSnapshotEvery is the snapshot interval when none is set.
	DefaultSnapshotEvery = 6 * time.Hour

	// DefaultSnapshotKeep is how many snapshots survive a prune.
	DefaultSnapshotKeep = 10

	jobTimeout = time.Minute
)

// Notifier delivers due-word reminders.
type Notifier interface {
	NotifyDue(ctx context.Context, l lang.Language, count int) error
}

// Snapshotter captures the current learner state.
type Snapshotter interface {
	Snapshot(ctx context.Context) (store.SnapshotData, error)
}

// Sequencer hands out snapshot sequence numbers.
type Sequencer interface {
	NextSequence(ctx context.Context) (int64, error)
}

// Options configures a Scheduler. Snapshots are skipped when Snapshots
// is nil; reminders are only logged when Notifier is nil.
type Options struct {
	Vocab    *vocab.Service
	Notifier Notifier

	Source    Snapshotter
	Snapshots store.SnapshotRepo
	Sequence  Sequencer

	SnapshotEvery time.Duration
	SnapshotKeep  int

	Logger *log.Logger
}

// Scheduler manages the background jobs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	opts      Options
	logger    *log.Logger
	now       func() time.Time
}

// New creates a scheduler. Jobs are registered by Start.
func New(opts Options) *Scheduler {
	if opts.SnapshotEvery <= 0 {
		opts.SnapshotEvery = DefaultSnapshotEvery
	}
	if opts.SnapshotKeep <= 0 {
		opts.SnapshotKeep = DefaultSnapshotKeep
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the jobs and runs the scheduler in the background.
func (s *Scheduler) Start() error {
	s.scheduler.SingletonModeAll()

	if _, err := s.scheduler.Every(1).Hour().Do(s.run("reminders", s.remind)); err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}
	if s.opts.Snapshots != nil {
		if _, err := s.scheduler.Every(s.opts.SnapshotEvery).Do(s.run("snapshot", s.snapshot)); err != nil {
			return fmt.Errorf("schedule snapshots: %w", err)
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled jobs.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) run(name string, job func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := job(ctx); err != nil {
			s.logger.Printf("%s job: %v", name, err)
		}
	}
}

func (s *Scheduler) remind(ctx context.Context) error {
	_, err := s.CheckDue(ctx)
	return err
}

func (s *Scheduler) snapshot(ctx context.Context) error {
	_, err := s.SaveSnapshot(ctx)
	return err
}

// CheckDue counts the due words of every language and notifies for the
// ones that have any. It returns the counts that were reported.
func (s *Scheduler) CheckDue(ctx context.Context) (map[lang.Language]int, error) {
	now := s.now()
	due := make(map[lang.Language]int)
	for _, l := range lang.All() {
		n := vocab.ComputeStats(s.opts.Vocab.Entries(l), now).DueForReview
		if n == 0 {
			continue
		}
		due[l] = n

		if s.opts.Notifier == nil {
			s.logger.Printf("%d %s words due for review", n, l.Name())
			continue
		}
		if err := s.opts.Notifier.NotifyDue(ctx, l, n); err != nil {
			return due, fmt.Errorf("notify %s: %w", l, err)
		}
	}
	return due, nil
}

// SaveSnapshot stores a snapshot of the learner state and prunes old
// ones.
func (s *Scheduler) SaveSnapshot(ctx context.Context) (*store.Snapshot, error) {
	if s.opts.Snapshots == nil || s.opts.Source == nil {
		return nil, fmt.Errorf("snapshot: no snapshot store configured")
	}
	data, err := s.opts.Source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	snap := &store.Snapshot{Timestamp: s.now().UTC(), Data: data}
	if s.opts.Sequence != nil {
		if snap.Sequence, err = s.opts.Sequence.NextSequence(ctx); err != nil {
			return nil, fmt.Errorf("snapshot sequence: %w", err)
		}
	}
	if err := s.opts.Snapshots.Save(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.opts.Snapshots.Prune(ctx, s.opts.SnapshotKeep); err != nil {
		return nil, err
	}
	s.logger.Printf("saved snapshot %d (%d entries)", snap.Sequence, len(data.Entries))
	return snap, nil
}
