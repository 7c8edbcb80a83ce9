// Package syncer coordinates saves: edits are debounced into a single local
// write, a fallback timer bounds how long a dirty board can stay unsaved,
// and every successful local write is mirrored to the remote or queued while
// offline.
package syncer

import (
	"sync"
	"time"

	"github.com/julianstephens/sprintdeck/internal/constants"
	"github.com/julianstephens/sprintdeck/internal/logger"
	"github.com/julianstephens/sprintdeck/internal/models"
)

// Saver is the local persistence dependency.
type Saver interface {
	Save(sprints, archived []models.Sprint, settings models.Settings) error
}

// Replicator is the optional remote mirror dependency.
type Replicator interface {
	Replicate(snap *models.Snapshot) error
	Available() bool
}

// Source produces the current board snapshot. It is only ever invoked on the
// caller's goroutine (inside NotifyChange, ForceSave or Close), never from a
// timer goroutine, so callers need no locking around their board state.
type Source func() *models.Snapshot

// Status is a point-in-time view of the syncer for display.
type Status struct {
	Online    bool
	Dirty     bool
	QueueLen  int
	LastSaved time.Time
	LastError error
}

const maxQueuedSnapshots = 100

type Syncer struct {
	store  Saver
	mirror Replicator
	source Source

	mu        sync.Mutex
	debounce  *time.Timer
	fallback  *time.Timer
	pending   *models.Snapshot
	dirty     bool
	online    bool
	queue     []*models.Snapshot
	lastSaved time.Time
	lastErr   error
	interval  time.Duration
	closed    bool
}

// New builds a syncer. mirror may be nil for local-only boards.
// autoSaveIntervalMs is the fallback bound; the debounce window is fixed.
func New(store Saver, mirror Replicator, source Source, autoSaveIntervalMs int) *Syncer {
	interval := time.Duration(autoSaveIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = time.Duration(constants.DefaultAutoSaveInterval) * time.Millisecond
	}
	return &Syncer{
		store:    store,
		mirror:   mirror,
		source:   source,
		interval: interval,
		online:   mirror != nil,
	}
}

// NotifyChange captures a deep copy of the current snapshot, marks the board
// dirty and restarts the debounce window. The copy is what the timer-side
// flush writes, so the timers never touch the live board. The fallback timer
// is armed on the first change and left running, so a stream of edits cannot
// postpone the save past the autosave interval.
func (s *Syncer) NotifyChange() {
	snap := s.source().Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = snap
	s.dirty = true

	if s.debounce == nil {
		s.debounce = time.AfterFunc(time.Duration(constants.DebounceInterval)*time.Millisecond, s.flushTimer)
	} else {
		s.debounce.Reset(time.Duration(constants.DebounceInterval) * time.Millisecond)
	}
	if s.fallback == nil {
		s.fallback = time.AfterFunc(s.interval, s.flushTimer)
	}
}

func (s *Syncer) flushTimer() {
	if err := s.Flush(); err != nil {
		logger.Error("autosave failed", "err", err)
	}
}

// Flush writes immediately when dirty. Both timers are stopped so a manual
// save cancels any scheduled one.
func (s *Syncer) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.dirty {
		return nil
	}
	return s.flushLocked()
}

// ForceSave captures the current state and writes it regardless of the dirty
// flag.
func (s *Syncer) ForceSave() error {
	snap := s.source().Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.pending = snap
	return s.flushLocked()
}

func (s *Syncer) flushLocked() error {
	s.stopTimersLocked()
	snap := s.pending
	if snap == nil {
		snap = s.source().Clone()
	}

	err := s.store.Save(snap.Sprints, snap.ArchivedSprints, snap.Settings)
	if err != nil {
		s.lastErr = err
		return err
	}
	s.pending = nil
	s.dirty = false
	s.lastSaved = time.Now()
	s.lastErr = nil

	if s.mirror == nil {
		return nil
	}
	if !s.online {
		s.enqueueLocked(snap)
		return nil
	}
	if err := s.mirror.Replicate(snap); err != nil {
		logger.Warn("remote mirror unreachable, queueing snapshot", "err", err)
		s.online = false
		s.enqueueLocked(snap)
	}
	return nil
}

func (s *Syncer) stopTimersLocked() {
	if s.debounce != nil {
		s.debounce.Stop()
	}
	if s.fallback != nil {
		s.fallback.Stop()
		s.fallback = nil
	}
}

// enqueueLocked appends the snapshot for later replication. The queue is
// bounded; when full the oldest entry is dropped since newer snapshots
// supersede it.
func (s *Syncer) enqueueLocked(snap *models.Snapshot) {
	s.queue = append(s.queue, snap)
	if len(s.queue) > maxQueuedSnapshots {
		s.queue = s.queue[len(s.queue)-maxQueuedSnapshots:]
	}
}

// SetOnline flips connectivity. Coming online drains the queue oldest first;
// a replication failure halts the drain and keeps the remainder queued.
func (s *Syncer) SetOnline(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = online && s.mirror != nil
	if !s.online {
		return
	}
	for len(s.queue) > 0 {
		snap := s.queue[0]
		if err := s.mirror.Replicate(snap); err != nil {
			logger.Warn("queue drain halted", "remaining", len(s.queue), "err", err)
			s.online = false
			return
		}
		s.queue = s.queue[1:]
	}
}

// CheckRemote pings the mirror and updates connectivity, draining the queue
// when it comes back.
func (s *Syncer) CheckRemote() bool {
	if s.mirror == nil {
		return false
	}
	available := s.mirror.Available()
	s.SetOnline(available)
	return available
}

func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Online:    s.online,
		Dirty:     s.dirty,
		QueueLen:  len(s.queue),
		LastSaved: s.lastSaved,
		LastError: s.lastErr,
	}
}

func (s *Syncer) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved
}

// Close stops the timers and flushes any pending change.
func (s *Syncer) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	var err error
	if s.dirty {
		err = s.flushLocked()
	} else {
		s.stopTimersLocked()
	}
	s.closed = true
	return err
}
