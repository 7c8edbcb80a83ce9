package syncer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/sprintdeck/internal/models"
)

type fakeSaver struct {
	mu    sync.Mutex
	saves int
	err   error
}

func (f *fakeSaver) Save(sprints, archived []models.Sprint, settings models.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saves++
	return nil
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

type fakeMirror struct {
	mu         sync.Mutex
	replicated int
	available  bool
	err        error
}

func (f *fakeMirror) Replicate(snap *models.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.replicated++
	return nil
}

func (f *fakeMirror) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

func (f *fakeMirror) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.replicated
}

func testSource() Source {
	return func() *models.Snapshot {
		return &models.Snapshot{
			Sprints:         models.DefaultSprints(),
			ArchivedSprints: []models.Sprint{},
			Settings:        models.DefaultSettings(),
		}
	}
}

type recordingSaver struct {
	mu     sync.Mutex
	titles []string
}

func (r *recordingSaver) Save(sprints, archived []models.Sprint, settings models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(sprints) > 0 && len(sprints[0].Stories) > 0 {
		r.titles = append(r.titles, sprints[0].Stories[0].Title)
	}
	return nil
}

func (r *recordingSaver) lastTitle() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.titles) == 0 {
		return ""
	}
	return r.titles[len(r.titles)-1]
}

func TestTimerFlushWritesStateAtNotifyTime(t *testing.T) {
	saver := &recordingSaver{}
	live := &models.Snapshot{
		Sprints: []models.Sprint{
			{
				ID: "backlog", Name: "Backlog", Type: models.SprintTypeBacklog,
				Stories: []models.Story{
					{ID: "s1", Number: "TUNE-001", Title: "before", Tags: []string{}, SprintID: "backlog"},
				},
			},
		},
		Settings: models.DefaultSettings(),
	}
	s := New(saver, nil, func() *models.Snapshot { return live }, 30000)
	defer s.Close()

	s.NotifyChange()
	// An edit that never gets notified must not leak into the scheduled
	// write; the flush runs on a timer goroutine against the captured copy.
	live.Sprints[0].Stories[0].Title = "torn"

	time.Sleep(1500 * time.Millisecond)
	if got := saver.lastTitle(); got != "before" {
		t.Errorf("flush wrote live state instead of the notified copy: %q", got)
	}

	s.NotifyChange()
	if err := s.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if got := saver.lastTitle(); got != "torn" {
		t.Errorf("expected the re-notified state, got %q", got)
	}
}

func TestDebounceCollapsesBursts(t *testing.T) {
	saver := &fakeSaver{}
	s := New(saver, nil, testSource(), 30000)
	defer s.Close()

	for i := 0; i < 10; i++ {
		s.NotifyChange()
		time.Sleep(10 * time.Millisecond)
	}

	// One debounce window after the last notify, exactly one save.
	time.Sleep(1500 * time.Millisecond)
	if got := saver.count(); got != 1 {
		t.Errorf("expected 1 save for a burst of edits, got %d", got)
	}
}

func TestFlushIsNoopWhenClean(t *testing.T) {
	saver := &fakeSaver{}
	s := New(saver, nil, testSource(), 30000)
	defer s.Close()

	if err := s.Flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if saver.count() != 0 {
		t.Error("flush saved without changes")
	}
}

func TestForceSaveAlwaysWrites(t *testing.T) {
	saver := &fakeSaver{}
	s := New(saver, nil, testSource(), 30000)
	defer s.Close()

	if err := s.ForceSave(); err != nil {
		t.Fatalf("force save failed: %v", err)
	}
	if saver.count() != 1 {
		t.Errorf("expected 1 save, got %d", saver.count())
	}
	if s.LastSaved().IsZero() {
		t.Error("LastSaved not stamped")
	}
}

func TestSaveErrorKeepsDirty(t *testing.T) {
	wantErr := errors.New("disk full")
	saver := &fakeSaver{err: wantErr}
	s := New(saver, nil, testSource(), 30000)
	defer s.Close()

	s.NotifyChange()
	if err := s.Flush(); !errors.Is(err, wantErr) {
		t.Fatalf("expected save error, got %v", err)
	}
	st := s.Status()
	if !st.Dirty {
		t.Error("dirty flag cleared despite failed save")
	}
	if !errors.Is(st.LastError, wantErr) {
		t.Errorf("expected LastError recorded, got %v", st.LastError)
	}
}

func TestOfflineQueuesAndDrains(t *testing.T) {
	saver := &fakeSaver{}
	mirror := &fakeMirror{}
	s := New(saver, mirror, testSource(), 30000)
	defer s.Close()

	s.SetOnline(false)
	for i := 0; i < 3; i++ {
		s.NotifyChange()
		if err := s.Flush(); err != nil {
			t.Fatalf("flush %d failed: %v", i, err)
		}
	}
	if got := s.Status().QueueLen; got != 3 {
		t.Fatalf("expected 3 queued snapshots, got %d", got)
	}
	if mirror.count() != 0 {
		t.Error("replicated while offline")
	}

	s.SetOnline(true)
	if got := s.Status().QueueLen; got != 0 {
		t.Errorf("expected drained queue, got %d", got)
	}
	if mirror.count() != 3 {
		t.Errorf("expected 3 replications, got %d", mirror.count())
	}
}

func TestDrainHaltsOnFailure(t *testing.T) {
	saver := &fakeSaver{}
	mirror := &fakeMirror{err: errors.New("connection refused")}
	s := New(saver, mirror, testSource(), 30000)
	defer s.Close()

	s.SetOnline(false)
	for i := 0; i < 2; i++ {
		s.NotifyChange()
		s.Flush()
	}

	s.SetOnline(true)
	st := s.Status()
	if st.Online {
		t.Error("expected offline after failed drain")
	}
	if st.QueueLen != 2 {
		t.Errorf("expected queue kept after failed drain, got %d", st.QueueLen)
	}

	// The remote recovers; the queue drains oldest first.
	mirror.mu.Lock()
	mirror.err = nil
	mirror.mu.Unlock()
	s.SetOnline(true)
	if got := s.Status().QueueLen; got != 0 {
		t.Errorf("expected drained queue after recovery, got %d", got)
	}
}

func TestReplicateFailureDuringFlushQueues(t *testing.T) {
	saver := &fakeSaver{}
	mirror := &fakeMirror{err: errors.New("down")}
	s := New(saver, mirror, testSource(), 30000)
	defer s.Close()

	s.NotifyChange()
	if err := s.Flush(); err != nil {
		t.Fatalf("local save should succeed despite remote: %v", err)
	}
	st := s.Status()
	if st.Online {
		t.Error("expected offline after replicate failure")
	}
	if st.QueueLen != 1 {
		t.Errorf("expected failed snapshot queued, got %d", st.QueueLen)
	}
}

func TestCloseFlushesPendingChange(t *testing.T) {
	saver := &fakeSaver{}
	s := New(saver, nil, testSource(), 30000)

	s.NotifyChange()
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if saver.count() != 1 {
		t.Errorf("expected close to flush, got %d saves", saver.count())
	}

	// Closed syncers ignore further notifications.
	s.NotifyChange()
	time.Sleep(1200 * time.Millisecond)
	if saver.count() != 1 {
		t.Error("closed syncer still saving")
	}
}
