package typing

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		CodeCharDelay: time.Microsecond,
		RichCharDelay: time.Microsecond,
		SentencePause: time.Microsecond,
		SettleDelay:   time.Microsecond,
	}
}

// frameSink collects frames and signals each completed job
type frameSink struct {
	mu     sync.Mutex
	frames []Frame
	done   chan Frame
}

func newFrameSink() *frameSink {
	return &frameSink{done: make(chan Frame, 16)}
}

func (fs *frameSink) emit(f Frame) {
	fs.mu.Lock()
	fs.frames = append(fs.frames, f)
	fs.mu.Unlock()
	if f.Done {
		fs.done <- f
	}
}

func (fs *frameSink) waitDone(t *testing.T) Frame {
	t.Helper()
	select {
	case f := <-fs.done:
		return f
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a job to finish")
		return Frame{}
	}
}

func (fs *frameSink) all() []Frame {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]Frame, len(fs.frames))
	copy(out, fs.frames)
	return out
}

func TestSchedulerTypesFullText(t *testing.T) {
	sink := newFrameSink()
	s := NewScheduler(testConfig(), sink.emit)
	s.Start()
	defer s.Stop()

	s.Enqueue(Job{Surface: "code", Text: "total = 1", Mode: Overwrite})
	final := sink.waitDone(t)

	if final.Text != "total = 1" {
		t.Errorf("final frame text = %q, want %q", final.Text, "total = 1")
	}
	if got := s.Content("code"); got != "total = 1" {
		t.Errorf("surface content = %q", got)
	}

	// Frames grow monotonically toward the full text
	prev := ""
	for _, f := range sink.all() {
		if !strings.HasPrefix(f.Text, prev) {
			t.Fatalf("frame %q does not extend %q", f.Text, prev)
		}
		prev = f.Text
	}
}

func TestSchedulerRunsJobsInOrder(t *testing.T) {
	sink := newFrameSink()
	s := NewScheduler(testConfig(), sink.emit)
	s.Start()
	defer s.Stop()

	s.Enqueue(Job{Surface: "chat", Text: "first", Mode: Overwrite})
	s.Enqueue(Job{Surface: "chat", Text: " second", Mode: Append})

	sink.waitDone(t)
	final := sink.waitDone(t)

	if final.Text != "first second" {
		t.Errorf("after both jobs: %q, want %q", final.Text, "first second")
	}

	// No frame from the second job may appear before the first job's
	// done frame
	sawFirstDone := false
	for _, f := range sink.all() {
		if !sawFirstDone && strings.Contains(f.Text, "second") {
			t.Fatal("second job emitted frames before the first finished")
		}
		if f.Done && f.Text == "first" {
			sawFirstDone = true
		}
	}
}

func TestSchedulerSeqIsMonotonic(t *testing.T) {
	sink := newFrameSink()
	s := NewScheduler(testConfig(), sink.emit)
	s.Start()
	defer s.Stop()

	s.Enqueue(Job{Surface: "a", Text: "abc", Mode: Overwrite})
	s.Enqueue(Job{Surface: "b", Text: "xyz", Mode: Overwrite})
	sink.waitDone(t)
	sink.waitDone(t)

	var last uint64
	for _, f := range sink.all() {
		if f.Seq <= last {
			t.Fatalf("seq went backwards: %d after %d", f.Seq, last)
		}
		last = f.Seq
	}
}

func TestPauseResume(t *testing.T) {
	sink := newFrameSink()
	cfg := testConfig()
	cfg.CodeCharDelay = 5 * time.Millisecond
	s := NewScheduler(cfg, sink.emit)
	s.Start()
	defer s.Stop()

	s.Enqueue(Job{Surface: "code", Text: strings.Repeat("x", 200), Mode: Overwrite})
	time.Sleep(20 * time.Millisecond)
	s.Pause()
	// Let a character already past the pause check land
	time.Sleep(10 * time.Millisecond)

	frozen := s.Content("code")
	if frozen == "" || len(frozen) == 200 {
		t.Fatalf("expected a partial surface while paused, got %d chars", len(frozen))
	}
	time.Sleep(30 * time.Millisecond)
	if got := s.Content("code"); got != frozen {
		t.Errorf("surface advanced while paused: %d -> %d chars", len(frozen), len(got))
	}

	s.Resume()
	final := sink.waitDone(t)
	if len(final.Text) != 200 {
		t.Errorf("final frame has %d chars, want 200", len(final.Text))
	}
}

func TestSkipCurrentJumpsToEnd(t *testing.T) {
	sink := newFrameSink()
	cfg := testConfig()
	cfg.CodeCharDelay = 5 * time.Millisecond
	s := NewScheduler(cfg, sink.emit)
	s.Start()
	defer s.Stop()

	s.Enqueue(Job{Surface: "code", Text: strings.Repeat("y", 500), Mode: Overwrite})
	time.Sleep(20 * time.Millisecond)
	s.SkipCurrent()

	final := sink.waitDone(t)
	if len(final.Text) != 500 || !final.Done {
		t.Errorf("skip did not land the full text: %d chars, done=%v", len(final.Text), final.Done)
	}
}

func TestStopEndsCurrentJobWithFinalFrame(t *testing.T) {
	sink := newFrameSink()
	cfg := testConfig()
	cfg.CodeCharDelay = 5 * time.Millisecond
	s := NewScheduler(cfg, sink.emit)
	s.Start()

	s.Enqueue(Job{Surface: "code", Text: strings.Repeat("z", 500), Mode: Overwrite})
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	final := sink.waitDone(t)
	if len(final.Text) != 500 {
		t.Errorf("final frame after stop has %d chars, want 500", len(final.Text))
	}
	if s.Busy() {
		t.Error("scheduler still busy after Stop")
	}
}

func TestBusyAndState(t *testing.T) {
	sink := newFrameSink()
	s := NewScheduler(testConfig(), sink.emit)
	s.Start()
	defer s.Stop()

	if s.Busy() {
		t.Error("fresh scheduler should be idle")
	}

	s.Enqueue(Job{Surface: "code", Text: "hello", Mode: Overwrite})
	sink.waitDone(t)

	// After the done frame the scheduler settles, then goes idle
	deadline := time.After(2 * time.Second)
	for s.Busy() {
		select {
		case <-deadline:
			t.Fatal("scheduler never returned to idle")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if s.State() != Idle {
		t.Errorf("state = %v, want Idle", s.State())
	}
}
