package typing

import (
	"sync"
	"time"
)

// Mode controls how a job's text combines with what a surface already shows
type Mode int

const (
	// Overwrite replaces the surface content
	Overwrite Mode = iota
	// Append types after the existing content
	Append
)

// State is the scheduler's explicit animation state
type State int

const (
	// Idle means no job is running and the queue is empty
	Idle State = iota
	// Typing means characters are being emitted for the current job
	Typing
	// Settling is the pause between a finished job and the next queued one
	Settling
)

// Frame is one step of a typing animation. Text is the full surface content
// so far, so consumers never need to track deltas.
type Frame struct {
	Surface string `json:"surface"`
	Text    string `json:"text"`
	Done    bool   `json:"done"`
	Seq     uint64 `json:"seq"`
}

// Job is one queued typing animation
type Job struct {
	Surface string
	Text    string
	Mode    Mode
	// Rich enables sentence pauses after ., ! and ?
	Rich bool
	// CharDelay overrides the default pacing when non-zero
	CharDelay time.Duration
}

// Config holds the scheduler's pacing knobs
type Config struct {
	// CodeCharDelay is the per-character delay for plain surfaces
	CodeCharDelay time.Duration
	// RichCharDelay is the per-character delay for rich surfaces
	RichCharDelay time.Duration
	// SentencePause is the extra pause after sentence-ending punctuation
	// on rich surfaces
	SentencePause time.Duration
	// SettleDelay is how long a finished job rests before the next starts
	SettleDelay time.Duration
}

// DefaultConfig returns the standard pacing
func DefaultConfig() Config {
	return Config{
		CodeCharDelay: 12 * time.Millisecond,
		RichCharDelay: 18 * time.Millisecond,
		SentencePause: 1000 * time.Millisecond,
		SettleDelay:   50 * time.Millisecond,
	}
}

// Scheduler serializes typing animations. Jobs arriving while one is running
// queue in FIFO order; each finished job settles briefly before the next
// drains. All animation state lives here, never in the rendering surface,
// so a consumer can reconnect and resume from the latest frame.
type Scheduler struct {
	cfg  Config
	emit func(Frame)

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Job
	state    State
	contents map[string]string
	paused   bool
	skip     bool
	stopped  bool
	seq      uint64
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler that reports frames through emit.
// The emit callback runs on the scheduler goroutine and must not block.
func NewScheduler(cfg Config, emit func(Frame)) *Scheduler {
	s := &Scheduler{
		cfg:      cfg,
		emit:     emit,
		contents: make(map[string]string),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Start launches the scheduler goroutine
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
}

// Stop halts the scheduler. The current job ends immediately with a final
// frame carrying its complete text; queued jobs are discarded.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	s.cond.Broadcast()
	s.mu.Unlock()
	s.wg.Wait()
}

// Enqueue adds a job. If the scheduler is idle it starts right away,
// otherwise it waits its turn behind everything already queued.
func (s *Scheduler) Enqueue(j Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.queue = append(s.queue, j)
	s.cond.Broadcast()
}

// Busy reports whether a job is running or queued
func (s *Scheduler) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != Idle || len(s.queue) > 0
}

// State returns the current animation state
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// QueueLen returns how many jobs are waiting behind the current one
func (s *Scheduler) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Content returns the latest full text of a surface
func (s *Scheduler) Content(surface string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contents[surface]
}

// SetContent replaces a surface's content directly, outside any animation.
// Used when restoring a project.
func (s *Scheduler) SetContent(surface, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents[surface] = text
}

// Pause freezes the current animation mid-character. Queued jobs stay queued.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Resume continues a paused animation from where it stopped
func (s *Scheduler) Resume() {
	s.mu.Lock()
	s.paused = false
	s.cond.Broadcast()
	s.mu.Unlock()
}

// SkipCurrent finishes the running job instantly with its full text.
// The settle delay and queued jobs are unaffected.
func (s *Scheduler) SkipCurrent() {
	s.mu.Lock()
	if s.state == Typing {
		s.skip = true
		s.cond.Broadcast()
	}
	s.mu.Unlock()
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.stopped {
			s.state = Idle
			s.cond.Wait()
		}
		if s.stopped {
			s.state = Idle
			s.mu.Unlock()
			return
		}
		j := s.queue[0]
		s.queue = s.queue[1:]
		s.state = Typing
		s.skip = false
		s.mu.Unlock()

		s.typeJob(j)

		s.mu.Lock()
		if s.stopped {
			s.state = Idle
			s.queue = nil
			s.mu.Unlock()
			return
		}
		s.state = Settling
		s.mu.Unlock()
		time.Sleep(s.cfg.SettleDelay)
	}
}

func (s *Scheduler) typeJob(j Job) {
	s.mu.Lock()
	base := ""
	if j.Mode == Append {
		base = s.contents[j.Surface]
	}
	s.mu.Unlock()

	delay := j.CharDelay
	if delay == 0 {
		if j.Rich {
			delay = s.cfg.RichCharDelay
		} else {
			delay = s.cfg.CodeCharDelay
		}
	}

	runes := []rune(j.Text)
	for i, r := range runes {
		if s.waitOrBail() {
			break
		}

		s.publish(j.Surface, base+string(runes[:i+1]), false)

		time.Sleep(delay)
		if j.Rich && isSentenceEnd(r) && i < len(runes)-1 {
			time.Sleep(s.cfg.SentencePause)
		}
	}

	s.publish(j.Surface, base+j.Text, true)
}

// waitOrBail blocks while paused and reports whether the current job should
// jump straight to its final frame
func (s *Scheduler) waitOrBail() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.paused && !s.stopped && !s.skip {
		s.cond.Wait()
	}
	return s.stopped || s.skip
}

func (s *Scheduler) publish(surface, text string, done bool) {
	s.mu.Lock()
	s.contents[surface] = text
	s.seq++
	f := Frame{Surface: surface, Text: text, Done: done, Seq: s.seq}
	emit := s.emit
	s.mu.Unlock()

	if emit != nil {
		emit(f)
	}
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
