package trace

import (
	"io"
	"slices"
	"sync"
)

// Recorder keeps the most recent events in memory. Nothing is written until
// Dump is called, which makes it a flight recorder for failed builds.
type Recorder struct {
	mu    sync.Mutex
	buf   []Event
	next  int // слот для следующего события
	n     int
	level Level
}

// DefaultRecordSize is the number of events kept when no size is configured.
const DefaultRecordSize = 4096

func NewRecorder(size int, level Level) *Recorder {
	if size <= 0 {
		size = DefaultRecordSize
	}
	return &Recorder{buf: make([]Event, size), level: level}
}

func (r *Recorder) Emit(ev *Event) {
	if !r.level.ShouldEmit(ev.Scope) {
		return
	}
	r.mu.Lock()
	r.buf[r.next] = *ev
	r.buf[r.next].Seq = NextSeq()
	r.next = (r.next + 1) % len(r.buf)
	r.n = min(r.n+1, len(r.buf))
	r.mu.Unlock()
}

// Events returns the kept events, oldest first.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.n < len(r.buf) {
		return slices.Clone(r.buf[:r.n])
	}
	return slices.Concat(r.buf[r.next:], r.buf[:r.next])
}

// Len reports how many events are kept.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// Dump writes the kept events to w and forgets them.
func (r *Recorder) Dump(w io.Writer, format Format) error {
	events := r.Events()
	r.mu.Lock()
	r.next, r.n = 0, 0
	r.mu.Unlock()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) Flush() error  { return nil }
func (r *Recorder) Close() error  { return nil }
func (r *Recorder) Level() Level  { return r.level }
func (r *Recorder) Enabled() bool { return r.level > LevelOff }
