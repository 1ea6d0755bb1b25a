package trace

import (
	"errors"
	"io"
)

// Dumper is a tracer that holds events back until asked for them.
type Dumper interface {
	Dump(w io.Writer, format Format) error
}

// Tee sends every event to each of its tracers that accepts the event's scope.
type Tee struct {
	tracers []Tracer
	level   Level
}

// NewTee joins tracers. Disabled tracers are dropped; a single remaining
// tracer is returned as is.
func NewTee(tracers ...Tracer) Tracer {
	t := &Tee{}
	for _, tr := range tracers {
		if tr == nil || !tr.Enabled() {
			continue
		}
		t.tracers = append(t.tracers, tr)
		t.level = max(t.level, tr.Level())
	}
	switch len(t.tracers) {
	case 0:
		return Nop
	case 1:
		return t.tracers[0]
	}
	return t
}

func (t *Tee) Emit(ev *Event) {
	for _, tr := range t.tracers {
		if !tr.Level().ShouldEmit(ev.Scope) {
			continue
		}
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *Tee) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t *Tee) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

func (t *Tee) Level() Level  { return t.level }
func (t *Tee) Enabled() bool { return t.level > LevelOff }

// Dump forwards to every member that keeps events back.
func (t *Tee) Dump(w io.Writer, format Format) error {
	var errs []error
	for _, tr := range t.tracers {
		if d, ok := tr.(Dumper); ok {
			errs = append(errs, d.Dump(w, format))
		}
	}
	return errors.Join(errs...)
}

// DumpTo writes the events held back by tr, if it holds any.
// It reports whether tr keeps events back.
func DumpTo(w io.Writer, tr Tracer, format Format) (bool, error) {
	d, ok := tr.(Dumper)
	if !ok {
		return false, nil
	}
	return true, d.Dump(w, format)
}
