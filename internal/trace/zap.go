package trace

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapTracer writes span ends and points to a structured logger at debug
// level. Span begins are dropped; the end carries the elapsed time.
type ZapTracer struct {
	log   *zap.Logger
	level Level
}

func NewZapTracer(log *zap.Logger, level Level) *ZapTracer {
	return &ZapTracer{log: log.Named("trace"), level: level}
}

func (t *ZapTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) || ev.Kind == KindSpanBegin {
		return
	}
	if ce := t.log.Check(zapcore.DebugLevel, ev.Name); ce != nil {
		fields := []zap.Field{
			zap.Stringer("scope", ev.Scope),
			zap.Uint64("span", ev.SpanID),
		}
		if ev.ParentID != 0 {
			fields = append(fields, zap.Uint64("parent", ev.ParentID))
		}
		if ev.Kind == KindSpanEnd {
			fields = append(fields, zap.Duration("elapsed", ev.Elapsed))
		}
		if ev.Detail != "" {
			fields = append(fields, zap.String("detail", ev.Detail))
		}
		for k, v := range ev.Extra {
			fields = append(fields, zap.String(k, v))
		}
		ce.Write(fields...)
	}
}

func (t *ZapTracer) Flush() error { return t.log.Sync() }

func (t *ZapTracer) Close() error { return nil }

func (t *ZapTracer) Level() Level { return t.level }

func (t *ZapTracer) Enabled() bool { return t.level > LevelOff }
