package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"wyweb/internal/diagfmt"
	"wyweb/internal/driver"
	"wyweb/internal/observ"
)

// Compiler is the part of driver.Compiler the handler needs.
type Compiler interface {
	Compile(ctx context.Context, code []byte, opts driver.Options) *driver.Outcome
}

// Params are the decoded form fields of a compile request.
type Params struct {
	Code            string
	HasCode         bool
	Verify          bool
	Counterexamples bool
}

// ParseParams reads the form fields. For each field the last occurrence
// wins; a boolean is true only for "true" in any case.
func ParseParams(form url.Values) Params {
	last := func(k string) (string, bool) {
		vs := form[k]
		if len(vs) == 0 {
			return "", false
		}
		return vs[len(vs)-1], true
	}
	flag := func(k string) bool {
		v, _ := last(k)
		return strings.EqualFold(v, "true")
	}
	code, ok := last("code")
	return Params{
		Code:            code,
		HasCode:         ok,
		Verify:          flag("verify"),
		Counterexamples: flag("counterexamples"),
	}
}

// ParseForm decodes an application/x-www-form-urlencoded body. Pairs are
// split on '&' only, so a raw ';' stays part of the value. A key or value
// that fails to unescape is kept as sent (with '+' read as a space).
func ParseForm(body string) url.Values {
	form := url.Values{}
	for pair := range strings.SplitSeq(body, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		form.Add(unescape(k), unescape(v))
	}
	return form
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return strings.ReplaceAll(s, "+", " ")
}

// Handler serves compile requests.
type Handler struct {
	Compiler     Compiler
	MaxBodyBytes int64
	Logger       *zap.Logger
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	info := infoFrom(r.Context())
	timer := observ.NewTimer()
	if info != nil {
		info.timer = timer
	}

	if r.Body == nil || r.Body == http.NoBody {
		http.Error(w, "missing entity", http.StatusBadRequest)
		return
	}
	idx := timer.Begin("read")
	body := r.Body
	if h.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.MaxBodyBytes)
	}
	raw, err := io.ReadAll(body)
	timer.End(idx, "")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request entity too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "cannot read request body", http.StatusBadRequest)
		return
	}
	p := ParseParams(ParseForm(string(raw)))
	if !p.HasCode {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	out := h.Compiler.Compile(r.Context(), []byte(p.Code), driver.Options{
		Verify:          p.Verify,
		Counterexamples: p.Counterexamples,
	})
	for _, st := range out.Timings.Stages() {
		timer.Record(string(st), out.Timings.Duration(st))
	}
	if info != nil {
		info.outcome = out.Kind
		info.stage = string(out.Stage)
	}

	idx = timer.Begin("encode")
	payload, err := diagfmt.Encode(out.Result)
	timer.End(idx, "")
	if err != nil {
		h.logger().Error("encode result", zap.Error(err))
		payload, _ = diagfmt.Encode(diagfmt.Exception(err.Error()))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

// Health answers GET /healthz.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// PostOnly rejects anything but POST with 405.
func PostOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}
