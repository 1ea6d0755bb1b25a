package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"wyweb/internal/artifact"
	"wyweb/internal/bundle"
	"wyweb/internal/config"
	"wyweb/internal/driver"
	"wyweb/lib"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"))
}

var (
	stdOnce sync.Once
	stdLib  *artifact.Library
	stdErr  error
)

func library(t *testing.T) *artifact.Library {
	t.Helper()
	stdOnce.Do(func() {
		var b *bundle.Bundle
		b, stdErr = bundle.FromFS(lib.FS)
		if stdErr == nil {
			stdLib, stdErr = bundle.Compile(context.Background(), b, bundle.Options{})
		}
	})
	require.NoError(t, stdErr)
	return stdLib
}

func newServer(t *testing.T, log *zap.Logger) *httptest.Server {
	t.Helper()
	if log == nil {
		log = zap.NewNop()
	}
	c := driver.New(driver.Config{Logger: log}, library(t))
	srv := httptest.NewServer(Routes(c, config.Default().Server, log))
	t.Cleanup(srv.Close)
	t.Cleanup(http.DefaultClient.CloseIdleConnections)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := http.PostForm(srv.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &m), body)
	return m
}

func TestScenarioSuccess(t *testing.T) {
	srv := newServer(t, nil)
	status, body := post(t, srv, "/", url.Values{"code": {"import std::math;\nprint math::max(2, 3);\n"}, "verify": {"false"}})
	require.Equal(t, http.StatusOK, status)
	m := decode(t, body)
	assert.Equal(t, "success", m["result"])
	js := m["js"].(string)
	assert.Contains(t, js, "function std$math$max(a, b) {")
	assert.Contains(t, js, "console.log(std$math$max(2, 3));")
}

func TestScenarioSyntaxError(t *testing.T) {
	srv := newServer(t, nil)
	status, body := post(t, srv, "/compile", url.Values{"code": {"int x = "}})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, `{"result":"errors","errors":[{"filename":"main.wy","line":1,"start":8,"end":8,"text":"expected expression, found end of input","context":[]}]}`, body)
}

func TestScenarioMissingCode(t *testing.T) {
	srv := newServer(t, nil)
	status, body := post(t, srv, "/", url.Values{"verify": {"true"}})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Empty(t, body)
}

func postRaw(t *testing.T, srv *httptest.Server, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/compile", "application/x-www-form-urlencoded", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(out)
}

func TestLenientFormBody(t *testing.T) {
	srv := newServer(t, nil)
	tests := []struct {
		name string
		body string
	}{
		{"bad unrelated pair", "code=print+1%3B&note=%zz"},
		{"raw semicolon", "code=int x = 1;"},
		{"unknown fields", "lang=wy&code=print%201%3B&&verify=nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postRaw(t, srv, tt.body)
			require.Equal(t, http.StatusOK, status, body)
			assert.Equal(t, "success", decode(t, body)["result"])
		})
	}
}

func TestParseForm(t *testing.T) {
	form := ParseForm("code=x+%3D+1;&verify=true&verify=false&bad=%zz&flag")
	assert.Equal(t, []string{"x = 1;"}, form["code"])
	assert.Equal(t, []string{"true", "false"}, form["verify"])
	assert.Equal(t, []string{"%zz"}, form["bad"])
	assert.Equal(t, []string{""}, form["flag"])
	assert.False(t, ParseParams(form).Verify)
}

func TestScenarioCounterexample(t *testing.T) {
	srv := newServer(t, nil)
	code := "function f(int x) -> int\nensures result > 0\n{\n    return x;\n}\n"
	status, body := post(t, srv, "/", url.Values{
		"code":            {code},
		"verify":          {"TRUE"},
		"counterexamples": {"false", "True"},
	})
	require.Equal(t, http.StatusOK, status)
	m := decode(t, body)
	require.Equal(t, "errors", m["result"], body)
	errs := m["errors"].([]any)
	require.Len(t, errs, 1)
	entry := errs[0].(map[string]any)
	assert.Equal(t, "postcondition not satisfied", entry["text"])
	assert.Equal(t, float64(4), entry["line"])
	assert.Equal(t, "{x=0}", entry["counterexample"])
	assert.Equal(t, []any{}, entry["context"])
}

func TestLibraryContractViolation(t *testing.T) {
	srv := newServer(t, nil)
	status, body := post(t, srv, "/", url.Values{
		"code":   {"import std::math;\nint p = math::pow(2, 70);\n"},
		"verify": {"true"},
	})
	require.Equal(t, http.StatusOK, status)
	m := decode(t, body)
	require.Equal(t, "errors", m["result"], body)
	entry := m["errors"].([]any)[0].(map[string]any)
	assert.Equal(t, "precondition not satisfied", entry["text"])
	_, has := entry["counterexample"]
	assert.False(t, has)
}

func TestMissingEntity(t *testing.T) {
	srv := newServer(t, nil)
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "missing entity\n", string(body))
}

func TestMethodsAndRoutes(t *testing.T) {
	srv := newServer(t, nil)

	resp, err := http.Get(srv.URL + "/compile")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "POST", resp.Header.Get("Allow"))

	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.PostForm(srv.URL+"/nowhere", url.Values{"code": {"print 1;"}})
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func get(t *testing.T, target string) (int, string, string) {
	t.Helper()
	resp, err := http.Get(target)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, resp.Header.Get("Content-Type"), string(body)
}

func TestPlayground(t *testing.T) {
	srv := newServer(t, nil)

	status, ctype, body := get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, ctype, "text/html")
	assert.Contains(t, body, "<title>Wy playground</title>")
	assert.Contains(t, body, `src="static/playground.js"`)

	status, _, body = get(t, srv.URL+"/static/playground.js")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `fetch("compile"`)
	assert.Contains(t, body, "localStorage")

	status, _, _ = get(t, srv.URL+"/static/playground.css")
	assert.Equal(t, http.StatusOK, status)
	status, _, _ = get(t, srv.URL+"/static/missing.js")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPlaygroundDisabled(t *testing.T) {
	cfg := config.Default().Server
	cfg.Playground = false
	srv := httptest.NewServer(Routes(driver.New(driver.Config{}), cfg, zap.NewNop()))
	defer srv.Close()
	defer http.DefaultClient.CloseIdleConnections()

	status, _, _ := get(t, srv.URL+"/")
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	status, _, _ = get(t, srv.URL+"/static/playground.js")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestIdempotentAcrossRequests(t *testing.T) {
	srv := newServer(t, nil)
	form := url.Values{"code": {"function f(int x) -> int\nrequires x != 0\n{\n    return 10 / x;\n}\nprint f(0);\n"}, "verify": {"true"}, "counterexamples": {"true"}}
	_, first := post(t, srv, "/", form)
	for range 3 {
		_, again := post(t, srv, "/", form)
		assert.Equal(t, first, again)
	}
	assert.Contains(t, first, `"result":"errors"`)
}

func TestBodyLimit(t *testing.T) {
	log := zap.NewNop()
	cfg := config.Default().Server
	cfg.MaxBodyBytes = 16
	srv := httptest.NewServer(Routes(driver.New(driver.Config{}), cfg, log))
	defer srv.Close()
	status, _ := post(t, srv, "/", url.Values{"code": {strings.Repeat("x", 64)}})
	assert.Equal(t, http.StatusRequestEntityTooLarge, status)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

type panicking struct{}

func (panicking) Compile(context.Context, []byte, driver.Options) *driver.Outcome {
	panic("boom")
}

func TestRecoverAndAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)
	h := Routes(panicking{}, config.Default().Server, log)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("code=print+1%3B"))
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, `{"result":"exception","text":"internal server error"}`, rec.Body.String())
	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))

	panics := logs.FilterMessage("handler panicked").All()
	require.Len(t, panics, 1)
	assert.Equal(t, "req-1", panics[0].ContextMap()["request_id"])
	access := logs.FilterMessage("request").All()
	require.Len(t, access, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), access[0].ContextMap()["status"])
}

func TestAccessLogRecordsOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	srv := newServer(t, zap.New(core))
	post(t, srv, "/", url.Values{"code": {"int x = "}})

	access := logs.FilterMessage("request").All()
	require.Len(t, access, 1)
	fields := access[0].ContextMap()
	assert.Equal(t, "errors", fields["outcome"])
	assert.Equal(t, "compile", fields["stage"])
	assert.NotEmpty(t, fields["request_id"])
	assert.Contains(t, fields["timings"], "compile")
}

func TestServeShutsDown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := New(driver.New(driver.Config{}), config.Default().Server, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, l) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	require.NoError(t, <-done)
	http.DefaultClient.CloseIdleConnections()
}
