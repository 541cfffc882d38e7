package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/ratescope/cache"
	"github.com/use-agent/ratescope/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubStreamer replays a scripted event sequence and records its inputs.
type stubStreamer struct {
	events    []models.Event
	sessionID string
	urls      []string
}

func (s *stubStreamer) Stream(_ context.Context, sessionID string, urls []string) <-chan models.Event {
	s.sessionID = sessionID
	s.urls = urls
	ch := make(chan models.Event)
	go func() {
		defer close(ch)
		for _, ev := range s.events {
			ch <- ev
		}
	}()
	return ch
}

// closeNotifyRecorder adds the http.CloseNotifier method gin's
// Context.Stream requires, which httptest.ResponseRecorder lacks.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newCloseNotifyRecorder() *closeNotifyRecorder {
	return &closeNotifyRecorder{httptest.NewRecorder(), make(chan bool, 1)}
}

func (c *closeNotifyRecorder) CloseNotify() <-chan bool { return c.closed }

func newStreamRouter(st Streamer, store *cache.Store) *gin.Engine {
	r := gin.New()
	r.GET("/stream", Stream(st, store))
	return r
}

func TestStream_RequiresURLs(t *testing.T) {
	store := cache.New(time.Hour, 10)
	r := newStreamRouter(&stubStreamer{}, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), models.ErrCodeInvalidInput) {
		t.Errorf("body missing error code: %s", w.Body.String())
	}
	if store.Len() != 0 {
		t.Errorf("session created despite bad request")
	}
}

func TestStream_BlankURLsRejected(t *testing.T) {
	store := cache.New(time.Hour, 10)
	r := newStreamRouter(&stubStreamer{}, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream?u=%20%20&u=", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestStream_EventFraming(t *testing.T) {
	store := cache.New(time.Hour, 10)
	st := &stubStreamer{events: []models.Event{
		{Name: models.EventInit, Data: models.InitPayload{Total: 1, Rows: models.TableRows}},
		{Name: models.EventStartURL, Data: models.StartURLPayload{Index: 0, URL: "https://acme.test"}},
		{Name: models.EventDone, Data: models.DonePayload{OK: true}},
	}}
	r := newStreamRouter(st, store)

	w := newCloseNotifyRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream?u=acme.test", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if ab := w.Header().Get("X-Accel-Buffering"); ab != "no" {
		t.Errorf("X-Accel-Buffering = %q", ab)
	}

	body := w.Body.String()
	for _, want := range []string{
		"event: init\n",
		`"total":1`,
		"event: start_url\n",
		`"url":"https://acme.test"`,
		"event: done\n",
		`"ok":true`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if !strings.HasSuffix(body, "\n\n") {
		t.Errorf("last record not blank-line terminated:\n%q", body)
	}
}

func TestStream_PassesCleanedURLs(t *testing.T) {
	store := cache.New(time.Hour, 10)
	st := &stubStreamer{}
	r := newStreamRouter(st, store)

	w := newCloseNotifyRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream?u=%20acme.test%20&u=&u=beta.test", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(st.urls) != 2 || st.urls[0] != "acme.test" || st.urls[1] != "beta.test" {
		t.Errorf("urls = %v", st.urls)
	}
	if st.sessionID == "" {
		t.Error("no session ID passed to streamer")
	}
}

func TestStream_ResultsFoldedIntoStore(t *testing.T) {
	store := cache.New(time.Hour, 10)
	fields := models.ParsedFields{models.FieldCompany: "Acme"}
	st := &stubStreamer{events: []models.Event{
		{Name: models.EventResult, Data: models.ResultPayload{
			Index: 0, URL: "https://acme.test", Data: fields,
		}},
		{Name: models.EventResult, Data: models.ResultPayload{
			Index: 1, URL: "https://down.test", Error: "No results found - check debug log",
		}},
		{Name: models.EventDone, Data: models.DonePayload{OK: true}},
	}}
	r := newStreamRouter(st, store)

	w := newCloseNotifyRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stream?u=acme.test&u=down.test", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	_, results, ok := store.Get(st.sessionID)
	if !ok {
		t.Fatal("session missing after stream")
	}
	// The failed URL carries no data and must not produce a row.
	if len(results) != 1 {
		t.Fatalf("got %d stored results, want 1", len(results))
	}
	if results[0][models.FieldCompany] != "Acme" {
		t.Errorf("stored result = %v", results[0])
	}
}
