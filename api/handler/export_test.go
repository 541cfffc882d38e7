package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/use-agent/ratescope/cache"
	"github.com/use-agent/ratescope/export"
	"github.com/use-agent/ratescope/models"
)

func newExportRouter(store *cache.Store) *gin.Engine {
	r := gin.New()
	r.GET("/download/excel/:session", DownloadExcel(store))
	return r
}

func TestDownloadExcel_UnknownSession(t *testing.T) {
	store := cache.New(time.Hour, 10)
	r := newExportRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download/excel/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "session not found or expired") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestDownloadExcel_NoResults(t *testing.T) {
	store := cache.New(time.Hour, 10)
	store.Create("empty-run", []string{"https://acme.test"})
	r := newExportRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download/excel/empty-run", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "no results available for download") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestDownloadExcel_ServesWorkbookOnce(t *testing.T) {
	store := cache.New(time.Hour, 10)
	store.Create("0b8fa1c2-dead-beef", []string{"https://acme.test"})
	store.Append("0b8fa1c2-dead-beef", models.ParsedFields{
		models.FieldCompany:      "Acme",
		models.FieldOverallScore: "85",
	})
	r := newExportRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/download/excel/0b8fa1c2-dead-beef", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != export.XLSXContentType {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `filename="ratemysite_analysis_0b8fa1c2.xlsx"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(w.Body)
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()
	if got, _ := f.GetCellValue("Analysis", "A2"); got != "Acme" {
		t.Errorf("A2 = %q, want Acme", got)
	}

	// Session is dropped once served.
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/download/excel/0b8fa1c2-dead-beef", nil))
	if w2.Code != http.StatusNotFound {
		t.Errorf("second download status = %d, want 404", w2.Code)
	}
}

func TestGetSession(t *testing.T) {
	store := cache.New(time.Hour, 10)
	store.Create("run", []string{"https://acme.test"})
	store.Append("run", models.ParsedFields{models.FieldCompany: "Acme"})

	r := gin.New()
	r.GET("/api/v1/cache/:session", GetSession(store))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cache/run", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "https://acme.test") || !strings.Contains(body, "Acme") {
		t.Errorf("body = %s", body)
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/api/v1/cache/missing", nil))
	if w2.Code != http.StatusNotFound {
		t.Errorf("unknown session status = %d, want 404", w2.Code)
	}
}

func TestHealth(t *testing.T) {
	store := cache.New(time.Hour, 10)
	r := gin.New()
	r.GET("/health", Health(store, time.Now().Add(-3*time.Second)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`"status":"healthy"`, `"sessions":0`, `"version":"0.1.0"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q: %s", want, body)
		}
	}
}
