package errors_test

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/dalemusser/agenseek/internal/app/features/errors"
	"github.com/dalemusser/agenseek/internal/app/system/inputval"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogServerError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/dashboard", nil)
	el.LogServerError(rec, req, "load dashboard failed", stderrors.New("mongo: connection reset"), "")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "mongo") {
		t.Errorf("internal error leaked: %s", rec.Body.String())
	}
	if logs.Len() != 1 {
		t.Fatalf("logged %d entries, want 1", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "load dashboard failed" {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.ContextMap()["path"] != "/dashboard" {
		t.Errorf("path field = %v", entry.ContextMap()["path"])
	}
}

func TestLogServerError_NilLogger(t *testing.T) {
	var el *uierrors.ErrorLogger
	rec := httptest.NewRecorder()
	el.LogServerError(rec, httptest.NewRequest("GET", "/", nil), "x", nil, "custom")
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), "custom") {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestInvalid(t *testing.T) {
	type input struct {
		Title string `validate:"required" label:"Title"`
	}
	res := inputval.Validate(input{})
	rec := httptest.NewRecorder()
	uierrors.Invalid(rec, res)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Title is required.") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestFallbacks(t *testing.T) {
	rec := httptest.NewRecorder()
	uierrors.NotFound(rec, httptest.NewRequest("GET", "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("NotFound status = %d", rec.Code)
	}
	rec = httptest.NewRecorder()
	uierrors.MethodNotAllowed(rec, httptest.NewRequest("PATCH", "/health", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("MethodNotAllowed status = %d", rec.Code)
	}
}
