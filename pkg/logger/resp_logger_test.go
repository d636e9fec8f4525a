package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseLogger(t *testing.T) {
	rr := httptest.NewRecorder()
	lw := New(rr)

	if lw.Status() != http.StatusOK {
		t.Errorf("want default status %v, got %v", http.StatusOK, lw.Status())
	}

	lw.Header().Set("X-Test", "1")
	lw.WriteHeader(http.StatusTeapot)
	lw.Write([]byte("short and stout"))

	if lw.Status() != http.StatusTeapot {
		t.Errorf("want status %v, got %v", http.StatusTeapot, lw.Status())
	}
	if lw.Bytes() != len("short and stout") {
		t.Errorf("want %d bytes, got %d", len("short and stout"), lw.Bytes())
	}
	if rr.Header().Get("X-Test") != "1" || rr.Code != http.StatusTeapot {
		t.Errorf("want header and status passed through, got %v %v", rr.Header(), rr.Code)
	}
}
