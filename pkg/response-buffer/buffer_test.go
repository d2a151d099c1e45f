package buffer

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultStatus(t *testing.T) {
	rb := New()
	if rb.StatusCode() != http.StatusOK {
		t.Fatalf("Status is %d", rb.StatusCode())
	}
	rb.SetDefaultStatus(http.StatusCreated)
	rb.Write([]byte("hello"))
	if rb.StatusCode() != http.StatusCreated {
		t.Fatalf("Status is %d", rb.StatusCode())
	}
	// status is fixed once written
	rb.WriteHeader(http.StatusTeapot)
	if rb.StatusCode() != http.StatusCreated {
		t.Fatalf("Status is %d", rb.StatusCode())
	}
}

func TestExplicitStatusWins(t *testing.T) {
	rb := New()
	rb.SetDefaultStatus(http.StatusNoContent)
	rb.WriteHeader(http.StatusAccepted)
	if rb.StatusCode() != http.StatusAccepted {
		t.Fatalf("Status is %d", rb.StatusCode())
	}
}

func TestReset(t *testing.T) {
	rb := New()
	rb.Header().Set("X-Partial", "yes")
	rb.WriteHeader(http.StatusAccepted)
	rb.Write([]byte("partial"))
	rb.Reset()
	if rb.Header().Get("X-Partial") != "" || len(rb.Body()) != 0 || rb.StatusCode() != http.StatusOK {
		t.Fatal("Reset left state behind")
	}
}

func TestWriteTo(t *testing.T) {
	rb := New()
	rb.Header().Set("Content-Type", "text/plain")
	rb.Write([]byte("hello"))

	rec := httptest.NewRecorder()
	if err := rb.WriteTo(rec); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK || rec.Body.String() != "hello" {
		t.Fatalf("Got %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Length") != "5" || rec.Header().Get("Content-Type") != "text/plain" {
		t.Fatalf("Headers %v", rec.Header())
	}
}

func TestWriteToDiscardedBody(t *testing.T) {
	rb := New()
	rb.Write([]byte("hello"))
	rb.DiscardBody()
	rb.Header().Set("Content-Length", "0")

	rec := httptest.NewRecorder()
	rb.WriteTo(rec)
	if rec.Body.Len() != 0 || rec.Header().Get("Content-Length") != "0" {
		t.Fatalf("Body was sent: %q", rec.Body.String())
	}
}

func TestWriteToNotModified(t *testing.T) {
	rb := New()
	rb.WriteHeader(http.StatusNotModified)
	rec := httptest.NewRecorder()
	rb.WriteTo(rec)
	if rec.Code != http.StatusNotModified || rec.Header().Get("Content-Length") != "" {
		t.Fatalf("Got %d %v", rec.Code, rec.Header())
	}
}
