package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSend_DeliversPayload(t *testing.T) {
	received := make(chan Payload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p Payload
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &p); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		received <- p
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewSink(slog.Default())
	sink.Send(context.Background(), srv.URL, Payload{
		JobID: "abc", Email: "a@example.com", OCRResult: `{"text":"hi"}`,
		StatusURL: "http://localhost:3040/job/abc", Timestamp: "2026-01-01T00:00:00Z",
	})

	select {
	case p := <-received:
		if p.JobID != "abc" || p.Email != "a@example.com" {
			t.Fatalf("unexpected payload: %+v", p)
		}
	default:
		t.Fatal("expected webhook server to receive a request")
	}
}

func TestSend_SwallowsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := NewSink(slog.Default())
	// Must not panic or block; there is no error return to check.
	sink.Send(context.Background(), srv.URL, Payload{JobID: "abc"})
}

func TestSend_SwallowsUnreachableHost(t *testing.T) {
	sink := NewSink(slog.Default())
	sink.Send(context.Background(), "http://127.0.0.1:1", Payload{JobID: "abc"})
}
