package transcribe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"relisten/internal/config"
)

func TestWhisperServerTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.WriteHeader(http.StatusOK)
		case "/inference":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("parse multipart: %v", err)
			}
			file, _, err := r.FormFile("file")
			if err != nil {
				t.Errorf("form file: %v", err)
				http.Error(w, "missing file", http.StatusBadRequest)
				return
			}
			payload, _ := io.ReadAll(file)
			file.Close()
			if string(payload) != "fake-mp3-bytes" {
				t.Errorf("payload = %q", payload)
			}
			io.WriteString(w, `{"text":"  hello from whisper \n"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ws := NewWhisperServer(srv.URL, time.Second)

	var percents []int
	progress := func(p int) { percents = append(percents, p) }

	if err := ws.Initialize(context.Background(), progress); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	text, err := ws.Transcribe(context.Background(), []byte("fake-mp3-bytes"), progress)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "hello from whisper" {
		t.Errorf("text = %q", text)
	}

	if len(percents) == 0 || percents[len(percents)-1] != 100 {
		t.Errorf("progress = %v, want trailing 100", percents)
	}
}

func TestWhisperServerInferenceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":"failed to decode audio"}`)
	}))
	defer srv.Close()

	ws := NewWhisperServer(srv.URL, time.Second)
	_, err := ws.Transcribe(context.Background(), []byte("x"), nil)
	if err == nil || !strings.Contains(err.Error(), "failed to decode audio") {
		t.Errorf("err = %v", err)
	}
}

func TestWhisperServerHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ws := NewWhisperServer(srv.URL, time.Second)

	if err := ws.Initialize(context.Background(), nil); err == nil {
		t.Error("Initialize should fail on non-200 health")
	}
	if _, err := ws.Transcribe(context.Background(), []byte("x"), nil); err == nil {
		t.Error("Transcribe should fail on http 503")
	}
}

func TestWhisperServerUnreachable(t *testing.T) {
	ws := NewWhisperServer("http://127.0.0.1:1", 200*time.Millisecond)
	if err := ws.Initialize(context.Background(), nil); err == nil {
		t.Error("expected connection error")
	}
}

func TestNewSelectsBackend(t *testing.T) {
	tr, err := New(config.Transcription{Backend: "whisper", Endpoint: "http://127.0.0.1:8080"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Name() != "whisper-server" {
		t.Errorf("Name = %q", tr.Name())
	}

	if _, err := New(config.Transcription{Backend: "carrier-pigeon"}); err == nil {
		t.Error("expected error for unknown backend")
	}

	// openai without a key in the named env var fails up front.
	t.Setenv("RELISTEN_TEST_NO_KEY", "")
	if _, err := New(config.Transcription{Backend: "openai", APIKeyEnv: "RELISTEN_TEST_NO_KEY"}); err == nil {
		t.Error("expected error for missing API key")
	}
}
