package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// WhisperServer talks to a locally running whisper server over HTTP. The
// server owns the model; this client only uploads audio and reads text back.
type WhisperServer struct {
	endpoint   string
	httpClient *http.Client
}

// NewWhisperServer creates a client for the server at endpoint. A zero
// timeout means no request deadline beyond the caller's context.
func NewWhisperServer(endpoint string, timeout time.Duration) *WhisperServer {
	return &WhisperServer{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name identifies the backend.
func (w *WhisperServer) Name() string { return "whisper-server" }

// Close releases client resources.
func (w *WhisperServer) Close() error {
	w.httpClient.CloseIdleConnections()
	return nil
}

// Initialize probes the server health endpoint. The server loads its model
// at startup, so a healthy response means inference is available.
func (w *WhisperServer) Initialize(ctx context.Context, onProgress ProgressFunc) error {
	report(onProgress, 0)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.endpoint+"/health", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whisper server unreachable: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whisper server health: http %d", resp.StatusCode)
	}

	report(onProgress, 100)
	return nil
}

type inferenceResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// Transcribe uploads the full payload as multipart form data and returns
// the transcript text. Progress is coarse: upload built, response received,
// decoded.
func (w *WhisperServer) Transcribe(ctx context.Context, audio []byte, onProgress ProgressFunc) (string, error) {
	report(onProgress, 0)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "recording.mp3")
	if err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return "", fmt.Errorf("write audio: %w", err)
	}
	if err := mw.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("write field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}
	report(onProgress, 25)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint+"/inference", &body)
	if err != nil {
		return "", fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()
	report(onProgress, 90)

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("inference: http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var parsed inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode inference response: %w", err)
	}
	if parsed.Error != "" {
		return "", fmt.Errorf("inference: %s", parsed.Error)
	}

	report(onProgress, 100)
	return strings.TrimSpace(parsed.Text), nil
}

func report(onProgress ProgressFunc, percent int) {
	if onProgress != nil {
		onProgress(percent)
	}
}
