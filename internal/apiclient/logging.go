package apiclient

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/hospital-portal/internal/observability"
)

// LoggingTransport logs outbound bodies at debug level and counts every call.
type LoggingTransport struct {
	next    http.RoundTripper
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewLoggingTransport wraps next.
func NewLoggingTransport(next http.RoundTripper, logger *zap.Logger, metrics *observability.Metrics) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &LoggingTransport{next: next, logger: logger.Named("api"), metrics: metrics}
}

// RoundTrip implements http.RoundTripper.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	debug := t.logger.Core().Enabled(zapcore.DebugLevel)

	if debug && req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			payload, _ := io.ReadAll(body)
			body.Close()
			t.logger.Debug("api request",
				zap.String("method", req.Method),
				zap.String("uri", req.URL.String()),
				zap.ByteString("body", payload),
			)
		}
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.metrics.RecordOutbound(req.URL.Path, req.Method, 0)
		return nil, err
	}
	t.metrics.RecordOutbound(req.URL.Path, req.Method, resp.StatusCode)

	if !debug || resp.Body == nil {
		return resp, nil
	}

	payload, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(payload))
	if readErr != nil {
		return resp, nil
	}

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("uri", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	}
	if req.Method == http.MethodGet && isJSON(resp.Header.Get("Content-Type")) {
		if summary, ok := summarizeArray(payload); ok {
			t.logger.Debug("api response", append(fields, zap.ByteString("summary", summary))...)
			return resp, nil
		}
	}
	t.logger.Debug("api response", append(fields, zap.ByteString("body", payload))...)
	return resp, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

type arraySummary struct {
	Count int               `json:"Count"`
	First []json.RawMessage `json:"First"`
	Last  []json.RawMessage `json:"Last,omitempty"`
}

// summarizeArray shortens a JSON array to its count plus first and last items.
func summarizeArray(payload []byte) ([]byte, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(payload, &items); err != nil || items == nil {
		return nil, false
	}

	summary := arraySummary{Count: len(items), First: []json.RawMessage{}}
	if len(items) > 0 {
		summary.First = items[:1]
	}
	if len(items) > 1 {
		summary.Last = items[len(items)-1:]
	}
	out, err := json.Marshal(summary)
	if err != nil {
		return nil, false
	}
	return out, true
}
