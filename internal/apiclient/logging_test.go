package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/hospital-portal/internal/config"
	"github.com/spec-kit/hospital-portal/internal/observability"
)

func TestSummarizeArray(t *testing.T) {
	summary, ok := summarizeArray([]byte(`[{"id":1},{"id":2},{"id":3}]`))
	require.True(t, ok)
	assert.JSONEq(t, `{"Count":3,"First":[{"id":1}],"Last":[{"id":3}]}`, string(summary))

	single, ok := summarizeArray([]byte(`[{"id":1}]`))
	require.True(t, ok)
	assert.JSONEq(t, `{"Count":1,"First":[{"id":1}]}`, string(single))

	empty, ok := summarizeArray([]byte(`[]`))
	require.True(t, ok)
	assert.JSONEq(t, `{"Count":0,"First":[]}`, string(empty))

	_, ok = summarizeArray([]byte(`{"id":1}`))
	assert.False(t, ok)
}

func TestLoggingTransportLogsAndCounts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`[{"pn_Bank_No":1},{"pn_Bank_No":2}]`))
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	metrics := observability.NewMetrics()
	transport := NewLoggingTransport(http.DefaultTransport, zap.New(core), metrics)

	c, err := New(config.APIConfig{BaseURL: srv.URL, TimeoutSeconds: 5}, transport, zap.NewNop())
	require.NoError(t, err)

	banks, err := Get[[]bank](context.Background(), c, "api/Hospital/bankInfo")
	require.NoError(t, err)
	assert.Len(t, banks, 2, "body must still be readable after logging")

	entries := logs.FilterMessage("api response").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["summary"], `"Count":2`)

	assert.Equal(t, int64(1), metrics.Snapshot().Outbound["/api/Hospital/bankInfo|GET|200"])
}

func TestLoggingTransportLogsRequestBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"t","message":"success"}`))
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	c, err := New(config.APIConfig{BaseURL: srv.URL}, NewLoggingTransport(nil, zap.New(core), nil), zap.NewNop())
	require.NoError(t, err)

	_, err = Post[bank, map[string]string](context.Background(), c, "api/Login/Authentication", bank{BankName: "x"})
	require.NoError(t, err)

	requests := logs.FilterMessage("api request").All()
	require.Len(t, requests, 1)
	assert.Contains(t, requests[0].ContextMap()["body"], `"v_Bank_Name":"x"`)
}
