package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "chatty", "text")
	assert.Error(t, err)
}

func TestRequestLogger(t *testing.T) {
	var out bytes.Buffer
	log, err := New(&out, "info", "json")
	require.NoError(t, err)

	var sawEntry bool
	handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawEntry = FromContext(r.Context(), nil).(*logrus.Entry)
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	assert.True(t, sawEntry)
	assert.Equal(t, http.StatusTeapot, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	assert.Equal(t, "request complete", line["msg"])
	assert.Equal(t, "/api/news", line["http.req.path"])
	assert.EqualValues(t, http.StatusTeapot, line["http.resp.status"])
	assert.EqualValues(t, len("short and stout"), line["http.resp.bytes"])
}

func TestFromContextFallback(t *testing.T) {
	fallback := logrus.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Same(t, fallback, FromContext(req.Context(), fallback))
}
