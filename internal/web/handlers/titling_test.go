package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/broadcastlabs/op47titler/internal/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTitlingHandler() *TitlingHandler {
	log := zap.NewNop().Sugar()
	return NewTitlingHandler(log, mapper.NewMapper(log), newTestController())
}

func writeTempVTT(t *testing.T) string {
	f, err := os.CreateTemp(t.TempDir(), "*.vtt")
	require.NoError(t, err)
	_, err = f.WriteString("WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nhello\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func TestTitlingHandler_Success(t *testing.T) {
	h := newTitlingHandler()
	path := writeTempVTT(t)

	body := `{"vttPath":"` + path + `","timeMode":"autonomous"}`
	req := httptest.NewRequest(http.MethodPost, "/titling", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp mapper.TitlingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.OK)
	assert.Equal(t, 1, resp.Cues)
	assert.Equal(t, 1, resp.Segments)
}

func TestTitlingHandler_MissingVTTPath_Returns400(t *testing.T) {
	h := newTitlingHandler()
	req := httptest.NewRequest(http.MethodPost, "/titling", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTitlingHandler_WrongMethod_Returns400(t *testing.T) {
	h := newTitlingHandler()
	req := httptest.NewRequest(http.MethodGet, "/titling", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTitlingHandler_InvalidTimeMode_Returns400(t *testing.T) {
	h := newTitlingHandler()
	path := writeTempVTT(t)
	body := `{"vttPath":"` + path + `","timeMode":"nonsense"}`
	req := httptest.NewRequest(http.MethodPost, "/titling", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTitlingHandler_MissingFile_Returns400(t *testing.T) {
	h := newTitlingHandler()
	body := `{"vttPath":"/no/such/file.vtt"}`
	req := httptest.NewRequest(http.MethodPost, "/titling", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
