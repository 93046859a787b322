package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedrelay/feedrelay/pkg/scheduler"
	"github.com/feedrelay/feedrelay/server/mocks"
)

func TestServer_StatusEndpoint(t *testing.T) {
	sched := &mocks.SchedulerMock{
		StatusFunc: func() scheduler.Status {
			return scheduler.Status{
				ActiveSources: 5,
				EvictedTotal:  1,
				SentTotal:     42,
				CyclesTotal:   7,
				LastCycle:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			}
		},
	}

	s := New(sched, ":0", 30*time.Second, "test-version", false)
	ts := httptest.NewServer(s.router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

	var body struct {
		Status  string           `json:"status"`
		Version string           `json:"version"`
		Relay   scheduler.Status `json:"relay"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "test-version", body.Version)
	assert.Equal(t, 5, body.Relay.ActiveSources)
	assert.Equal(t, 42, body.Relay.SentTotal)
	assert.Equal(t, 7, body.Relay.CyclesTotal)

	assert.Len(t, sched.StatusCalls(), 1)
}

func TestServer_Ping(t *testing.T) {
	sched := &mocks.SchedulerMock{StatusFunc: func() scheduler.Status { return scheduler.Status{} }}

	s := New(sched, ":0", 30*time.Second, "test-version", false)
	ts := httptest.NewServer(s.router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
}

func TestServer_AppInfoHeader(t *testing.T) {
	sched := &mocks.SchedulerMock{StatusFunc: func() scheduler.Status { return scheduler.Status{} }}

	s := New(sched, ":0", 30*time.Second, "v1.2.3", false)
	ts := httptest.NewServer(s.router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "feedrelay", resp.Header.Get("App-Name"))
	assert.Equal(t, "v1.2.3", resp.Header.Get("App-Version"))
}

func TestServer_NotFound(t *testing.T) {
	sched := &mocks.SchedulerMock{StatusFunc: func() scheduler.Status { return scheduler.Status{} }}

	s := New(sched, ":0", 30*time.Second, "test-version", false)
	ts := httptest.NewServer(s.router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
