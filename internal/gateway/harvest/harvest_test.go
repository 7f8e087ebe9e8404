package harvest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oleg-kuibar/time-agent/config"
	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testRecord() entities.ReviewRecord {
	return entities.ReviewRecord{
		Repo:        "acme/x",
		PRNumber:    7,
		Reviewer:    "bob",
		TimeSpent:   15,
		Comments:    3,
		CompletedAt: time.Date(2024, 2, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewTimeEntry(t *testing.T) {
	entry := NewTimeEntry("p1", "t1", testRecord())

	assert.Equal(t, "p1", entry.ProjectID)
	assert.Equal(t, "t1", entry.TaskID)
	assert.Equal(t, "2024-02-05", entry.SpentDate)
	assert.InDelta(t, 0.25, entry.Hours, 1e-9)
	assert.Equal(t, "Code review for PR #7 in acme/x\nComments: 3", entry.Notes)
}

func TestClient_NotifyReview(t *testing.T) {
	var got TimeEntry
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/time_entries", r.URL.Path)
		assert.Equal(t, "acc", r.Header.Get("Harvest-Account-ID"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := New(zap.NewNop().Sugar(), config.HarvestConfig{
		AccountID:   "acc",
		AccessToken: "tok",
		ProjectID:   "p1",
		TaskID:      "t1",
		BaseURL:     server.URL + "/v2/",
	}, time.Second)

	require.Equal(t, "harvest", client.Name())
	require.NoError(t, client.NotifyReview(context.Background(), testRecord()))
	assert.Equal(t, NewTimeEntry("p1", "t1", testRecord()), got)
}

func TestClient_NotifyReviewUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"project not found"}`))
	}))
	defer server.Close()

	client := New(zap.NewNop().Sugar(), config.HarvestConfig{BaseURL: server.URL}, time.Second)

	err := client.NotifyReview(context.Background(), testRecord())
	require.ErrorIs(t, err, entities.ErrUpstream)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "project not found")
}
