package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type message struct {
	Text   string `json:"text"`
	Blocks []struct {
		Type string `json:"type"`
		Text *struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"text"`
		Elements []struct {
			Type string `json:"type"`
			URL  string `json:"url"`
			Text struct {
				Text string `json:"text"`
			} `json:"text"`
		} `json:"elements"`
	} `json:"blocks"`
}

func testRecord() entities.ReviewRecord {
	return entities.ReviewRecord{
		Repo:      "acme/x",
		PRNumber:  7,
		Reviewer:  "bob",
		TimeSpent: 15,
		URL:       "https://github.com/acme/x/pull/7",
	}
}

func TestNotifier_NotifyReview(t *testing.T) {
	var got message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := New(zap.NewNop().Sugar(), server.URL, time.Second)
	require.Equal(t, "slack", n.Name())
	require.NoError(t, n.NotifyReview(context.Background(), testRecord()))

	require.Len(t, got.Blocks, 2)
	assert.Equal(t, "section", got.Blocks[0].Type)
	require.NotNil(t, got.Blocks[0].Text)
	assert.Equal(t, "mrkdwn", got.Blocks[0].Text.Type)
	assert.Contains(t, got.Blocks[0].Text.Text, "*Repository:* acme/x")
	assert.Contains(t, got.Blocks[0].Text.Text, "*PR #7*")
	assert.Contains(t, got.Blocks[0].Text.Text, "*Reviewer:* bob")
	assert.Contains(t, got.Blocks[0].Text.Text, "*Time Spent:* 15 minutes")

	assert.Equal(t, "actions", got.Blocks[1].Type)
	require.Len(t, got.Blocks[1].Elements, 1)
	assert.Equal(t, "button", got.Blocks[1].Elements[0].Type)
	assert.Equal(t, "View PR", got.Blocks[1].Elements[0].Text.Text)
	assert.Equal(t, "https://github.com/acme/x/pull/7", got.Blocks[1].Elements[0].URL)
}

func TestNotifier_NotifyReviewUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	n := New(zap.NewNop().Sugar(), server.URL, time.Second)
	err := n.NotifyReview(context.Background(), testRecord())
	require.ErrorIs(t, err, entities.ErrUpstream)
}
