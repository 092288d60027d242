package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gaze-network/boxsale/common"
	"github.com/gaze-network/boxsale/internal/feed"
	"github.com/gaze-network/boxsale/modules/boxsale/config"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = common.MustParseAddress("0x0000000000000000000000000000000000000a11")

type webhook struct {
	mu       sync.Mutex
	payloads []Payload
	received chan struct{}
	status   int
}

func newWebhook(t *testing.T, status int) (*webhook, *httptest.Server) {
	t.Helper()
	hook := &webhook{received: make(chan struct{}, 8), status: status}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload Payload
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			hook.mu.Lock()
			hook.payloads = append(hook.payloads, payload)
			hook.mu.Unlock()
		}
		w.WriteHeader(hook.status)
		hook.received <- struct{}{}
	}))
	t.Cleanup(server.Close)
	return hook, server
}

func (h *webhook) all() []Payload {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Payload(nil), h.payloads...)
}

func stakedEvents() []entity.Event {
	return []entity.Event{{
		Sequence:    4,
		CommandSeq:  2,
		BlockHeight: 10,
		BlockTime:   time.Unix(1_500, 0),
		Instance:    "genesis",
		Type:        entity.EventStaked,
		Address:     alice,
		Attributes:  map[string]string{"amount": "10"},
	}}
}

func TestNotify(t *testing.T) {
	hook, server := newWebhook(t, http.StatusOK)
	n, err := New(config.WebhookConfig{URL: server.URL}, "v0.1.0")
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), stakedEvents()))
	require.NoError(t, n.Notify(context.Background(), nil), "nothing to deliver")

	payloads := hook.all()
	require.Len(t, payloads, 1)
	payload := payloads[0]
	assert.Equal(t, "v0.1.0", payload.ClientVersion)
	assert.Equal(t, uint64(2), payload.Command)
	require.Len(t, payload.Events, 1)
	assert.Equal(t, alice.Hex(), payload.Events[0].Address)
	assert.Equal(t, int64(1_500), payload.Events[0].BlockTime)
	assert.Equal(t, "10", payload.Events[0].Attributes["amount"])
}

func TestNotifyErrorStatus(t *testing.T) {
	_, server := newWebhook(t, http.StatusInternalServerError)
	n, err := New(config.WebhookConfig{URL: server.URL}, "v0.1.0")
	require.NoError(t, err)
	assert.Error(t, n.Notify(context.Background(), stakedEvents()))
}

func TestNewRequiresURL(t *testing.T) {
	_, err := New(config.WebhookConfig{Enabled: true}, "v0.1.0")
	assert.Error(t, err)
}

type source struct {
	feed *feed.Feed[[]entity.Event]
}

func (s *source) Subscribe(ch chan<- []entity.Event) *feed.Subscription[[]entity.Event] {
	return s.feed.Subscribe(ch)
}

func TestRun(t *testing.T) {
	hook, server := newWebhook(t, http.StatusOK)
	n, err := New(config.WebhookConfig{URL: server.URL}, "v0.1.0")
	require.NoError(t, err)

	src := &source{feed: feed.New[[]entity.Event]()}
	done := make(chan error, 1)
	go func() {
		done <- n.Run(context.Background(), src)
	}()
	require.Eventually(t, func() bool { return src.feed.Len() == 1 }, time.Second, 10*time.Millisecond)

	src.feed.Publish(stakedEvents())
	select {
	case <-hook.received:
	case <-time.After(time.Second):
		require.FailNow(t, "webhook was not called")
	}

	src.feed.Close()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		require.FailNow(t, "notifier did not stop after the feed closed")
	}
}
