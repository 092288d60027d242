// Package notifier pushes applied engine events to a webhook.
package notifier

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/boxsale/common/errs"
	"github.com/gaze-network/boxsale/internal/feed"
	"github.com/gaze-network/boxsale/modules/boxsale/config"
	"github.com/gaze-network/boxsale/modules/boxsale/internal/entity"
	"github.com/gaze-network/boxsale/pkg/httpclient"
	"github.com/gaze-network/boxsale/pkg/logger"
	"github.com/gaze-network/boxsale/pkg/logger/slogx"
	"github.com/samber/lo"
)

// Source publishes the events of every applied command.
type Source interface {
	Subscribe(ch chan<- []entity.Event) *feed.Subscription[[]entity.Event]
}

type Notifier struct {
	httpClient *httpclient.Client
	version    string
}

func New(conf config.WebhookConfig, version string) (*Notifier, error) {
	if conf.URL == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "webhook.url config is required if webhook is enabled")
	}
	httpClient, err := httpclient.New(conf.URL, httpclient.Config{
		Debug:   conf.Debug,
		Timeout: conf.Timeout,
		Headers: conf.Headers,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}
	return &Notifier{
		httpClient: httpClient,
		version:    version,
	}, nil
}

type Event struct {
	Sequence    uint64            `json:"sequence"`
	Command     uint64            `json:"command"`
	BlockHeight int64             `json:"blockHeight"`
	BlockTime   int64             `json:"blockTime"`
	Instance    string            `json:"instance,omitempty"`
	Type        string            `json:"type"`
	Address     string            `json:"address"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

type Payload struct {
	ClientVersion string  `json:"clientVersion"`
	Command       uint64  `json:"command"`
	Events        []Event `json:"events"`
}

// Notify posts the events of one command. Delivery is not retried.
func (n *Notifier) Notify(ctx context.Context, events []entity.Event) error {
	if len(events) == 0 {
		return nil
	}
	payload := Payload{
		ClientVersion: n.version,
		Command:       events[0].CommandSeq,
		Events: lo.Map(events, func(e entity.Event, _ int) Event {
			return Event{
				Sequence:    e.Sequence,
				Command:     e.CommandSeq,
				BlockHeight: e.BlockHeight,
				BlockTime:   e.BlockTime.Unix(),
				Instance:    e.Instance,
				Type:        e.Type,
				Address:     e.Address.Hex(),
				Attributes:  e.Attributes,
			}
		}),
	}
	resp, err := n.httpClient.PostJSON(ctx, "", payload)
	if err != nil {
		return errors.Wrap(err, "can't send request")
	}
	if resp.IsError() {
		return errors.Errorf("webhook responded %d: %s", resp.StatusCode, string(resp.Body))
	}
	logger.DebugContext(ctx, "Events delivered", slogx.Uint64("command", payload.Command), slogx.Int("events", len(events)))
	return nil
}

// Run delivers events from source until ctx is done or the source closes the subscription.
func (n *Notifier) Run(ctx context.Context, source Source) error {
	ctx = logger.WithContext(ctx, slog.String("package", "boxsale"), slog.String("component", "notifier"))

	ch := make(chan []entity.Event)
	sub := source.Subscribe(ch)
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Done():
			return nil
		case events := <-ch:
			if err := n.Notify(ctx, events); err != nil {
				logger.WarnContext(ctx, "Failed to deliver events", slogx.Error(err), slogx.Uint64("command", events[0].CommandSeq))
			}
		}
	}
}
