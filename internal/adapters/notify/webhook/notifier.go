package webhook

import (
	"context"
	"strings"
	"time"

	"animal-rescue-ops/internal/platform/httpclient"
	"animal-rescue-ops/internal/platform/logger"
	"animal-rescue-ops/internal/ports/notify"
)

// Notifier manda eventos de placement a un webhook HTTP.
// Best-effort: los errores se loguean y se devuelven, pero el service
// que lo invoca nunca los propaga al caller.
type Notifier struct {
	url  string
	http *httpclient.Client
	log  logger.Logger
}

func New(url string, timeout time.Duration, log logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{
		url:  strings.TrimSpace(url),
		http: httpclient.New(timeout),
		log:  log,
	}
}

func (n *Notifier) PlacementCreated(ctx context.Context, ev notify.PlacementEvent) error {
	return n.post(ctx, "placement.created", ev)
}

func (n *Notifier) PlacementCompleted(ctx context.Context, ev notify.PlacementEvent) error {
	return n.post(ctx, "placement.completed", ev)
}

func (n *Notifier) post(ctx context.Context, event string, ev notify.PlacementEvent) error {
	if n == nil || n.url == "" {
		return nil
	}

	payload := struct {
		Event string `json:"event"`
		notify.PlacementEvent
	}{Event: event, PlacementEvent: ev}

	if err := n.http.PostJSON(ctx, n.url, nil, payload); err != nil {
		n.log.Warn("notify webhook failed", map[string]any{
			"event":        event,
			"placement_id": ev.PlacementID,
			"err":          err.Error(),
		})
		return err
	}
	return nil
}

// Nop es el notifier por defecto cuando no hay webhook configurado.
type Nop struct{}

func (Nop) PlacementCreated(context.Context, notify.PlacementEvent) error   { return nil }
func (Nop) PlacementCompleted(context.Context, notify.PlacementEvent) error { return nil }
