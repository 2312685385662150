// Package notifier turns order events into customer-facing or operator
// facing notifications.  Every notifier implements queue.Handler so the
// order consumer can drive it directly.
package notifier

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/iliyamo/clothing-store/internal/config"
	"github.com/iliyamo/clothing-store/internal/queue"
)

// New returns the notifiers selected by cfg: the order log file, plus SES
// email when a sender address is configured.
func New(ctx context.Context, cfg config.MailConfig, log *zap.Logger) (queue.Handler, error) {
	chain := Chain{NewFileLog(cfg.LogDir)}
	if cfg.Sender != "" {
		email, err := NewEmail(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		chain = append(chain, email)
	}
	return chain, nil
}

// Chain runs each handler in order and joins their errors.  A failing
// handler does not stop the ones after it.
type Chain []queue.Handler

func (c Chain) HandleOrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error {
	var errs []error
	for _, h := range c {
		if err := h.HandleOrderPlaced(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
