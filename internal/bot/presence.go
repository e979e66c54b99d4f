package bot

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Presence — установка статуса "Watching <name>".
type Presence interface {
	SetWatching(name string) error
}

// runPresence обновляет статус сразу и затем каждые every, пока жив ctx.
func runPresence(ctx context.Context, p Presence, name string, every time.Duration, log *zap.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		if err := p.SetWatching(name); err != nil {
			log.Warn("update presence", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
