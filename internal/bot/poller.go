package bot

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"runtime/debug"
	"time"

	"todolist/internal/tg"
)

// UpdateHandler consumes one incoming message.
type UpdateHandler interface {
	Handle(ctx context.Context, msg tg.Message) error
}

const (
	defaultPollTimeoutSeconds = 60
	defaultBaseDelay          = time.Second
	defaultMaxDelay           = 30 * time.Second
)

// Poller drives the long-poll ingestion loop: fetch a batch, advance the
// offset, feed each message to the handler, repeat. Updates are processed
// strictly sequentially in arrival order.
type Poller struct {
	client  tg.Client
	handler UpdateHandler

	timeoutSeconds int
	baseDelay      time.Duration
	maxDelay       time.Duration

	log *slog.Logger
}

// NewPoller builds a poller; timeoutSeconds <= 0 selects the default.
func NewPoller(client tg.Client, handler UpdateHandler, timeoutSeconds int, log *slog.Logger) *Poller {
	if timeoutSeconds <= 0 {
		timeoutSeconds = defaultPollTimeoutSeconds
	}
	if log == nil {
		log = slog.Default()
	}
	return &Poller{
		client:         client,
		handler:        handler,
		timeoutSeconds: timeoutSeconds,
		baseDelay:      defaultBaseDelay,
		maxDelay:       defaultMaxDelay,
		log:            log,
	}
}

// Run polls until the context is cancelled. Transport failures never stop the
// loop; it backs off exponentially with jitter and tries again.
func (p *Poller) Run(ctx context.Context) error {
	offset := 0
	delay := p.baseDelay

	p.log.Info("bot start polling",
		slog.String("event", "poll.start"),
		slog.Int("timeout_seconds", p.timeoutSeconds),
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		updates, err := p.client.GetUpdates(offset, p.timeoutSeconds)
		if err != nil {
			level := slog.LevelError
			if tg.ShouldRetry(err) {
				level = slog.LevelWarn
			}
			p.log.Log(ctx, level, "getUpdates failed",
				slog.String("event", "poll.error"),
				slog.Duration("retry_in", delay),
				slog.String("err", err.Error()),
			)
			if !sleepCtx(ctx, withJitter(delay)) {
				return ctx.Err()
			}
			delay = min(delay*2, p.maxDelay)
			continue
		}
		delay = p.baseDelay

		for _, update := range updates {
			// Advance before processing so a crash mid-batch never replays
			// an already-seen update on restart.
			offset = update.ID + 1
			if update.Message == nil {
				continue
			}
			p.process(ctx, *update.Message)
		}
	}
}

func (p *Poller) process(ctx context.Context, msg tg.Message) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("panic recovered",
				slog.String("event", "poll.panic"),
				slog.Int64("tg_id", msg.From.ID),
				slog.Any("err", r),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	p.log.Debug("update received",
		slog.String("event", "poll.update"),
		slog.Int("message_id", msg.ID),
		slog.Int64("tg_id", msg.From.ID),
	)

	if err := p.handler.Handle(ctx, msg); err != nil {
		p.log.Error("update handling failed",
			slog.String("event", "poll.handle"),
			slog.Int("message_id", msg.ID),
			slog.Int64("tg_id", msg.From.ID),
			slog.String("err", err.Error()),
		)
	}
}

// withJitter spreads the delay across [delay/2, delay*3/2).
func withJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return 0
	}
	half := delay / 2
	return half + time.Duration(rand.Int64N(int64(delay)))
}

// sleepCtx waits for d or context cancellation; reports whether the full
// duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
