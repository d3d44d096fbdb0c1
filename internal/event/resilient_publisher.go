package event

import (
	"context"
	"sync"
	"time"

	"github.com/strayline/casevault/internal/logger"
)

// ResilientConfig configures retry behavior and the dead-letter destination.
type ResilientConfig struct {
	MaxRetries     int
	RetryDelay     time.Duration
	DeadLetterPath string
}

// ResilientPublisher wraps a Bus with background retries. The first delivery
// attempt is synchronous; on failure the event moves to a detached retry
// loop with exponential backoff, and events that exhaust their retries land
// in the dead-letter log. Callers therefore never block on a flaky
// subscriber and never lose an event silently.
type ResilientPublisher struct {
	inner      Bus
	config     ResilientConfig
	deadLetter *DeadLetterLog
	wg         sync.WaitGroup
}

func NewResilientPublisher(inner Bus, config ResilientConfig) *ResilientPublisher {
	return &ResilientPublisher{
		inner:      inner,
		config:     config,
		deadLetter: NewDeadLetterLog(config.DeadLetterPath),
	}
}

// Publish delivers the event, falling back to the background retry loop on
// failure. The returned error is always nil once the event is accepted; the
// caller is decoupled from the retry outcome.
func (p *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	err := p.inner.Publish(ctx, evt)
	if err == nil {
		return nil
	}

	logger.Warn(LogMsgPublishFailed,
		"event_type", evt.Type,
		"error", err,
		"retries", p.config.MaxRetries)

	// The request context may be cancelled long before the retries finish,
	// so the loop runs detached
	p.wg.Add(1)
	go p.retryLoop(evt, err)

	return nil
}

func (p *ResilientPublisher) retryLoop(evt Event, firstErr error) {
	defer p.wg.Done()

	ctx := context.Background()
	lastErr := firstErr

	for attempt := 1; attempt <= p.config.MaxRetries; attempt++ {
		time.Sleep(CalculateRetryDelay(p.config.RetryDelay, attempt))

		if err := p.inner.Publish(ctx, evt); err != nil {
			lastErr = err
			logger.Warn(LogMsgRetryFailed,
				"event_type", evt.Type,
				"attempt", attempt,
				"error", err)
			continue
		}

		logger.Info(LogMsgRetrySucceeded, "event_type", evt.Type, "attempt", attempt)
		return
	}

	if err := p.deadLetter.Append(evt, p.config.MaxRetries+1, lastErr); err != nil {
		logger.Error(LogMsgDeadLetterFailed, "event_type", evt.Type, "error", err)
	}
}

// Shutdown waits for in-flight retry loops to finish or the context to end.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info(LogMsgQueueDrainedShutdown)
		return nil
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}

// Subscribe delegates to the inner bus so the publisher can stand in as the
// application's Bus.
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.inner.Subscribe(eventType, handler)
}
