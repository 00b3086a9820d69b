package eventbus

import (
	"context"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"
	"github.com/IgorPchelyakov/streamflow-backend/internal/core/ports"
	"github.com/IgorPchelyakov/streamflow-backend/pkg/circuitbreaker"

	"go.uber.org/zap"
)

// BreakerPublisher wraps a ChatEventPublisher with a circuit breaker so
// a dead broker fails fast instead of stalling every chat write on
// connection timeouts. Fan-out is best effort; callers already tolerate
// publish failures.
type BreakerPublisher struct {
	inner   ports.ChatEventPublisher
	breaker *circuitbreaker.CircuitBreaker
}

func NewBreakerPublisher(inner ports.ChatEventPublisher, logger *zap.SugaredLogger) *BreakerPublisher {
	breaker := circuitbreaker.New(circuitbreaker.DefaultConfig())
	breaker.OnStateChange(func(from, to circuitbreaker.State) {
		logger.Warnw("chat publisher circuit breaker state changed",
			"from", from.String(),
			"to", to.String(),
		)
	})

	return &BreakerPublisher{
		inner:   inner,
		breaker: breaker,
	}
}

func (p *BreakerPublisher) PublishMessage(ctx context.Context, message *domain.ChatMessage) error {
	return p.breaker.Execute(ctx, func() error {
		return p.inner.PublishMessage(ctx, message)
	})
}
