package query

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"toydbclient/internal/eventbus"
	"toydbclient/internal/transport"
)

// Service runs submitted queries against the database and reports the outcome on the bus.
// Every submission is independent: nothing is retried or cancelled when a newer one arrives.
type Service struct {
	ctx       context.Context
	bus       eventbus.EventBus
	transport transport.Transport
	timeout   time.Duration
	inflight  sync.WaitGroup
	now       func() time.Time
}

// NewService creates a query service and subscribes it to submissions.
// ctx bounds every request; cancelling it aborts the calls still in flight.
func NewService(ctx context.Context, bus eventbus.EventBus, t transport.Transport, timeout time.Duration) *Service {
	s := &Service{
		ctx:       ctx,
		bus:       bus,
		transport: t,
		timeout:   timeout,
		now:       time.Now,
	}

	bus.Subscribe(eventbus.EventQuerySubmitted, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.QuerySubmittedEvent); ok {
			s.inflight.Add(1)
			go func() {
				defer s.inflight.Done()
				s.run(event.Seq, event.Query)
			}()
		}
	})

	return s
}

// NewStandalone creates a service that only runs queries through Execute and ExecuteAll
func NewStandalone(t transport.Transport, timeout time.Duration) *Service {
	return &Service{
		ctx:       context.Background(),
		transport: t,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Execute performs one query synchronously
func (s *Service) Execute(ctx context.Context, query string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.transport.Post(ctx, query)
}

func (s *Service) run(seq uint64, query string) {
	zap.S().Infow("query: sending", "seq", seq, "bytes", len(query))
	start := s.now()

	body, err := s.Execute(s.ctx, query)
	elapsed := s.now().Sub(start)

	if err != nil {
		zap.S().Warnw("query: failed", "seq", seq, "elapsed", elapsed, "error", err)
		s.bus.Publish(eventbus.QueryFailedEvent{Seq: seq, Err: err})
		return
	}

	zap.S().Infow("query: completed", "seq", seq, "elapsed", elapsed, "bytes", len(body))
	s.bus.Publish(eventbus.ResponseReceivedEvent{
		Seq:     seq,
		Body:    body,
		Elapsed: elapsed,
	})
}

// Wait blocks until every query started so far has reported its outcome
func (s *Service) Wait() {
	s.inflight.Wait()
}
