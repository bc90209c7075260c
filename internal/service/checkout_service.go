package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/checkout"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/metrics"
)

// Calculator prices a single checkout request
type Calculator interface {
	Process(req checkout.Request) (checkout.Summary, error)
}

// CheckoutService handles checkout business logic
type CheckoutService struct {
	calc        Calculator
	metrics     *metrics.Metrics
	log         *slog.Logger
	concurrency int
}

// BatchResult is the outcome of one request in a batch
type BatchResult struct {
	Index   int
	Summary *checkout.Summary
	Err     error
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(calc Calculator, m *metrics.Metrics, log *slog.Logger, concurrency int) *CheckoutService {
	if concurrency <= 0 {
		concurrency = 1
	}

	return &CheckoutService{
		calc:        calc,
		metrics:     m,
		log:         log,
		concurrency: concurrency,
	}
}

// Checkout prices a single request
func (s *CheckoutService) Checkout(ctx context.Context, req checkout.Request) (*checkout.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	summary, err := s.calc.Process(req)
	elapsed := time.Since(start)

	if err != nil {
		kind := checkout.KindName(err)
		s.metrics.ObserveCheckout(kind, 0, elapsed)
		s.log.Warn("checkout rejected",
			"kind", kind,
			"error", err,
		)
		return nil, err
	}

	s.metrics.ObserveCheckout(metrics.OutcomeOK, summary.Total.InexactFloat64(), elapsed)
	s.log.Info("checkout priced",
		"order_id", summary.OrderID,
		"items_count", summary.ItemsCount,
		"currency", summary.Currency,
		"total", summary.Total.String(),
	)

	return &summary, nil
}

// RecordBatchSize records how many requests a caller sent in one batch,
// including entries that never reached the calculator.
func (s *CheckoutService) RecordBatchSize(n int) {
	s.metrics.BatchRequests.Observe(float64(n))
}

// CheckoutBatch prices independent requests concurrently. Results keep the
// input order and a failing request does not affect the others. The only
// error returned is the context's.
func (s *CheckoutService) CheckoutBatch(ctx context.Context, reqs []checkout.Request) ([]BatchResult, error) {
	results := make([]BatchResult, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for idx := range reqs {
		idx := idx
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			summary, err := s.Checkout(ctx, reqs[idx])
			results[idx] = BatchResult{
				Index:   idx,
				Summary: summary,
				Err:     err,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Debug("batch checkout complete", "requests", len(reqs))
	return results, nil
}
