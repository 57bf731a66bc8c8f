package worker

import (
	"time"

	"resto_pay/internal/domain/payment/repository"
	"resto_pay/pkg/logger"

	"go.uber.org/zap"
)

// ExpirySweeper periodically expires pending payments whose expiry passed,
// so customers see "expired" promptly instead of on their next poll. Purely
// a UX optimization: the poll handler expires lazily and stays correct with
// the sweeper disabled.
type ExpirySweeper struct {
	repo     repository.PaymentRepository
	interval time.Duration
	stop     chan struct{}
}

func NewExpirySweeper(repo repository.PaymentRepository, interval time.Duration) *ExpirySweeper {
	return &ExpirySweeper{
		repo:     repo,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (s *ExpirySweeper) Start() {
	go s.run()
	if logger.Log != nil {
		logger.Log.Info("expiry sweeper started", zap.Duration("interval", s.interval))
	}
}

func (s *ExpirySweeper) Stop() {
	close(s.stop)
}

func (s *ExpirySweeper) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *ExpirySweeper) sweep() {
	n, err := s.repo.ExpireStale(time.Now())
	if err != nil {
		if logger.Log != nil {
			logger.Log.Error("expiry sweep failed", zap.Error(err))
		}
		return
	}
	if n > 0 && logger.Log != nil {
		logger.Log.Info("expired stale payments", zap.Int64("count", n))
	}
}
