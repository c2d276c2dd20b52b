package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ContractCanceller is the slice of the contract store the sweeper
// needs: cancel every active contract whose end date has passed, as one
// atomic batch, returning how many were cancelled.
type ContractCanceller interface {
	CancelExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper periodically cancels lapsed active contracts. Tick failures
// are logged and the schedule keeps running; the interval is a
// deployment knob, not a correctness one, because ticks are idempotent.
type Sweeper struct {
	store    ContractCanceller
	interval time.Duration
	log      *slog.Logger
	cron     *cron.Cron
}

func NewSweeper(store ContractCanceller, interval time.Duration, log *slog.Logger) *Sweeper {
	return &Sweeper{store: store, interval: interval, log: log}
}

func (s *Sweeper) Start() error {
	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", s.interval), s.Tick); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.log.Info("contract sweeper started", "interval", s.interval.String())
	return nil
}

// Tick runs one sweep. Exported so a sweep can also be forced outside
// the schedule.
func (s *Sweeper) Tick() {
	cancelled, err := s.store.CancelExpired(context.Background(), time.Now())
	if err != nil {
		s.log.Error("contract sweep failed", "error", err)
		return
	}
	if cancelled > 0 {
		s.log.Info("cancelled expired contracts", "count", cancelled)
	}
}

// Stop halts the schedule and waits for an in-flight tick, so shutdown
// never abandons a half-run batch.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.log.Info("contract sweeper stopped")
}
