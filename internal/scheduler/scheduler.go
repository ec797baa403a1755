// Package scheduler re-runs itinerary resolution on a fixed interval so a
// long-lived watch can track fare changes across cache TTL windows.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// RunFunc executes one resolution round.
type RunFunc func(ctx context.Context) error

type Scheduler struct {
	cron *cron.Cron
	spec string
	run  RunFunc
}

func New(intervalHours int, run RunFunc) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		spec: fmt.Sprintf("@every %dh", intervalHours),
		run:  run,
	}
}

// Start registers the round and starts the cron loop. One round runs
// immediately so the first results do not wait for the interval to elapse.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runRound(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[watch] started, spec %s", s.spec)

	go s.runRound(ctx)
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[watch] stopped")
}

func (s *Scheduler) runRound(ctx context.Context) {
	log.Println("[watch] resolution round started")
	if err := s.run(ctx); err != nil {
		log.Printf("[watch] round failed: %v", err)
		return
	}
	log.Println("[watch] resolution round complete")
}
