package cron

import (
	"log"
	"time"

	"ladder-api/services"

	"github.com/robfig/cron/v3"
)

// sweepAge keeps the sweep off games whose reports are still trickling in.
const sweepAge = 2 * time.Minute

type Scheduler struct {
	cron          *cron.Cron
	resultService *services.ResultService
}

func NewScheduler(resultService *services.ResultService) *Scheduler {
	c := cron.New(cron.WithSeconds(), cron.WithLogger(cron.VerbosePrintfLogger(log.Default())))

	return &Scheduler{
		cron:          c,
		resultService: resultService,
	}
}

// Start schedules the reconciliation sweep. Games with reports that never
// reconciled (failed settlement, missing laggard now covered by the quorum
// policy) are retried every minute.
func (s *Scheduler) Start() error {
	log.Println("Starting cron scheduler...")

	_, err := s.cron.AddFunc("0 * * * * *", s.runSweep)
	if err != nil {
		log.Printf("Error scheduling reconciliation sweep: %v", err)
		return err
	}

	s.cron.Start()
	log.Println("Cron scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	log.Println("Stopping cron scheduler...")
	s.cron.Stop()
	log.Println("Cron scheduler stopped")
}

func (s *Scheduler) runSweep() {
	if err := s.resultService.SweepUnreconciled(sweepAge); err != nil {
		log.Printf("Reconciliation sweep failed: %v", err)
	}
}

// RunNow manually triggers the sweep (useful for testing).
func (s *Scheduler) RunNow() {
	log.Println("Manually triggering reconciliation sweep...")
	s.runSweep()
}
