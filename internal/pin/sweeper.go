package pin

import (
	"log"
	"time"

	"gorm.io/gorm"
)

// Sweeper deletes expired pins in the background. Postgres has no TTL
// indexes, so expiry is a periodic bulk delete rather than a per-row timer;
// a pin may stay visible for up to one interval past its nominal expiry.
type Sweeper struct {
	db       *gorm.DB
	interval time.Duration
	stopChan chan struct{}
}

func NewSweeper(db *gorm.DB, interval time.Duration) *Sweeper {
	return &Sweeper{
		db:       db,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the sweep loop. Run it on its own goroutine.
func (s *Sweeper) Start() {
	log.Printf("[Sweeper] Starting expiry sweeper (runs every %s)", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start
	s.SweepOnce(time.Now().UTC())

	for {
		select {
		case <-ticker.C:
			s.SweepOnce(time.Now().UTC())
		case <-s.stopChan:
			log.Printf("[Sweeper] Stopped")
			return
		}
	}
}

// Stop signals the sweep loop to exit.
func (s *Sweeper) Stop() {
	close(s.stopChan)
}

// SweepOnce deletes every pin whose expiry is at or before now and returns
// how many rows went away.
func (s *Sweeper) SweepOnce(now time.Time) int64 {
	res := s.db.Where("expires_at <= ?", now).Delete(&Pin{})
	if res.Error != nil {
		log.Printf("[Sweeper] Sweep failed: %v", res.Error)
		return 0
	}
	if res.RowsAffected > 0 {
		log.Printf("[Sweeper] Removed %d expired pin(s)", res.RowsAffected)
	}
	return res.RowsAffected
}
