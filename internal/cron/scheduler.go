package cron

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// SessionPurger deletes expired sessions and reports how many went away.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// StartJobs schedules the background jobs and starts the scheduler. The
// caller stops it on shutdown.
func StartJobs(spec string, sessions SessionPurger) (*cron.Cron, error) {
	c := cron.New()

	if _, err := c.AddFunc(spec, purgeSessions(sessions)); err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("⏰ Session purge scheduled (%s)\n", spec)
	return c, nil
}

func purgeSessions(sessions SessionPurger) func() {
	return func() {
		log.Println("Running session purge job...")

		n, err := sessions.PurgeExpired(context.Background())
		if err != nil {
			log.Println("❌ Failed to purge sessions:", err)
			return
		}

		log.Printf("✅ Removed %d expired sessions\n", n)
	}
}
