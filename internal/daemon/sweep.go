package daemon

import (
	"time"

	"github.com/rs/zerolog/log"
)

// sweepInterval is how often the daemon clears expired token records.
const sweepInterval = time.Hour

// sweep removes expired token records once. Revoked tokens are kept until
// they expire so revocations stay auditable.
func (d *Daemon) sweep() {
	if _, err := d.mintService.PurgeExpired(); err != nil {
		log.Error().Err(err).Msg("failed to purge expired tokens")
	}
}

// sweepLoop keeps the registry free of expired records for the lifetime of
// the daemon. The startup sweep has already run by the time this starts.
func (d *Daemon) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		d.sweep()
	}
}
