// Package clock owns the game clock and period state machine, including
// the primary/secondary role distinction. Only the Primary keeper runs a
// countdown; Secondaries mirror the server's clock and never tick.
package clock

import (
	"fmt"

	"github.com/jmhoops/courtside/internal/models"
	"github.com/rs/zerolog/log"
)

// GameClock tracks period, remaining seconds and the running flag for one
// session. Role is fixed for the lifetime of the instance.
type GameClock struct {
	role     models.Role
	period   models.Period
	clockSec int
	running  bool
}

// New creates a clock at the given period and remaining seconds.
func New(role models.Role, period models.Period, clockSec int) *GameClock {
	if clockSec < 0 {
		clockSec = 0
	}
	return &GameClock{
		role:     role,
		period:   period,
		clockSec: clockSec,
	}
}

func (c *GameClock) Role() models.Role     { return c.role }
func (c *GameClock) Period() models.Period { return c.period }
func (c *GameClock) ClockSec() int         { return c.clockSec }
func (c *GameClock) Running() bool         { return c.running }

// Start begins the countdown. Secondary calls are silent no-ops so a
// stray tap on an observer device never disturbs a live session.
func (c *GameClock) Start() {
	if c.role != models.RolePrimary {
		log.Debug().Msg("ignoring clock start from secondary keeper")
		return
	}
	c.running = true
}

// Stop halts the countdown. Secondary calls are silent no-ops.
func (c *GameClock) Stop() {
	if c.role != models.RolePrimary {
		log.Debug().Msg("ignoring clock stop from secondary keeper")
		return
	}
	c.running = false
}

// Tick advances the clock by one elapsed wall-clock second. It does
// nothing unless the clock is running, floors at zero, and never rolls
// the period; a quarter change is always an explicit keeper action.
// Returns true when a second was actually consumed.
func (c *GameClock) Tick() bool {
	if !c.running {
		return false
	}
	if c.clockSec > 0 {
		c.clockSec--
	}
	return true
}

// SetPeriod switches to a new period, resets the clock to the nominal
// period length and stops the countdown. Primary only; Secondaries are
// silent no-ops. Returns true when the change was applied so the caller
// can record the audited meta event.
func (c *GameClock) SetPeriod(p models.Period) (bool, error) {
	if c.role != models.RolePrimary {
		return false, nil
	}
	if !p.Valid() {
		return false, fmt.Errorf("unknown period %q", p)
	}
	c.period = p
	c.clockSec = models.PeriodDurationSec
	c.running = false
	return true, nil
}

// SetClockSec sets the remaining seconds directly. Primary only;
// Secondaries are silent no-ops. Negative input is a validation error
// and leaves the clock untouched.
func (c *GameClock) SetClockSec(sec int) (bool, error) {
	if c.role != models.RolePrimary {
		return false, nil
	}
	if sec < 0 {
		return false, fmt.Errorf("clock seconds must be >= 0, got %d", sec)
	}
	c.clockSec = sec
	return true, nil
}

// ApplySnapshot merges the authoritative period/clock from a server
// snapshot. A Primary only accepts it while stopped, so a live countdown
// is never overwritten by a stale poll mid-tick. A Secondary always
// accepts it and forces running to false: observers never run their own
// countdown. Returns true when the snapshot was applied.
func (c *GameClock) ApplySnapshot(meta models.GameMeta) bool {
	if c.role == models.RolePrimary {
		if c.running {
			return false
		}
		c.period = meta.Period
		c.clockSec = clampNonNegative(meta.ClockSec)
		return true
	}
	c.period = meta.Period
	c.clockSec = clampNonNegative(meta.ClockSec)
	c.running = false
	return true
}

func clampNonNegative(sec int) int {
	if sec < 0 {
		return 0
	}
	return sec
}
