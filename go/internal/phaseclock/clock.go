package phaseclock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/pitchnight/arena/go/internal/hub"
	"github.com/pitchnight/arena/go/internal/models"
)

// ErrInvalidPhase is returned when a patch names a phase outside the round's enum.
var ErrInvalidPhase = errors.New("invalid phase")

// Clock is the sole writer of one round's live state. All mutations go through
// its named commands or the tick loop; every successful mutation bumps the
// version by one and publishes exactly one event to the hub.
type Clock struct {
	cfg   RoundConfig
	clock clockwork.Clock
	hub   *hub.Hub

	mu          sync.Mutex
	team        *models.TeamRef
	cycleActive bool
	phaseIdx    int // index into cfg.Phases, -1 when idle
	cycleStart  time.Time
	phaseStart  time.Time

	// Manual interactive mode runs its own countdown, independent of the
	// phase cycle. It never touches the cycle fields.
	manualActive   bool
	manualDeadline time.Time

	allPitchesCompleted bool
	version             uint64
	updatedAt           time.Time
}

// New creates an idle clock for the given round. Pass clockwork.NewRealClock()
// in production; tests inject a fake clock.
func New(cfg RoundConfig, clk clockwork.Clock, h *hub.Hub) *Clock {
	return &Clock{
		cfg:      cfg,
		clock:    clk,
		hub:      h,
		phaseIdx: -1,
	}
}

// Round returns the round name this clock drives.
func (c *Clock) Round() string { return c.cfg.Round }

// Config returns the round configuration.
func (c *Clock) Config() RoundConfig { return c.cfg }

// SetActiveTeam switches the presenting team (nil clears it) and
// unconditionally resets the whole cycle. No stale timers survive a team
// switch, including a manual interactive countdown.
func (c *Clock) SetActiveTeam(team *models.TeamRef) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if team != nil {
		ref := *team
		c.team = &ref
	} else {
		c.team = nil
	}
	c.resetCycleLocked()
	c.manualActive = false
	c.manualDeadline = time.Time{}
	return c.publishLocked(hub.EventTeamChanged)
}

// StartCycle begins the cycle at its first phase. Calling it while a cycle is
// already running restarts from the first phase.
func (c *Clock) StartCycle() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.cycleActive = true
	c.phaseIdx = 0
	c.cycleStart = now
	c.phaseStart = now
	return c.publishLocked(hub.EventStateChanged)
}

// AdvanceTo force-sets the current phase, restarting its timer from now.
// It is a no-op when no cycle is running or the phase is not part of this
// round: the state is unchanged and nothing is published.
func (c *Clock) AdvanceTo(phase string) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.cfg.indexOf(phase)
	if !c.cycleActive || idx < 0 {
		return c.snapshotLocked(c.clock.Now()), false
	}
	c.phaseIdx = idx
	c.phaseStart = c.clock.Now()
	return c.publishLocked(hub.EventStateChanged), true
}

// StopCycle unconditionally returns to idle and clears all timers, the manual
// countdown included.
func (c *Clock) StopCycle() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetCycleLocked()
	c.manualActive = false
	c.manualDeadline = time.Time{}
	return c.publishLocked(hub.EventStateChanged)
}

// SetInteractionActive toggles manual interactive mode. Enabling it arms an
// independent countdown of the interactive phase's nominal duration, after
// which the tick loop clears it. Cycle fields are left alone.
func (c *Clock) SetInteractionActive(active bool) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.manualActive = active
	if active {
		if spec, ok := c.cfg.InteractivePhase(); ok {
			c.manualDeadline = c.clock.Now().Add(spec.Duration)
		}
	} else {
		c.manualDeadline = time.Time{}
	}
	return c.publishLocked(hub.EventStateChanged)
}

// SetAllPitchesCompleted flags that no more teams remain to present.
func (c *Clock) SetAllPitchesCompleted(done bool) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.allPitchesCompleted = done
	return c.publishLocked(hub.EventStateChanged)
}

// Patch is a restricted partial-state update applied by admins. Nil fields
// are left untouched.
type Patch struct {
	InteractionActive   *bool
	AllPitchesCompleted *bool
	CurrentPhase        *string
	CycleActive         *bool
}

// ApplyPatch validates then applies a patch as a single mutation: one version
// bump, one published event. A patch naming a phase outside the round's enum
// is rejected before anything is applied. An empty patch changes nothing and
// publishes nothing.
func (c *Clock) ApplyPatch(p Patch) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if p.CurrentPhase != nil && !c.cfg.ValidPhase(*p.CurrentPhase) {
		return c.snapshotLocked(now), ErrInvalidPhase
	}

	changed := false
	if p.CycleActive != nil {
		changed = true
		if *p.CycleActive {
			if !c.cycleActive {
				c.cycleActive = true
				c.phaseIdx = 0
				c.cycleStart = now
				c.phaseStart = now
			}
		} else {
			c.resetCycleLocked()
		}
	}
	if p.CurrentPhase != nil {
		changed = true
		if *p.CurrentPhase == PhaseIdle {
			c.resetCycleLocked()
		} else {
			c.phaseIdx = c.cfg.indexOf(*p.CurrentPhase)
			c.phaseStart = now
			c.cycleActive = true
			if c.cycleStart.IsZero() {
				c.cycleStart = now
			}
		}
	}
	if p.InteractionActive != nil {
		changed = true
		c.manualActive = *p.InteractionActive
		if *p.InteractionActive {
			if spec, ok := c.cfg.InteractivePhase(); ok {
				c.manualDeadline = now.Add(spec.Duration)
			}
		} else {
			c.manualDeadline = time.Time{}
		}
	}
	if p.AllPitchesCompleted != nil {
		changed = true
		c.allPitchesCompleted = *p.AllPitchesCompleted
	}

	if !changed {
		return c.snapshotLocked(now), nil
	}
	return c.publishLocked(hub.EventStateChanged), nil
}

// Snapshot returns the current state. Remaining time is recomputed from wall
// clock on every call, so reads are always consistent with the latest event.
func (c *Clock) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked(c.clock.Now())
}

// InteractionActive reports whether audience submissions are accepted right
// now. Vote and rating endpoints gate on this.
func (c *Clock) InteractionActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interactiveLocked()
}

// Run drives the one-second tick cadence for the lifetime of ctx. A panic
// inside a tick is logged and the loop keeps going: a dead ticker would
// silently freeze the live timer for every viewer.
func (c *Clock) Run(ctx context.Context) {
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()

	log.Info().Str("round", c.cfg.Round).Msg("phase clock started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("round", c.cfg.Round).Msg("phase clock stopped")
			return
		case <-ticker.Chan():
			c.Tick()
		}
	}
}

// Tick performs one scheduler step: recompute remaining time from absolute
// elapsed time and fire any automatic transitions that are due. Late ticks
// catch up correctly because nothing is decremented.
func (c *Clock) Tick() {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("round", c.cfg.Round).
				Interface("panic", r).
				Msg("tick panicked, continuing")
		}
	}()

	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.manualActive && !c.manualDeadline.IsZero() && !now.Before(c.manualDeadline) {
		c.manualActive = false
		c.manualDeadline = time.Time{}
		c.publishLocked(hub.EventStateChanged)
	}

	// A tick that arrives late may owe several transitions at once.
	for c.cycleActive {
		spec := c.cfg.Phases[c.phaseIdx]
		if !spec.AutoAdvance || now.Sub(c.phaseStart) < spec.Duration {
			return
		}
		// Start the next phase at the previous phase's nominal end, not
		// at tick time, so scheduling jitter never accumulates.
		next := c.phaseStart.Add(spec.Duration)
		if c.phaseIdx+1 >= len(c.cfg.Phases) {
			c.resetCycleLocked()
		} else {
			c.phaseIdx++
			c.phaseStart = next
		}
		c.publishLocked(hub.EventStateChanged)
	}
}

func (c *Clock) resetCycleLocked() {
	c.cycleActive = false
	c.phaseIdx = -1
	c.cycleStart = time.Time{}
	c.phaseStart = time.Time{}
}

func (c *Clock) interactiveLocked() bool {
	if c.cycleActive && c.phaseIdx >= 0 && c.cfg.Phases[c.phaseIdx].Interactive {
		return true
	}
	return c.manualActive
}

func (c *Clock) timeLeftLocked(now time.Time) int {
	if c.cycleActive && c.phaseIdx >= 0 {
		spec := c.cfg.Phases[c.phaseIdx]
		left := spec.Duration - now.Sub(c.phaseStart)
		if left < 0 {
			return 0
		}
		return int(left / time.Second)
	}
	if c.manualActive && !c.manualDeadline.IsZero() {
		left := c.manualDeadline.Sub(now)
		if left < 0 {
			return 0
		}
		return int(left / time.Second)
	}
	return 0
}

func (c *Clock) snapshotLocked(now time.Time) Snapshot {
	snap := Snapshot{
		Round:               c.cfg.Round,
		ActiveTeam:          c.team,
		CycleActive:         c.cycleActive,
		CurrentPhase:        PhaseIdle,
		PhaseTimeLeft:       c.timeLeftLocked(now),
		InteractionActive:   c.interactiveLocked(),
		AllPitchesCompleted: c.allPitchesCompleted,
		Version:             c.version,
		UpdatedAt:           c.updatedAt,
	}
	if c.cycleActive && c.phaseIdx >= 0 {
		snap.CurrentPhase = c.cfg.Phases[c.phaseIdx].Name
	}
	if !c.cycleStart.IsZero() {
		t := c.cycleStart
		snap.CycleStartTime = &t
	}
	if !c.phaseStart.IsZero() {
		t := c.phaseStart
		snap.PhaseStartTime = &t
	}
	return snap
}

// publishLocked finalizes a mutation: version bump, updatedAt, one event.
func (c *Clock) publishLocked(t hub.EventType) Snapshot {
	now := c.clock.Now()
	c.version++
	c.updatedAt = now
	snap := c.snapshotLocked(now)
	c.hub.Publish(hub.Event{Type: t, Data: snap, Timestamp: now})
	return snap
}
