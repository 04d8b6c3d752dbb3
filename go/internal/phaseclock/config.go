package phaseclock

import "time"

// Phase names shared by both rounds. Idle is the distinguished rest state
// between cycles, not part of any round's phase list.
const (
	PhaseIdle          = "idle"
	PhasePitching      = "pitching"
	PhasePreparing     = "preparing"
	PhaseVoting        = "voting"
	PhaseQnaPause      = "qna-pause"
	PhaseRatingWarning = "rating-warning"
	PhaseRatingActive  = "rating-active"
)

// PhaseSpec describes one timed segment of a presentation cycle.
type PhaseSpec struct {
	Name        string
	Duration    time.Duration
	Interactive bool
	// AutoAdvance phases move to the next phase once Duration elapses.
	// A non-auto phase is held until an explicit admin command.
	AutoAdvance bool
}

// RoundConfig parameterizes one phase-cycle engine instance.
type RoundConfig struct {
	Round string
	// InteractiveField is the JSON key admins use to patch the manual
	// interactive flag ("votingActive" / "ratingActive").
	InteractiveField string
	Phases           []PhaseSpec
}

// VotingConfig is the short pitch + audience vote round.
func VotingConfig() RoundConfig {
	return RoundConfig{
		Round:            "voting",
		InteractiveField: "votingActive",
		Phases: []PhaseSpec{
			{Name: PhasePitching, Duration: 90 * time.Second, AutoAdvance: true},
			{Name: PhasePreparing, Duration: 5 * time.Second, AutoAdvance: true},
			{Name: PhaseVoting, Duration: 30 * time.Second, Interactive: true, AutoAdvance: true},
		},
	}
}

// FinalConfig is the long pitch + judge/peer rating round. The Q&A pause is
// admin-paced: it only ends on an explicit command or a forced stop.
func FinalConfig() RoundConfig {
	return RoundConfig{
		Round:            "final",
		InteractiveField: "ratingActive",
		Phases: []PhaseSpec{
			{Name: PhasePitching, Duration: 300 * time.Second, AutoAdvance: true},
			{Name: PhaseQnaPause, Duration: 0, AutoAdvance: false},
			{Name: PhaseRatingWarning, Duration: 5 * time.Second, AutoAdvance: true},
			{Name: PhaseRatingActive, Duration: 120 * time.Second, Interactive: true, AutoAdvance: true},
		},
	}
}

func (c RoundConfig) indexOf(name string) int {
	for i, p := range c.Phases {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// ValidPhase reports whether name is idle or one of the round's phases.
func (c RoundConfig) ValidPhase(name string) bool {
	return name == PhaseIdle || c.indexOf(name) >= 0
}

// InteractivePhase returns the round's single interactive phase.
func (c RoundConfig) InteractivePhase() (PhaseSpec, bool) {
	for _, p := range c.Phases {
		if p.Interactive {
			return p, true
		}
	}
	return PhaseSpec{}, false
}
