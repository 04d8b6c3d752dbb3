package phaseclock

import (
	"time"

	"github.com/pitchnight/arena/go/internal/models"
)

// Snapshot is the full live state serialized for transport to clients. The
// read endpoint and every published event carry this exact shape.
type Snapshot struct {
	Round               string          `json:"round"`
	ActiveTeam          *models.TeamRef `json:"activeTeam"`
	CycleActive         bool            `json:"cycleActive"`
	CurrentPhase        string          `json:"currentPhase"`
	PhaseTimeLeft       int             `json:"phaseTimeLeft"`
	CycleStartTime      *time.Time      `json:"cycleStartTime"`
	PhaseStartTime      *time.Time      `json:"phaseStartTime"`
	InteractionActive   bool            `json:"interactionActive"`
	AllPitchesCompleted bool            `json:"allPitchesCompleted"`
	Version             uint64          `json:"version"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}
