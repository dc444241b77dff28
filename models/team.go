package models

import (
	"time"

	"github.com/google/uuid"
)

// Reserved identifiers for the synthetic teams the engine injects. Real teams
// always carry non-negative IDs.
const (
	RestTeamID = -1
	ByeTeamID  = -2
)

var (
	// RestTeam pads an odd league so that every round stays even.
	RestTeam = Team{ID: RestTeamID, Name: "REST"}
	// ByeTeam fills empty knockout slots; whoever meets it advances.
	ByeTeam = Team{ID: ByeTeamID, Name: "BYE"}
)

type Team struct {
	ID           int       `json:"id" db:"id"`
	TournamentID uuid.UUID `json:"tournament_id,omitempty" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at,omitempty" db:"created_at"`
}

func (t Team) IsRest() bool { return t.ID == RestTeamID }

func (t Team) IsBye() bool { return t.ID == ByeTeamID }

// IsSentinel reports whether t is one of the synthetic placeholder teams.
func (t Team) IsSentinel() bool { return t.IsRest() || t.IsBye() }

// Same compares teams by identity only.
func (t Team) Same(other Team) bool { return t.ID == other.ID }
