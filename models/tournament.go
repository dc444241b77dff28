package models

import (
	"time"

	"github.com/google/uuid"
)

// TournamentStatus mirrors the tournament_status enum in the database.
type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusLeague       TournamentStatus = "league"
	StatusKnockout     TournamentStatus = "knockout"
	StatusCompleted    TournamentStatus = "completed"
)

type Tournament struct {
	ID         uuid.UUID        `json:"id" db:"id"`
	Name       string           `json:"name" db:"name"`
	Slug       string           `json:"slug" db:"slug"`
	Status     TournamentStatus `json:"status" db:"status"`
	ChampionID *int             `json:"champion_id,omitempty" db:"champion_id"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`

	Teams []Team `json:"teams,omitempty" db:"-"`
}
