package models

import "github.com/google/uuid"

// Fixture is one league match. A rest fixture pairs a real team with
// RestTeam: it occupies the team's slot in the round but is never played
// or persisted.
type Fixture struct {
	ID        int  `json:"id,omitempty" db:"id"`
	RoundID   int  `json:"round_id,omitempty" db:"round_id"`
	Round     int  `json:"round" db:"-"`
	Index     int  `json:"index" db:"-"` // position inside the round
	Home      Team `json:"home" db:"-"`
	Away      Team `json:"away" db:"-"`
	Rest      bool `json:"rest,omitempty" db:"-"`
	Played    bool `json:"played" db:"played"`
	HomeGoals *int `json:"home_goals,omitempty" db:"home_goals"`
	AwayGoals *int `json:"away_goals,omitempty" db:"away_goals"`
}

// RestingTeam returns the real team of a rest fixture.
func (f Fixture) RestingTeam() (Team, bool) {
	switch {
	case f.Home.IsRest():
		return f.Away, true
	case f.Away.IsRest():
		return f.Home, true
	}
	return Team{}, false
}

// SameSlot reports whether both values describe the same scheduled fixture.
func (f Fixture) SameSlot(other Fixture) bool {
	return f.Round == other.Round &&
		f.Index == other.Index &&
		f.Home.Same(other.Home) &&
		f.Away.Same(other.Away)
}

type Round struct {
	ID           int       `json:"id,omitempty" db:"id"`
	TournamentID uuid.UUID `json:"tournament_id,omitempty" db:"tournament_id"`
	Number       int       `json:"number" db:"number"`
	Fixtures     []Fixture `json:"fixtures" db:"-"`
}

// RestFixture returns the rest fixture of the round, if the league had an odd
// number of teams.
func (r Round) RestFixture() (Fixture, bool) {
	for _, f := range r.Fixtures {
		if f.Rest {
			return f, true
		}
	}
	return Fixture{}, false
}
