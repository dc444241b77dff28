package services

import "errors"

var (
	ErrNotFound = errors.New("requested resource not found")

	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrTournamentCompleted    = errors.New("tournament is already completed")

	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameRequired = errors.New("team name is required")
	ErrTeamNameConflict = errors.New("team name is already in use")
	// ErrTeamsLocked is returned for team changes while a league or knockout is running.
	ErrTeamsLocked = errors.New("teams cannot change while the tournament is running")

	ErrLeagueNotStarted    = errors.New("league has not been started")
	ErrLeagueInProgress    = errors.New("league still has fixtures to play")
	ErrKnockoutInProgress  = errors.New("knockout stage is in progress")
	ErrBracketNotStarted   = errors.New("knockout bracket has not been seeded")
	ErrSessionStateInvalid = errors.New("stored schedule does not match the generated one")
)
