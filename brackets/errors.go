package brackets

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid team set")
	ErrInvalidScore      = errors.New("goals must be non-negative")
	ErrOutOfSequence     = errors.New("result is not for the current fixture")
	ErrLeagueComplete    = errors.New("league is already complete")
	ErrInsufficientTeams = errors.New("not enough ranked teams for the requested cut")
	ErrInvalidPairing    = errors.New("invalid pairing or winner")
	ErrInvalidField      = errors.New("invalid bracket field")
	ErrNotApplicable     = errors.New("fixture is a rest and takes no result")
)
