package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
)

// League plays a round-robin schedule strictly in order. The cursor points at
// the next fixture waiting for a result; rests are skipped automatically.
type League struct {
	teams  []models.Team
	rounds []models.Round
	table  *StandingsTable

	round    int
	index    int
	played   int
	total    int
	complete bool
}

// Advance describes what happened to the cursor after a committed result.
type Advance struct {
	Rested   []models.Fixture `json:"rested,omitempty"` // rest fixtures skipped on the way
	Next     *models.Fixture  `json:"next,omitempty"`
	Complete bool             `json:"complete"`
}

func NewLeague(teams []models.Team) (*League, error) {
	rounds, err := GenerateSchedule(teams)
	if err != nil {
		return nil, err
	}
	l := &League{
		teams:  append([]models.Team(nil), teams...),
		rounds: rounds,
		table:  NewStandingsTable(teams),
		total:  FixtureCount(rounds),
	}
	l.skipRests()
	return l, nil
}

// RecordResult commits the score of the cursor fixture and returns the
// re-ranked standings.
func (l *League) RecordResult(f models.Fixture, homeGoals, awayGoals int) ([]models.TeamStanding, error) {
	_, standings, err := l.Commit(f, homeGoals, awayGoals)
	return standings, err
}

// Commit is RecordResult that also reports how the cursor moved.
func (l *League) Commit(f models.Fixture, homeGoals, awayGoals int) (Advance, []models.TeamStanding, error) {
	if l.complete {
		return Advance{}, nil, ErrLeagueComplete
	}
	if f.Rest || f.Home.IsRest() || f.Away.IsRest() {
		return Advance{}, nil, fmt.Errorf("%w: round %d fixture %d", ErrNotApplicable, f.Round, f.Index)
	}
	if homeGoals < 0 || awayGoals < 0 {
		return Advance{}, nil, fmt.Errorf("%w: %d-%d", ErrInvalidScore, homeGoals, awayGoals)
	}
	current := l.rounds[l.round].Fixtures[l.index]
	if !current.SameSlot(f) {
		return Advance{}, nil, fmt.Errorf("%w: expected round %d fixture %d (%s vs %s)",
			ErrOutOfSequence, current.Round, current.Index, current.Home.Name, current.Away.Name)
	}

	if err := l.table.Apply(current.Home, current.Away, homeGoals, awayGoals); err != nil {
		return Advance{}, nil, err
	}
	hg, ag := homeGoals, awayGoals
	stored := &l.rounds[l.round].Fixtures[l.index]
	stored.Played = true
	stored.HomeGoals = &hg
	stored.AwayGoals = &ag
	l.played++

	l.index++
	adv := Advance{Rested: l.skipRests()}
	if l.complete {
		adv.Complete = true
	} else {
		next := l.rounds[l.round].Fixtures[l.index]
		adv.Next = &next
	}
	return adv, l.table.Ranked(), nil
}

// skipRests moves the cursor forward over rests and round boundaries and
// marks the league complete when the schedule is exhausted.
func (l *League) skipRests() []models.Fixture {
	var rested []models.Fixture
	for l.round < len(l.rounds) {
		fixtures := l.rounds[l.round].Fixtures
		if l.index >= len(fixtures) {
			l.round++
			l.index = 0
			continue
		}
		if !fixtures[l.index].Rest {
			return rested
		}
		rested = append(rested, fixtures[l.index])
		l.index++
	}
	l.complete = true
	return rested
}

// Current returns the fixture waiting for a result.
func (l *League) Current() (models.Fixture, bool) {
	if l.complete {
		return models.Fixture{}, false
	}
	return l.rounds[l.round].Fixtures[l.index], true
}

// Rounds returns a copy of the full schedule including results so far.
func (l *League) Rounds() []models.Round {
	out := make([]models.Round, len(l.rounds))
	for i, r := range l.rounds {
		out[i] = r
		out[i].Fixtures = append([]models.Fixture(nil), r.Fixtures...)
	}
	return out
}

func (l *League) Teams() []models.Team {
	return append([]models.Team(nil), l.teams...)
}

func (l *League) Standings() []models.TeamStanding { return l.table.Ranked() }

func (l *League) Complete() bool { return l.complete }

// Progress returns played and total real fixtures.
func (l *League) Progress() (played, total int) { return l.played, l.total }

// Clone returns an independent copy, so a caller can compute a transition
// and only swap it in once it has been persisted.
func (l *League) Clone() *League {
	c := *l
	c.teams = l.Teams()
	c.rounds = l.Rounds()
	c.table = l.table.clone()
	return &c
}
