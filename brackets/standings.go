package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-manager/models"
)

// CompareStandings orders two records by points, goal difference and goals
// for (all descending), then by name ascending. Names are unique inside a
// league, so the order is total. It returns a negative number when a ranks
// above b.
func CompareStandings(a, b models.TeamStanding) int {
	switch {
	case a.Points != b.Points:
		return b.Points - a.Points
	case a.GoalDifference != b.GoalDifference:
		return b.GoalDifference - a.GoalDifference
	case a.GoalsFor != b.GoalsFor:
		return b.GoalsFor - a.GoalsFor
	case a.TeamName < b.TeamName:
		return -1
	case a.TeamName > b.TeamName:
		return 1
	}
	return 0
}

// SortStandings ranks records in place and fills Rank.
func SortStandings(standings []models.TeamStanding) {
	sort.Slice(standings, func(i, j int) bool {
		return CompareStandings(standings[i], standings[j]) < 0
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}
}

// StandingsTable aggregates league records, one per real team.
type StandingsTable struct {
	records map[int]*models.TeamStanding
	ranked  []models.TeamStanding
}

func NewStandingsTable(teams []models.Team) *StandingsTable {
	t := &StandingsTable{records: make(map[int]*models.TeamStanding, len(teams))}
	for _, team := range teams {
		if team.IsSentinel() {
			continue
		}
		t.records[team.ID] = &models.TeamStanding{TeamID: team.ID, TeamName: team.Name}
	}
	t.rerank()
	return t
}

// Apply adds one match to both teams' records. Validation happens before
// anything is mutated.
func (t *StandingsTable) Apply(home, away models.Team, homeGoals, awayGoals int) error {
	if homeGoals < 0 || awayGoals < 0 {
		return fmt.Errorf("%w: %d-%d", ErrInvalidScore, homeGoals, awayGoals)
	}
	h, ok := t.records[home.ID]
	if !ok {
		return fmt.Errorf("%w: team %d is not in the table", ErrNotApplicable, home.ID)
	}
	a, ok := t.records[away.ID]
	if !ok {
		return fmt.Errorf("%w: team %d is not in the table", ErrNotApplicable, away.ID)
	}

	h.Played++
	a.Played++
	h.GoalsFor += homeGoals
	h.GoalsAgainst += awayGoals
	a.GoalsFor += awayGoals
	a.GoalsAgainst += homeGoals

	switch {
	case homeGoals > awayGoals:
		h.Wins++
		a.Losses++
	case awayGoals > homeGoals:
		a.Wins++
		h.Losses++
	default:
		h.Draws++
		a.Draws++
	}
	h.Refresh()
	a.Refresh()

	t.rerank()
	return nil
}

// Ranked returns a copy of the table in ranking order.
func (t *StandingsTable) Ranked() []models.TeamStanding {
	out := make([]models.TeamStanding, len(t.ranked))
	copy(out, t.ranked)
	return out
}

// Record returns the current record of one team.
func (t *StandingsTable) Record(teamID int) (models.TeamStanding, bool) {
	r, ok := t.records[teamID]
	if !ok {
		return models.TeamStanding{}, false
	}
	return *r, true
}

func (t *StandingsTable) Len() int { return len(t.records) }

func (t *StandingsTable) clone() *StandingsTable {
	c := &StandingsTable{records: make(map[int]*models.TeamStanding, len(t.records))}
	for id, r := range t.records {
		rec := *r
		c.records[id] = &rec
	}
	c.ranked = t.Ranked()
	return c
}

func (t *StandingsTable) rerank() {
	ranked := make([]models.TeamStanding, 0, len(t.records))
	for _, r := range t.records {
		ranked = append(ranked, *r)
	}
	SortStandings(ranked)
	for _, r := range ranked {
		t.records[r.TeamID].Rank = r.Rank
	}
	t.ranked = ranked
}
