package brackets

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/Dosada05/tournament-manager/models"
)

func TestStandingsTableApply(t *testing.T) {
	teams := makeTeams("A", "B")
	table := NewStandingsTable(teams)

	if err := table.Apply(teams[0], teams[1], 2, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _ := table.Record(1)
	b, _ := table.Record(2)
	wantA := models.TeamStanding{TeamID: 1, TeamName: "A", Played: 1, Wins: 1, GoalsFor: 2, GoalsAgainst: 1, GoalDifference: 1, Points: 3, Rank: 1}
	wantB := models.TeamStanding{TeamID: 2, TeamName: "B", Played: 1, Losses: 1, GoalsFor: 1, GoalsAgainst: 2, GoalDifference: -1, Points: 0, Rank: 2}
	if !reflect.DeepEqual(a, wantA) {
		t.Errorf("expected %+v, got %+v", wantA, a)
	}
	if !reflect.DeepEqual(b, wantB) {
		t.Errorf("expected %+v, got %+v", wantB, b)
	}

	if err := table.Apply(teams[0], teams[1], 1, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, _ = table.Record(1)
	b, _ = table.Record(2)
	if a.Points != 4 || b.Points != 1 || a.Draws != 1 || b.Draws != 1 {
		t.Errorf("draw not applied: A=%+v B=%+v", a, b)
	}
}

func TestStandingsTableRejectsNegativeScore(t *testing.T) {
	teams := makeTeams("A", "B")
	table := NewStandingsTable(teams)
	before := table.Ranked()

	err := table.Apply(teams[0], teams[1], -1, 0)
	if !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("expected ErrInvalidScore, got %v", err)
	}
	if !reflect.DeepEqual(before, table.Ranked()) {
		t.Error("table changed after a rejected result")
	}
}

func TestStandingsTableIgnoresSentinels(t *testing.T) {
	table := NewStandingsTable(append(makeTeams("A", "B"), models.RestTeam))
	if table.Len() != 2 {
		t.Errorf("expected 2 records, got %d", table.Len())
	}
	if _, ok := table.Record(models.RestTeamID); ok {
		t.Error("rest sentinel has a record")
	}
}

func TestCompareStandingsOrder(t *testing.T) {
	tests := []struct {
		name string
		a, b models.TeamStanding
	}{
		{"points", models.TeamStanding{TeamName: "Z", Points: 4}, models.TeamStanding{TeamName: "A", Points: 3}},
		{"goal difference", models.TeamStanding{TeamName: "Z", Points: 3, GoalDifference: 2}, models.TeamStanding{TeamName: "A", Points: 3, GoalDifference: 1}},
		{"goals for", models.TeamStanding{TeamName: "Z", Points: 3, GoalsFor: 5}, models.TeamStanding{TeamName: "A", Points: 3, GoalsFor: 4}},
		{"name", models.TeamStanding{TeamName: "Alpha"}, models.TeamStanding{TeamName: "Beta"}},
		{"name is case sensitive", models.TeamStanding{TeamName: "Zeta"}, models.TeamStanding{TeamName: "alpha"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if CompareStandings(tc.a, tc.b) >= 0 {
				t.Errorf("expected %s to rank above %s", tc.a.TeamName, tc.b.TeamName)
			}
			if CompareStandings(tc.b, tc.a) <= 0 {
				t.Errorf("expected %s to rank below %s", tc.b.TeamName, tc.a.TeamName)
			}
		})
	}
}

func TestSortStandingsIsStableAcrossInputOrder(t *testing.T) {
	base := []models.TeamStanding{
		{TeamID: 1, TeamName: "Falcons", Points: 6, GoalDifference: 2, GoalsFor: 5},
		{TeamID: 2, TeamName: "Bears", Points: 6, GoalDifference: 2, GoalsFor: 5},
		{TeamID: 3, TeamName: "Eagles", Points: 6, GoalDifference: 2, GoalsFor: 7},
		{TeamID: 4, TeamName: "Ants", Points: 3},
		{TeamID: 5, TeamName: "Cobras", Points: 6, GoalDifference: 3},
	}
	want := []string{"Cobras", "Eagles", "Bears", "Falcons", "Ants"}

	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		standings := append([]models.TeamStanding(nil), base...)
		r.Shuffle(len(standings), func(i, j int) { standings[i], standings[j] = standings[j], standings[i] })
		SortStandings(standings)

		got := make([]string, len(standings))
		for i, s := range standings {
			got[i] = s.TeamName
			if s.Rank != i+1 {
				t.Errorf("%s has rank %d at position %d", s.TeamName, s.Rank, i)
			}
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
