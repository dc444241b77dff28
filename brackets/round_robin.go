package brackets

import (
	"github.com/Dosada05/tournament-manager/models"
)

// GenerateSchedule builds a single round-robin calendar with the circle
// method. The first team stays fixed while the others rotate one position per
// round; round r pairs rotation[i] (home) with rotation[n-1-i] (away).
//
// An odd field is padded with models.RestTeam, so every team rests exactly
// once. Rest fixtures stay in their round flagged with Rest.
func GenerateSchedule(teams []models.Team) ([]models.Round, error) {
	if err := validateTeams(teams, ErrInvalidInput); err != nil {
		return nil, err
	}

	rotation := make([]models.Team, len(teams), len(teams)+1)
	copy(rotation, teams)
	if len(rotation)%2 != 0 {
		rotation = append(rotation, models.RestTeam)
	}

	n := len(rotation)
	rounds := make([]models.Round, 0, n-1)

	for r := 0; r < n-1; r++ {
		round := models.Round{
			Number:   r + 1,
			Fixtures: make([]models.Fixture, 0, n/2),
		}
		for i := 0; i < n/2; i++ {
			home, away := rotation[i], rotation[n-1-i]
			round.Fixtures = append(round.Fixtures, models.Fixture{
				Round: r + 1,
				Index: i,
				Home:  home,
				Away:  away,
				Rest:  home.IsRest() || away.IsRest(),
			})
		}
		rounds = append(rounds, round)

		// keep rotation[0] fixed, move the last element to position 1
		last := rotation[n-1]
		copy(rotation[2:], rotation[1:n-1])
		rotation[1] = last
	}

	return rounds, nil
}

// FixtureCount returns the number of real fixtures in a schedule.
func FixtureCount(rounds []models.Round) int {
	total := 0
	for _, round := range rounds {
		for _, f := range round.Fixtures {
			if !f.Rest {
				total++
			}
		}
	}
	return total
}
