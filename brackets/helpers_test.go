package brackets

import (
	"github.com/Dosada05/tournament-manager/models"
)

func makeTeams(names ...string) []models.Team {
	teams := make([]models.Team, len(names))
	for i, name := range names {
		teams[i] = models.Team{ID: i + 1, Name: name}
	}
	return teams
}

func numberedTeams(n int) []models.Team {
	names := make([]string, n)
	for i := range names {
		names[i] = "Team " + string(rune('A'+i))
	}
	return makeTeams(names...)
}

// identityShuffler leaves the field in entry order.
type identityShuffler struct{}

func (identityShuffler) Shuffle(int, func(i, j int)) {}

// reverseShuffler reverses the field.
type reverseShuffler struct{}

func (reverseShuffler) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}
