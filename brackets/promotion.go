package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
)

// SelectTop returns the first count teams of a ranked table, best first.
func SelectTop(standings []models.TeamStanding, count int) ([]models.Team, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: cut size must be positive, got %d", ErrInvalidInput, count)
	}
	if len(standings) < count {
		return nil, fmt.Errorf("%w: %d available, %d requested", ErrInsufficientTeams, len(standings), count)
	}
	seeds := make([]models.Team, 0, count)
	for _, s := range standings[:count] {
		seeds = append(seeds, s.Team())
	}
	return seeds, nil
}
