package brackets

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Dosada05/tournament-manager/models"
)

// Shuffler permutes n elements through swap. rand.Shuffle satisfies the
// contract with an unbiased Fisher-Yates pass.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type randShuffler struct {
	r *rand.Rand
}

func NewRandShuffler(seed1, seed2 uint64) Shuffler {
	return &randShuffler{r: rand.New(rand.NewPCG(seed1, seed2))}
}

func (s *randShuffler) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// DefaultShuffler uses the global randomness source.
type DefaultShuffler struct{}

func (DefaultShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// validateTeams checks the shared preconditions for schedules and brackets.
// Names must be unique regardless of case, IDs unique and not reserved.
func validateTeams(teams []models.Team, kind error) error {
	if len(teams) < 2 {
		return fmt.Errorf("%w: at least 2 teams required, got %d", kind, len(teams))
	}
	ids := make(map[int]struct{}, len(teams))
	names := make(map[string]struct{}, len(teams))
	for _, t := range teams {
		if t.IsSentinel() || t.ID < 0 {
			return fmt.Errorf("%w: team id %d is reserved", kind, t.ID)
		}
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return fmt.Errorf("%w: team %d has an empty name", kind, t.ID)
		}
		if _, dup := ids[t.ID]; dup {
			return fmt.Errorf("%w: duplicate team id %d", kind, t.ID)
		}
		key := strings.ToLower(name)
		if _, dup := names[key]; dup {
			return fmt.Errorf("%w: duplicate team name %q", kind, t.Name)
		}
		ids[t.ID] = struct{}{}
		names[key] = struct{}{}
	}
	return nil
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
