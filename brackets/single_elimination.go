package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
)

type BracketState string

const (
	StateAwaitingField   BracketState = "awaiting_field"
	StateRoundInProgress BracketState = "round_in_progress"
	StateRoundComplete   BracketState = "round_complete"
	StateChampion        BracketState = "champion"
)

// Pairing is one knockout tie. Away is models.ByeTeam for a free pass.
type Pairing struct {
	Index  int          `json:"index"`
	Home   models.Team  `json:"home"`
	Away   models.Team  `json:"away"`
	Winner *models.Team `json:"winner,omitempty"`
	IsBye  bool         `json:"is_bye"`
}

func (p Pairing) Decided() bool { return p.Winner != nil }

func (p Pairing) has(t models.Team) bool {
	return p.Home.Same(t) || p.Away.Same(t)
}

// BracketRound is a finished knockout round.
type BracketRound struct {
	Number   int           `json:"number"`
	Pairings []Pairing     `json:"pairings"`
	Winners  []models.Team `json:"winners"`
}

// Bracket runs a single-elimination knockout one round at a time. Each
// round's winners, in pairing order, form the next round's field.
type Bracket struct {
	shuffler Shuffler

	state    BracketState
	round    int
	pairings []Pairing
	history  []BracketRound
	champion *models.Team
}

func NewBracket(shuffler Shuffler) *Bracket {
	if shuffler == nil {
		shuffler = DefaultShuffler{}
	}
	return &Bracket{shuffler: shuffler, state: StateAwaitingField}
}

// SeedManual pads the field to the next power of two with byes, shuffles it
// and starts round one. It returns the rounds already completed by byes.
func (b *Bracket) SeedManual(teams []models.Team) ([]BracketRound, error) {
	if err := b.checkSeedable(teams); err != nil {
		return nil, err
	}

	size := nextPowerOfTwo(len(teams))
	field := make([]models.Team, 0, size)
	field = append(field, teams...)
	for len(field) < size {
		field = append(field, models.ByeTeam)
	}
	b.shuffler.Shuffle(len(field), func(i, j int) {
		field[i], field[j] = field[j], field[i]
	})

	b.start(consecutivePairings(field))
	return b.settle(), nil
}

// SeedRanked pairs a ranked list 1 vs N, 2 vs N-1 and so on. With an odd
// count the middle team gets a free pass.
func (b *Bracket) SeedRanked(teams []models.Team) ([]BracketRound, error) {
	if err := b.checkSeedable(teams); err != nil {
		return nil, err
	}

	pairings := make([]Pairing, 0, (len(teams)+1)/2)
	left, right := 0, len(teams)-1
	for left < right {
		pairings = append(pairings, newPairing(len(pairings), teams[left], teams[right]))
		left++
		right--
	}
	if left == right {
		pairings = append(pairings, newPairing(len(pairings), teams[left], models.ByeTeam))
	}

	b.start(pairings)
	return b.settle(), nil
}

// ReportByes resolves every open pairing that involves a bye and returns the
// pairings it decided.
func (b *Bracket) ReportByes() []Pairing {
	if b.state != StateRoundInProgress {
		return nil
	}
	var resolved []Pairing
	for i := range b.pairings {
		p := &b.pairings[i]
		if p.Decided() || !p.IsBye {
			continue
		}
		winner := p.Home
		if p.Home.IsBye() {
			winner = p.Away
		}
		p.Winner = &winner
		resolved = append(resolved, *p)
	}
	return resolved
}

// ReportWinner decides one pairing. Completing the round advances the
// bracket; the returned rounds are the ones finished by this call.
func (b *Bracket) ReportWinner(index int, winner models.Team) ([]BracketRound, error) {
	if b.state != StateRoundInProgress {
		return nil, fmt.Errorf("%w: bracket is %s", ErrInvalidPairing, b.state)
	}
	if index < 0 || index >= len(b.pairings) {
		return nil, fmt.Errorf("%w: no pairing %d in round %d", ErrInvalidPairing, index, b.round)
	}
	p := &b.pairings[index]
	if p.Decided() {
		return nil, fmt.Errorf("%w: pairing %d already won by %s", ErrInvalidPairing, index, p.Winner.Name)
	}
	if winner.IsSentinel() || !p.has(winner) {
		return nil, fmt.Errorf("%w: team %d is not in pairing %d", ErrInvalidPairing, winner.ID, index)
	}
	if p.Home.Same(winner) {
		winner = p.Home
	} else {
		winner = p.Away
	}
	p.Winner = &winner
	return b.settle(), nil
}

// Reset returns the bracket to awaiting_field.
func (b *Bracket) Reset() {
	b.state = StateAwaitingField
	b.round = 0
	b.pairings = nil
	b.history = nil
	b.champion = nil
}

func (b *Bracket) State() BracketState { return b.state }

func (b *Bracket) Round() int { return b.round }

// Pairings returns a copy of the current round.
func (b *Bracket) Pairings() []Pairing {
	return append([]Pairing(nil), b.pairings...)
}

func (b *Bracket) History() []BracketRound {
	return append([]BracketRound(nil), b.history...)
}

func (b *Bracket) Champion() (models.Team, bool) {
	if b.champion == nil {
		return models.Team{}, false
	}
	return *b.champion, true
}

// Clone returns an independent copy sharing the shuffler.
func (b *Bracket) Clone() *Bracket {
	c := *b
	c.pairings = b.Pairings()
	c.history = b.History()
	return &c
}

func (b *Bracket) checkSeedable(teams []models.Team) error {
	if b.state != StateAwaitingField {
		return fmt.Errorf("%w: bracket is %s", ErrInvalidField, b.state)
	}
	return validateTeams(teams, ErrInvalidField)
}

func (b *Bracket) start(pairings []Pairing) {
	b.round = 1
	b.pairings = pairings
	b.history = nil
	b.champion = nil
	b.state = StateRoundInProgress
}

// settle resolves byes and advances through every round that is complete.
// A round made only of byes advances without any reported winner.
func (b *Bracket) settle() []BracketRound {
	var completed []BracketRound
	for b.state == StateRoundInProgress {
		b.ReportByes()
		for _, p := range b.pairings {
			if !p.Decided() {
				return completed
			}
		}
		b.state = StateRoundComplete

		winners := make([]models.Team, 0, len(b.pairings))
		for _, p := range b.pairings {
			winners = append(winners, *p.Winner)
		}
		finished := BracketRound{Number: b.round, Pairings: b.Pairings(), Winners: winners}
		b.history = append(b.history, finished)
		completed = append(completed, finished)

		if len(winners) == 1 {
			champion := winners[0]
			b.champion = &champion
			b.state = StateChampion
			return completed
		}
		if len(winners)%2 != 0 {
			winners = append(winners, models.ByeTeam)
		}
		b.pairings = consecutivePairings(winners)
		b.round++
		b.state = StateRoundInProgress
	}
	return completed
}

func consecutivePairings(field []models.Team) []Pairing {
	pairings := make([]Pairing, 0, len(field)/2)
	for i := 0; i+1 < len(field); i += 2 {
		pairings = append(pairings, newPairing(len(pairings), field[i], field[i+1]))
	}
	return pairings
}

func newPairing(index int, home, away models.Team) Pairing {
	return Pairing{
		Index: index,
		Home:  home,
		Away:  away,
		IsBye: home.IsBye() || away.IsBye(),
	}
}
