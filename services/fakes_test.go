package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/storage"
	"github.com/google/uuid"
)

// memStore backs every fake repository with plain slices.
type memStore struct {
	mu          sync.Mutex
	nextID      int
	tournaments map[uuid.UUID]models.Tournament
	teams       []models.Team
	rounds      []models.Round
	fixtures    []models.Fixture

	updateResultErr error
}

func newMemStore() *memStore {
	return &memStore{tournaments: make(map[uuid.UUID]models.Tournament)}
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

func (m *memStore) roundOwner(roundID int) (uuid.UUID, bool) {
	for _, r := range m.rounds {
		if r.ID == roundID {
			return r.TournamentID, true
		}
	}
	return uuid.Nil, false
}

type fakeTournamentRepo struct{ *memStore }

func (r fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tournaments {
		if existing.Slug == t.Slug {
			return repositories.ErrTournamentSlugConflict
		}
	}
	r.tournaments[t.ID] = *t
	return nil
}

func (r fakeTournamentRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (r fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID, status models.TournamentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	r.tournaments[id] = t
	return nil
}

func (r fakeTournamentRepo) SetChampion(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID, teamID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.ChampionID = teamID
	r.tournaments[id] = t
	return nil
}

type fakeTeamRepo struct{ *memStore }

func (r fakeTeamRepo) Create(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[team.TournamentID]; !ok {
		return repositories.ErrTeamTournamentInvalid
	}
	for _, t := range r.teams {
		if t.TournamentID == team.TournamentID && strings.EqualFold(t.Name, team.Name) {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = r.id()
	r.teams = append(r.teams, *team)
	return nil
}

func (r fakeTeamRepo) GetIDByName(_ context.Context, _ repositories.SQLExecutor, tournamentID uuid.UUID, name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.TournamentID == tournamentID && strings.EqualFold(t.Name, name) {
			return t.ID, nil
		}
	}
	return 0, repositories.ErrTeamNotFound
}

func (r fakeTeamRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID uuid.UUID) ([]models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	teams := make([]models.Team, 0)
	for _, t := range r.teams {
		if t.TournamentID == tournamentID {
			teams = append(teams, t)
		}
	}
	return teams, nil
}

func (r fakeTeamRepo) DeleteCascade(_ context.Context, _ repositories.SQLExecutor, tournamentID uuid.UUID, teamID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.fixtures[:0]
	for _, f := range r.fixtures {
		if f.Home.ID != teamID && f.Away.ID != teamID {
			kept = append(kept, f)
		}
	}
	r.fixtures = kept
	for i, t := range r.teams {
		if t.ID == teamID && t.TournamentID == tournamentID {
			r.teams = append(r.teams[:i], r.teams[i+1:]...)
			return nil
		}
	}
	return repositories.ErrTeamNotFound
}

type fakeRoundRepo struct{ *memStore }

func (r fakeRoundRepo) Create(_ context.Context, _ repositories.SQLExecutor, round *models.Round) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	round.ID = r.id()
	r.rounds = append(r.rounds, models.Round{ID: round.ID, TournamentID: round.TournamentID, Number: round.Number})
	return nil
}

func (r fakeRoundRepo) DeleteByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rounds[:0]
	for _, round := range r.rounds {
		if round.TournamentID != tournamentID {
			kept = append(kept, round)
		}
	}
	r.rounds = kept
	return nil
}

type fakeFixtureRepo struct{ *memStore }

func (r fakeFixtureRepo) Create(_ context.Context, _ repositories.SQLExecutor, f *models.Fixture) error {
	if f.Rest {
		return repositories.ErrFixtureInvalidTeam
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = r.id()
	r.fixtures = append(r.fixtures, *f)
	return nil
}

func (r fakeFixtureRepo) UpdateResult(_ context.Context, _ repositories.SQLExecutor, fixtureID, homeGoals, awayGoals int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateResultErr != nil {
		return r.updateResultErr
	}
	for i := range r.fixtures {
		if r.fixtures[i].ID == fixtureID {
			hg, ag := homeGoals, awayGoals
			r.fixtures[i].Played = true
			r.fixtures[i].HomeGoals = &hg
			r.fixtures[i].AwayGoals = &ag
			return nil
		}
	}
	return repositories.ErrFixtureNotFound
}

func (r fakeFixtureRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID uuid.UUID) ([]models.Fixture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Fixture, 0)
	for _, f := range r.fixtures {
		if owner, ok := r.roundOwner(f.RoundID); ok && owner == tournamentID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].Index < out[j].Index
	})
	return out, nil
}

func (r fakeFixtureRepo) DeleteByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.fixtures[:0]
	for _, f := range r.fixtures {
		if owner, ok := r.roundOwner(f.RoundID); !ok || owner != tournamentID {
			kept = append(kept, f)
		}
	}
	r.fixtures = kept
	return nil
}

// fakeStandingRepo ranks played fixtures with the engine table, the same
// order the SQL aggregate produces.
type fakeStandingRepo struct{ *memStore }

func (r fakeStandingRepo) ListRanked(ctx context.Context, _ repositories.SQLExecutor, tournamentID uuid.UUID) ([]models.TeamStanding, error) {
	teams, _ := fakeTeamRepo(r).ListByTournament(ctx, nil, tournamentID)
	fixtures, _ := fakeFixtureRepo(r).ListByTournament(ctx, nil, tournamentID)
	table := brackets.NewStandingsTable(teams)
	for _, f := range fixtures {
		if !f.Played {
			continue
		}
		if err := table.Apply(f.Home, f.Away, *f.HomeGoals, *f.AwayGoals); err != nil {
			return nil, err
		}
	}
	return table.Ranked(), nil
}

type recorder struct {
	mu       sync.Mutex
	messages []brackets.WebSocketMessage
}

func (r *recorder) BroadcastToRoom(roomID string, message interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg := message.(brackets.WebSocketMessage)
	msg.RoomID = roomID
	r.messages = append(r.messages, msg)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	for i, m := range r.messages {
		out[i] = m.Type
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}

type fakeUploader struct {
	UploadFunc func(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error)

	keys   []string
	bodies [][]byte
}

func (u *fakeUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.UploadFunc != nil {
		return u.UploadFunc(ctx, key, contentType, reader)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, err
	}
	u.keys = append(u.keys, key)
	u.bodies = append(u.bodies, buf.Bytes())
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type keepOrder struct{}

func (keepOrder) Shuffle(int, func(i, j int)) {}

var errStorage = errors.New("storage unavailable")

type harness struct {
	store    *memStore
	mock     sqlmock.Sqlmock
	events   *recorder
	uploader *fakeUploader
	sessions *SessionStore

	tournaments TournamentService
	league      LeagueService
	bracket     BracketService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
		conn.Close()
	})

	store := newMemStore()
	events := &recorder{}
	uploader := &fakeUploader{}
	sessions := NewSessionStore(keepOrder{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tournamentRepo := fakeTournamentRepo{store}
	teamRepo := fakeTeamRepo{store}
	standingRepo := fakeStandingRepo{store}
	fixtureRepo := fakeFixtureRepo{store}

	return &harness{
		store:       store,
		mock:        mock,
		events:      events,
		uploader:    uploader,
		sessions:    sessions,
		tournaments: NewTournamentService(tournamentRepo, teamRepo, standingRepo, fixtureRepo, logger),
		league:      NewLeagueService(conn, sessions, tournamentRepo, teamRepo, fakeRoundRepo{store}, fixtureRepo, events, logger),
		bracket:     NewBracketService(conn, sessions, tournamentRepo, teamRepo, fixtureRepo, standingRepo, uploader, events, logger),
	}
}

func (h *harness) expectTx() {
	h.mock.ExpectBegin()
	h.mock.ExpectCommit()
}

// tournamentWith creates a tournament and registers the named teams.
func (h *harness) tournamentWith(t *testing.T, names ...string) (uuid.UUID, []models.Team) {
	t.Helper()
	ctx := context.Background()
	tr, err := h.tournaments.Create(ctx, "Spring Cup")
	if err != nil {
		t.Fatalf("Create tournament: %v", err)
	}
	teams := make([]models.Team, 0, len(names))
	for _, name := range names {
		h.expectTx()
		team, err := h.league.RegisterTeam(ctx, tr.ID, name)
		if err != nil {
			t.Fatalf("RegisterTeam(%q): %v", name, err)
		}
		teams = append(teams, *team)
	}
	return tr.ID, teams
}
