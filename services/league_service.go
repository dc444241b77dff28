package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/google/uuid"
)

type ResultInput struct {
	Round      int `json:"round"`
	Index      int `json:"index"`
	HomeTeamID int `json:"home_team_id"`
	AwayTeamID int `json:"away_team_id"`
	HomeGoals  int `json:"home_goals"`
	AwayGoals  int `json:"away_goals"`
}

type ResultOutcome struct {
	Standings []models.TeamStanding `json:"standings"`
	Rested    []RestNotice          `json:"rested,omitempty"`
	Next      *models.Fixture       `json:"next,omitempty"`
	Complete  bool                  `json:"complete"`
	Played    int                   `json:"played"`
	Total     int                   `json:"total"`
}

type LeagueProgress struct {
	Current  *models.Fixture `json:"current,omitempty"`
	Played   int             `json:"played"`
	Total    int             `json:"total"`
	Complete bool            `json:"complete"`
}

// RestNotice names the team sitting out a round.
type RestNotice struct {
	Round int         `json:"round"`
	Team  models.Team `json:"team"`
}

type LeagueService interface {
	RegisterTeam(ctx context.Context, tournamentID uuid.UUID, name string) (*models.Team, error)
	RemoveTeam(ctx context.Context, tournamentID uuid.UUID, teamID int) error
	ListTeams(ctx context.Context, tournamentID uuid.UUID) ([]models.Team, error)
	StartLeague(ctx context.Context, tournamentID uuid.UUID) ([]models.Round, error)
	Schedule(ctx context.Context, tournamentID uuid.UUID) ([]models.Round, error)
	Current(ctx context.Context, tournamentID uuid.UUID) (*LeagueProgress, error)
	RecordResult(ctx context.Context, tournamentID uuid.UUID, in ResultInput) (*ResultOutcome, error)
	Standings(ctx context.Context, tournamentID uuid.UUID) ([]models.TeamStanding, error)
}

type leagueService struct {
	db             *sql.DB
	sessions       *SessionStore
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	roundRepo      repositories.RoundRepository
	fixtureRepo    repositories.FixtureRepository
	leagues        leagueLoader
	events         Broadcaster
	logger         *slog.Logger
}

func NewLeagueService(
	db *sql.DB,
	sessions *SessionStore,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	roundRepo repositories.RoundRepository,
	fixtureRepo repositories.FixtureRepository,
	events Broadcaster,
	logger *slog.Logger,
) LeagueService {
	if events == nil {
		events = noopBroadcaster{}
	}
	return &leagueService{
		db:             db,
		sessions:       sessions,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		roundRepo:      roundRepo,
		fixtureRepo:    fixtureRepo,
		leagues:        leagueLoader{teamRepo: teamRepo, fixtureRepo: fixtureRepo, logger: logger},
		events:         events,
		logger:         logger,
	}
}

func (s *leagueService) RegisterTeam(ctx context.Context, tournamentID uuid.UUID, name string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	sess, t, err := openSession(ctx, s.sessions, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	if _, err := s.teamRepo.GetIDByName(ctx, nil, tournamentID, name); err == nil {
		return nil, ErrTeamNameConflict
	} else if !errors.Is(err, repositories.ErrTeamNotFound) {
		return nil, handleRepositoryError(err)
	}

	team := &models.Team{TournamentID: tournamentID, Name: name}
	err = s.editTeams(ctx, sess, t, func(tx *sql.Tx) error {
		return s.teamRepo.Create(ctx, tx, team)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("team registered",
		slog.String("tournament_id", tournamentID.String()),
		slog.Int("team_id", team.ID),
		slog.String("name", team.Name))
	return team, nil
}

func (s *leagueService) RemoveTeam(ctx context.Context, tournamentID uuid.UUID, teamID int) error {
	sess, t, err := openSession(ctx, s.sessions, s.tournamentRepo, tournamentID)
	if err != nil {
		return err
	}
	defer sess.Unlock()

	err = s.editTeams(ctx, sess, t, func(tx *sql.Tx) error {
		return s.teamRepo.DeleteCascade(ctx, tx, tournamentID, teamID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("team removed", slog.String("tournament_id", tournamentID.String()), slog.Int("team_id", teamID))
	return nil
}

// editTeams runs a team change in a transaction. Teams are locked while a
// league or knockout runs. Changing the field of a tournament that already
// has a schedule discards the schedule, its results and the champion, and
// puts the tournament back into registration.
func (s *leagueService) editTeams(ctx context.Context, sess *Session, t *models.Tournament, change func(tx *sql.Tx) error) error {
	switch t.Status {
	case models.StatusLeague, models.StatusKnockout:
		return ErrTeamsLocked
	}

	stored, err := s.fixtureRepo.ListByTournament(ctx, nil, t.ID)
	if err != nil {
		return handleRepositoryError(err)
	}
	discard := len(stored) > 0 || t.Status == models.StatusCompleted

	err = withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		if err := change(tx); err != nil {
			return err
		}
		if !discard {
			return nil
		}
		if err := s.fixtureRepo.DeleteByTournament(ctx, tx, t.ID); err != nil {
			return err
		}
		if err := s.roundRepo.DeleteByTournament(ctx, tx, t.ID); err != nil {
			return err
		}
		if err := s.tournamentRepo.SetChampion(ctx, tx, t.ID, nil); err != nil {
			return err
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, t.ID, models.StatusRegistration)
	})
	if err != nil {
		return handleRepositoryError(err)
	}

	if discard {
		sess.clearCompetition()
		s.logger.Info("schedule discarded after team change",
			slog.String("tournament_id", t.ID.String()),
			slog.Int("fixtures", len(stored)))
	}
	return nil
}

func (s *leagueService) ListTeams(ctx context.Context, tournamentID uuid.UUID) ([]models.Team, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	teams, err := s.teamRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return teams, nil
}

func (s *leagueService) StartLeague(ctx context.Context, tournamentID uuid.UUID) ([]models.Round, error) {
	sess, t, err := openSession(ctx, s.sessions, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	if t.Status == models.StatusKnockout {
		return nil, ErrKnockoutInProgress
	}

	teams, err := s.teamRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	league, err := brackets.NewLeague(teams)
	if err != nil {
		return nil, err
	}

	rounds := league.Rounds()
	fixtureIDs := make(map[fixtureSlot]int)
	roundIDs := make(map[int]int, len(rounds))

	err = withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		if err := s.fixtureRepo.DeleteByTournament(ctx, tx, tournamentID); err != nil {
			return err
		}
		if err := s.roundRepo.DeleteByTournament(ctx, tx, tournamentID); err != nil {
			return err
		}
		for i := range rounds {
			r := &rounds[i]
			r.TournamentID = tournamentID
			if err := s.roundRepo.Create(ctx, tx, r); err != nil {
				return err
			}
			roundIDs[r.Number] = r.ID
			for j := range r.Fixtures {
				f := &r.Fixtures[j]
				f.RoundID = r.ID
				if f.Rest {
					continue
				}
				if err := s.fixtureRepo.Create(ctx, tx, f); err != nil {
					return err
				}
				fixtureIDs[fixtureSlot{f.Round, f.Index}] = f.ID
			}
		}
		if err := s.tournamentRepo.SetChampion(ctx, tx, tournamentID, nil); err != nil {
			return err
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusLeague)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	sess.clearCompetition()
	sess.league = league
	sess.fixtureIDs = fixtureIDs
	sess.roundIDs = roundIDs

	_, total := league.Progress()
	s.logger.Info("league started",
		slog.String("tournament_id", tournamentID.String()),
		slog.Int("teams", len(teams)),
		slog.Int("rounds", len(rounds)),
		slog.Int("fixtures", total))

	publish(s.events, tournamentID, brackets.EventLeagueStarted, rounds)
	s.publishRests(tournamentID, restsBeforeCursor(league))
	return rounds, nil
}

func (s *leagueService) Schedule(ctx context.Context, tournamentID uuid.UUID) ([]models.Round, error) {
	sess, _, err := openSession(ctx, s.sessions, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	league, err := s.leagues.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	return sess.withStorageIDs(league.Rounds()), nil
}

func (s *leagueService) Current(ctx context.Context, tournamentID uuid.UUID) (*LeagueProgress, error) {
	sess, _, err := openSession(ctx, s.sessions, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	league, err := s.leagues.load(ctx, sess)
	if err != nil {
		return nil, err
	}

	played, total := league.Progress()
	progress := &LeagueProgress{Played: played, Total: total, Complete: league.Complete()}
	if f, ok := league.Current(); ok {
		f.ID = sess.fixtureIDs[fixtureSlot{f.Round, f.Index}]
		f.RoundID = sess.roundIDs[f.Round]
		progress.Current = &f
	}
	return progress, nil
}

func (s *leagueService) RecordResult(ctx context.Context, tournamentID uuid.UUID, in ResultInput) (*ResultOutcome, error) {
	sess, t, err := openSession(ctx, s.sessions, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	switch t.Status {
	case models.StatusKnockout:
		return nil, ErrKnockoutInProgress
	case models.StatusCompleted:
		return nil, ErrTournamentCompleted
	}

	league, err := s.leagues.load(ctx, sess)
	if err != nil {
		return nil, err
	}

	f := models.Fixture{
		Round: in.Round,
		Index: in.Index,
		Home:  models.Team{ID: in.HomeTeamID},
		Away:  models.Team{ID: in.AwayTeamID},
	}
	f.Rest = f.Home.IsRest() || f.Away.IsRest()

	next := league.Clone()
	adv, standings, err := next.Commit(f, in.HomeGoals, in.AwayGoals)
	if err != nil {
		return nil, err
	}

	fixtureID, ok := sess.fixtureIDs[fixtureSlot{in.Round, in.Index}]
	if !ok {
		return nil, fmt.Errorf("%w: no stored fixture for round %d index %d", ErrSessionStateInvalid, in.Round, in.Index)
	}
	if err := s.fixtureRepo.UpdateResult(ctx, nil, fixtureID, in.HomeGoals, in.AwayGoals); err != nil {
		return nil, handleRepositoryError(err)
	}
	sess.league = next

	played, total := next.Progress()
	outcome := &ResultOutcome{
		Standings: standings,
		Rested:    restNotices(adv.Rested),
		Complete:  adv.Complete,
		Played:    played,
		Total:     total,
	}
	if adv.Next != nil {
		n := *adv.Next
		n.ID = sess.fixtureIDs[fixtureSlot{n.Round, n.Index}]
		n.RoundID = sess.roundIDs[n.Round]
		outcome.Next = &n
	}

	s.logger.Info("result recorded",
		slog.String("tournament_id", tournamentID.String()),
		slog.Int("round", in.Round),
		slog.Int("index", in.Index),
		slog.Int("home_goals", in.HomeGoals),
		slog.Int("away_goals", in.AwayGoals))

	publish(s.events, tournamentID, brackets.EventStandingsUpdated, standings)
	s.publishRests(tournamentID, outcome.Rested)
	if adv.Complete {
		s.logger.Info("league completed", slog.String("tournament_id", tournamentID.String()))
		publish(s.events, tournamentID, brackets.EventLeagueCompleted, standings)
	}
	return outcome, nil
}

func (s *leagueService) Standings(ctx context.Context, tournamentID uuid.UUID) ([]models.TeamStanding, error) {
	sess, _, err := openSession(ctx, s.sessions, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	league, err := s.leagues.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	return league.Standings(), nil
}

// leagueLoader rebuilds session leagues from storage.
type leagueLoader struct {
	teamRepo    repositories.TeamRepository
	fixtureRepo repositories.FixtureRepository
	logger      *slog.Logger
}

// load returns the session league, rebuilding it when the session is new.
// The schedule is regenerated from the teams in id order and the stored
// results are replayed through the engine. Caller holds the lock.
func (l leagueLoader) load(ctx context.Context, sess *Session) (*brackets.League, error) {
	if sess.league != nil {
		return sess.league, nil
	}

	id := sess.TournamentID
	stored, err := l.fixtureRepo.ListByTournament(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if len(stored) == 0 {
		return nil, ErrLeagueNotStarted
	}
	teams, err := l.teamRepo.ListByTournament(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	league, err := brackets.NewLeague(teams)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionStateInvalid, err)
	}

	bySlot := make(map[fixtureSlot]models.Fixture, len(stored))
	for _, f := range stored {
		bySlot[fixtureSlot{f.Round, f.Index}] = f
	}
	if _, total := league.Progress(); total != len(stored) {
		return nil, fmt.Errorf("%w: %d stored fixtures, schedule has %d", ErrSessionStateInvalid, len(stored), total)
	}

	fixtureIDs := make(map[fixtureSlot]int, len(stored))
	roundIDs := make(map[int]int)
	var replay []models.Fixture
	for _, r := range league.Rounds() {
		for _, f := range r.Fixtures {
			if f.Rest {
				continue
			}
			slot := fixtureSlot{f.Round, f.Index}
			p, ok := bySlot[slot]
			if !ok || !p.Home.Same(f.Home) || !p.Away.Same(f.Away) {
				return nil, fmt.Errorf("%w: round %d index %d", ErrSessionStateInvalid, f.Round, f.Index)
			}
			fixtureIDs[slot] = p.ID
			roundIDs[f.Round] = p.RoundID
			if p.Played {
				if p.HomeGoals == nil || p.AwayGoals == nil {
					return nil, fmt.Errorf("%w: fixture %d played without a score", ErrSessionStateInvalid, p.ID)
				}
				replay = append(replay, p)
			}
		}
	}
	for _, p := range replay {
		if _, _, err := league.Commit(p, *p.HomeGoals, *p.AwayGoals); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSessionStateInvalid, err)
		}
	}

	sess.league = league
	sess.fixtureIDs = fixtureIDs
	sess.roundIDs = roundIDs

	l.logger.Info("league restored from storage",
		slog.String("tournament_id", id.String()),
		slog.Int("replayed", len(replay)))
	return league, nil
}

func (s *leagueService) publishRests(tournamentID uuid.UUID, rests []RestNotice) {
	for _, r := range rests {
		publish(s.events, tournamentID, brackets.EventTeamResting, r)
	}
}

// withStorageIDs fills in the database ids of the session's rounds and fixtures.
func (sess *Session) withStorageIDs(rounds []models.Round) []models.Round {
	for i := range rounds {
		rounds[i].TournamentID = sess.TournamentID
		rounds[i].ID = sess.roundIDs[rounds[i].Number]
		for j := range rounds[i].Fixtures {
			f := &rounds[i].Fixtures[j]
			f.RoundID = rounds[i].ID
			f.ID = sess.fixtureIDs[fixtureSlot{f.Round, f.Index}]
		}
	}
	return rounds
}

func restNotices(fixtures []models.Fixture) []RestNotice {
	var out []RestNotice
	for _, f := range fixtures {
		if team, ok := f.RestingTeam(); ok {
			out = append(out, RestNotice{Round: f.Round, Team: team})
		}
	}
	return out
}

// restsBeforeCursor lists the rests a fresh league skipped to reach its first fixture.
func restsBeforeCursor(league *brackets.League) []RestNotice {
	current, ok := league.Current()
	var skipped []models.Fixture
	for _, r := range league.Rounds() {
		for _, f := range r.Fixtures {
			if ok && f.SameSlot(current) {
				return restNotices(skipped)
			}
			if f.Rest {
				skipped = append(skipped, f)
			}
		}
	}
	return restNotices(skipped)
}
