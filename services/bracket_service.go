package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/Dosada05/tournament-manager/storage"
	"github.com/google/uuid"
)

type BracketView struct {
	State      brackets.BracketState   `json:"state"`
	Round      int                     `json:"round"`
	Pairings   []brackets.Pairing      `json:"pairings"`
	History    []brackets.BracketRound `json:"history"`
	Champion   *models.Team            `json:"champion,omitempty"`
	ArchiveURL string                  `json:"archive_url,omitempty"`
}

// ArchiveSummary is the document stored when a champion is decided.
type ArchiveSummary struct {
	Tournament *models.Tournament      `json:"tournament"`
	Champion   models.Team             `json:"champion"`
	Standings  []models.TeamStanding   `json:"standings"`
	Knockout   []brackets.BracketRound `json:"knockout"`
	FinishedAt time.Time               `json:"finished_at"`
}

type BracketService interface {
	Qualifiers(ctx context.Context, tournamentID uuid.UUID, count int) ([]models.Team, error)
	SeedManual(ctx context.Context, tournamentID uuid.UUID, teamIDs []int) (*BracketView, error)
	SeedRanked(ctx context.Context, tournamentID uuid.UUID, count int) (*BracketView, error)
	ReportWinner(ctx context.Context, tournamentID uuid.UUID, index, teamID int) (*BracketView, error)
	Reset(ctx context.Context, tournamentID uuid.UUID) (*BracketView, error)
	View(ctx context.Context, tournamentID uuid.UUID) (*BracketView, error)
}

type bracketService struct {
	db             *sql.DB
	sessions       *SessionStore
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	standingRepo   repositories.StandingRepository
	leagues        leagueLoader
	uploader       storage.FileUploader
	events         Broadcaster
	logger         *slog.Logger
	now            func() time.Time
}

// NewBracketService wires the knockout stage. uploader may be nil, in which
// case finished tournaments are not archived.
func NewBracketService(
	db *sql.DB,
	sessions *SessionStore,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	fixtureRepo repositories.FixtureRepository,
	standingRepo repositories.StandingRepository,
	uploader storage.FileUploader,
	events Broadcaster,
	logger *slog.Logger,
) BracketService {
	if events == nil {
		events = noopBroadcaster{}
	}
	return &bracketService{
		db:             db,
		sessions:       sessions,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		standingRepo:   standingRepo,
		leagues:        leagueLoader{teamRepo: teamRepo, fixtureRepo: fixtureRepo, logger: logger},
		uploader:       uploader,
		events:         events,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *bracketService) Qualifiers(ctx context.Context, tournamentID uuid.UUID, count int) ([]models.Team, error) {
	sess, _, err := openSession(ctx, s.sessions, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	return s.qualifiers(ctx, sess, count)
}

// qualifiers cuts the stored league table once every fixture is played.
// Caller holds the session lock.
func (s *bracketService) qualifiers(ctx context.Context, sess *Session, count int) ([]models.Team, error) {
	league, err := s.leagues.load(ctx, sess)
	if err != nil {
		return nil, err
	}
	if !league.Complete() {
		played, total := league.Progress()
		return nil, fmt.Errorf("%w: %d of %d played", ErrLeagueInProgress, played, total)
	}

	standings, err := s.standingRepo.ListRanked(ctx, nil, sess.TournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return brackets.SelectTop(standings, count)
}

func (s *bracketService) SeedManual(ctx context.Context, tournamentID uuid.UUID, teamIDs []int) (*BracketView, error) {
	sess, t, err := openSession(ctx, s.sessions, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	if t.Status == models.StatusCompleted {
		return nil, ErrTournamentCompleted
	}
	registered, err := s.teamRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	field, err := pickTeams(registered, teamIDs)
	if err != nil {
		return nil, err
	}

	next := sess.bracket.Clone()
	completed, err := next.SeedManual(field)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, sess, t, next, completed)
}

func (s *bracketService) SeedRanked(ctx context.Context, tournamentID uuid.UUID, count int) (*BracketView, error) {
	sess, t, err := openSession(ctx, s.sessions, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	if t.Status == models.StatusCompleted {
		return nil, ErrTournamentCompleted
	}
	field, err := s.qualifiers(ctx, sess, count)
	if err != nil {
		return nil, err
	}

	next := sess.bracket.Clone()
	completed, err := next.SeedRanked(field)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, sess, t, next, completed)
}

func (s *bracketService) ReportWinner(ctx context.Context, tournamentID uuid.UUID, index, teamID int) (*BracketView, error) {
	sess, t, err := openSession(ctx, s.sessions, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	if sess.bracket.State() == brackets.StateAwaitingField {
		return nil, fmt.Errorf("%w: %w", ErrBracketNotStarted, brackets.ErrInvalidPairing)
	}

	next := sess.bracket.Clone()
	completed, err := next.ReportWinner(index, models.Team{ID: teamID})
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, sess, t, next, completed)
}

func (s *bracketService) Reset(ctx context.Context, tournamentID uuid.UUID) (*BracketView, error) {
	sess, t, err := openSession(ctx, s.sessions, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()

	status := sess.statusBeforeKnockout
	if status == "" {
		status = models.StatusRegistration
		if t.Status != models.StatusKnockout && t.Status != models.StatusCompleted {
			status = t.Status
		}
	}
	err = withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		if err := s.tournamentRepo.SetChampion(ctx, tx, tournamentID, nil); err != nil {
			return err
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, status)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	sess.bracket.Reset()
	sess.statusBeforeKnockout = ""
	view := viewOf(sess.bracket)

	s.logger.Info("bracket reset", slog.String("tournament_id", tournamentID.String()), slog.String("status", string(status)))
	publish(s.events, tournamentID, brackets.EventBracketRound, view)
	return view, nil
}

func (s *bracketService) View(ctx context.Context, tournamentID uuid.UUID) (*BracketView, error) {
	sess, _, err := openSession(ctx, s.sessions, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}
	defer sess.Unlock()
	return viewOf(sess.bracket), nil
}

// apply persists the outcome of a bracket transition and swaps the new
// bracket into the session. Caller holds the session lock.
func (s *bracketService) apply(ctx context.Context, sess *Session, t *models.Tournament, next *brackets.Bracket, completed []brackets.BracketRound) (*BracketView, error) {
	champion, decided := next.Champion()

	switch {
	case decided:
		err := withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
			if err := s.tournamentRepo.SetChampion(ctx, tx, t.ID, &champion.ID); err != nil {
				return err
			}
			return s.tournamentRepo.UpdateStatus(ctx, tx, t.ID, models.StatusCompleted)
		})
		if err != nil {
			return nil, handleRepositoryError(err)
		}
		t.Status = models.StatusCompleted
		t.ChampionID = &champion.ID
	case t.Status != models.StatusKnockout:
		if err := s.tournamentRepo.UpdateStatus(ctx, nil, t.ID, models.StatusKnockout); err != nil {
			return nil, handleRepositoryError(err)
		}
		if sess.statusBeforeKnockout == "" {
			sess.statusBeforeKnockout = t.Status
		}
		t.Status = models.StatusKnockout
	}

	sess.bracket = next
	view := viewOf(next)

	for _, r := range completed {
		s.logger.Info("knockout round completed",
			slog.String("tournament_id", t.ID.String()),
			slog.Int("round", r.Number),
			slog.Int("winners", len(r.Winners)))
	}
	publish(s.events, t.ID, brackets.EventBracketRound, view)

	if decided {
		s.logger.Info("champion decided",
			slog.String("tournament_id", t.ID.String()),
			slog.Int("team_id", champion.ID),
			slog.String("team", champion.Name))
		view.ArchiveURL = s.archive(ctx, t, champion, next.History())
		publish(s.events, t.ID, brackets.EventChampionDecided, view)
	}
	return view, nil
}

// archive uploads the final summary and returns its public URL. Failures are
// logged only; the champion is already stored.
func (s *bracketService) archive(ctx context.Context, t *models.Tournament, champion models.Team, history []brackets.BracketRound) string {
	if s.uploader == nil {
		return ""
	}

	standings, err := s.standingRepo.ListRanked(ctx, nil, t.ID)
	if err != nil {
		s.logger.Warn("archiving without standings", slog.String("tournament_id", t.ID.String()), slog.Any("error", err))
	}
	summary := ArchiveSummary{
		Tournament: t,
		Champion:   champion,
		Standings:  standings,
		Knockout:   history,
		FinishedAt: s.now().UTC(),
	}
	body, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		s.logger.Error("failed to encode archive", slog.String("tournament_id", t.ID.String()), slog.Any("error", err))
		return ""
	}

	key := storage.ArchiveKey(t.Slug, summary.FinishedAt)
	result, err := s.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		s.logger.Error("failed to upload archive", slog.String("tournament_id", t.ID.String()), slog.String("key", key), slog.Any("error", err))
		return ""
	}
	s.logger.Info("archive uploaded", slog.String("tournament_id", t.ID.String()), slog.String("location", result.Location))
	return result.Location
}

func viewOf(b *brackets.Bracket) *BracketView {
	view := &BracketView{
		State:    b.State(),
		Round:    b.Round(),
		Pairings: b.Pairings(),
		History:  b.History(),
	}
	if champion, ok := b.Champion(); ok {
		view.Champion = &champion
	}
	return view
}

// pickTeams selects the requested teams in request order; no ids means the
// whole registered field.
func pickTeams(registered []models.Team, ids []int) ([]models.Team, error) {
	if len(ids) == 0 {
		return registered, nil
	}
	byID := make(map[int]models.Team, len(registered))
	for _, t := range registered {
		byID[t.ID] = t
	}
	field := make([]models.Team, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return nil, ErrTeamNotFound
		}
		field = append(field, t)
	}
	return field, nil
}
