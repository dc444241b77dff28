package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/sync/errgroup"
)

// TournamentOverview is the durable view of a tournament.
type TournamentOverview struct {
	Tournament *models.Tournament    `json:"tournament"`
	Teams      []models.Team         `json:"teams"`
	Standings  []models.TeamStanding `json:"standings"`
	Fixtures   []models.Fixture      `json:"fixtures"`
}

type TournamentService interface {
	Create(ctx context.Context, name string) (*models.Tournament, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tournament, error)
	Overview(ctx context.Context, id uuid.UUID) (*TournamentOverview, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	standingRepo   repositories.StandingRepository
	fixtureRepo    repositories.FixtureRepository
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	standingRepo repositories.StandingRepository,
	fixtureRepo repositories.FixtureRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		standingRepo:   standingRepo,
		fixtureRepo:    fixtureRepo,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, name string) (*models.Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}

	id := uuid.New()
	t := &models.Tournament{
		ID:     id,
		Name:   name,
		Slug:   tournamentSlug(name, id),
		Status: models.StatusRegistration,
	}
	if err := s.tournamentRepo.Create(ctx, nil, t); err != nil {
		return nil, handleRepositoryError(err)
	}

	s.logger.Info("tournament created", slog.String("tournament_id", id.String()), slog.String("slug", t.Slug))
	return t, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return t, nil
}

func (s *tournamentService) Overview(ctx context.Context, id uuid.UUID) (*TournamentOverview, error) {
	overview := &TournamentOverview{}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := s.tournamentRepo.GetByID(gCtx, nil, id)
		if err != nil {
			return handleRepositoryError(err)
		}
		overview.Tournament = t
		return nil
	})

	g.Go(func() error {
		teams, err := s.teamRepo.ListByTournament(gCtx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		overview.Teams = teams
		return nil
	})

	g.Go(func() error {
		standings, err := s.standingRepo.ListRanked(gCtx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to load standings: %w", err)
		}
		overview.Standings = standings
		return nil
	})

	g.Go(func() error {
		fixtures, err := s.fixtureRepo.ListByTournament(gCtx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to list fixtures: %w", err)
		}
		overview.Fixtures = fixtures
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	overview.Tournament.Teams = overview.Teams
	return overview, nil
}

// tournamentSlug keeps slugs unique across tournaments with the same name.
func tournamentSlug(name string, id uuid.UUID) string {
	base := slug.Make(name)
	if base == "" {
		base = "tournament"
	}
	return base + "-" + id.String()[:8]
}
