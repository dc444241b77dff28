package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/google/uuid"
)

var (
	ErrFixtureNotFound     = errors.New("fixture not found")
	ErrFixtureInvalidScore = errors.New("fixture score must be non-negative")
	ErrFixtureInvalidTeam  = errors.New("fixture references an unknown team or round")
)

type FixtureRepository interface {
	// Create inserts a playable fixture. Rest fixtures are rejected.
	Create(ctx context.Context, exec SQLExecutor, fixture *models.Fixture) error
	UpdateResult(ctx context.Context, exec SQLExecutor, fixtureID, homeGoals, awayGoals int) error
	// ListByTournament returns fixtures in schedule order.
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]models.Fixture, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) error
}

type postgresFixtureRepository struct {
	db *sql.DB
}

func NewPostgresFixtureRepository(db *sql.DB) FixtureRepository {
	return &postgresFixtureRepository{db: db}
}

func (r *postgresFixtureRepository) Create(ctx context.Context, exec SQLExecutor, f *models.Fixture) error {
	if f.Rest || f.Home.IsSentinel() || f.Away.IsSentinel() {
		return ErrFixtureInvalidTeam
	}

	query := `
		INSERT INTO fixtures (round_id, position, home_team_id, away_team_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, f.RoundID, f.Index, f.Home.ID, f.Away.ID).Scan(&f.ID)
	return r.handleFixtureError(err)
}

func (r *postgresFixtureRepository) UpdateResult(ctx context.Context, exec SQLExecutor, fixtureID, homeGoals, awayGoals int) error {
	if homeGoals < 0 || awayGoals < 0 {
		return ErrFixtureInvalidScore
	}

	query := `
		UPDATE fixtures
		SET home_goals = $1, away_goals = $2, played = TRUE
		WHERE id = $3`

	result, err := getExecutor(r.db, exec).ExecContext(ctx, query, homeGoals, awayGoals, fixtureID)
	if err != nil {
		return r.handleFixtureError(err)
	}
	return checkAffectedRows(result, ErrFixtureNotFound)
}

func (r *postgresFixtureRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]models.Fixture, error) {
	query := `
		SELECT f.id, f.round_id, r.number, f.position,
		       ht.id, ht.name, at.id, at.name,
		       f.played, f.home_goals, f.away_goals
		FROM fixtures f
		JOIN rounds r ON r.id = f.round_id
		JOIN teams ht ON ht.id = f.home_team_id
		JOIN teams at ON at.id = f.away_team_id
		WHERE r.tournament_id = $1
		ORDER BY r.number ASC, f.position ASC`

	rows, err := getExecutor(r.db, exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixtures for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	fixtures := make([]models.Fixture, 0)
	for rows.Next() {
		var f models.Fixture
		var homeGoals, awayGoals sql.NullInt64
		if err := rows.Scan(
			&f.ID, &f.RoundID, &f.Round, &f.Index,
			&f.Home.ID, &f.Home.Name, &f.Away.ID, &f.Away.Name,
			&f.Played, &homeGoals, &awayGoals,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fixture row: %w", err)
		}
		f.Home.TournamentID = tournamentID
		f.Away.TournamentID = tournamentID
		if homeGoals.Valid {
			v := int(homeGoals.Int64)
			f.HomeGoals = &v
		}
		if awayGoals.Valid {
			v := int(awayGoals.Int64)
			f.AwayGoals = &v
		}
		fixtures = append(fixtures, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during fixture rows iteration: %w", err)
	}
	return fixtures, nil
}

func (r *postgresFixtureRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) error {
	query := `
		DELETE FROM fixtures
		WHERE round_id IN (SELECT id FROM rounds WHERE tournament_id = $1)`
	if _, err := getExecutor(r.db, exec).ExecContext(ctx, query, tournamentID); err != nil {
		return fmt.Errorf("failed to delete fixtures of tournament %s: %w", tournamentID, err)
	}
	return nil
}

func (r *postgresFixtureRepository) handleFixtureError(err error) error {
	if err == nil {
		return nil
	}
	if code, _, ok := constraintOf(err); ok {
		switch code {
		case pqCheckViolation:
			return ErrFixtureInvalidScore
		case pqForeignKeyViolation:
			return ErrFixtureInvalidTeam
		}
	}
	return err
}
