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
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamNameConflict      = errors.New("team name already registered in this tournament")
	ErrTeamTournamentInvalid = errors.New("team tournament reference is invalid")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	// GetIDByName matches names case-insensitively.
	GetIDByName(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID, name string) (int, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]models.Team, error)
	// DeleteCascade removes the team and every fixture it plays in.
	DeleteCascade(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID, teamID int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		INSERT INTO teams (tournament_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, team.TournamentID, team.Name).Scan(&team.ID, &team.CreatedAt)
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetIDByName(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID, name string) (int, error) {
	query := `SELECT id FROM teams WHERE tournament_id = $1 AND LOWER(name) = LOWER($2)`

	var id int
	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, tournamentID, name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrTeamNotFound
		}
		return 0, fmt.Errorf("failed to look up team %q: %w", name, err)
	}
	return id, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]models.Team, error) {
	query := `
		SELECT id, tournament_id, name, created_at
		FROM teams
		WHERE tournament_id = $1
		ORDER BY id ASC`

	rows, err := getExecutor(r.db, exec).QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.TournamentID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team rows iteration: %w", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) DeleteCascade(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID, teamID int) error {
	executor := getExecutor(r.db, exec)

	if _, err := executor.ExecContext(ctx,
		`DELETE FROM fixtures WHERE home_team_id = $1 OR away_team_id = $1`, teamID); err != nil {
		return fmt.Errorf("failed to delete fixtures of team %d: %w", teamID, err)
	}

	result, err := executor.ExecContext(ctx,
		`DELETE FROM teams WHERE id = $1 AND tournament_id = $2`, teamID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete team %d: %w", teamID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := constraintOf(err); ok {
		switch {
		case code == pqUniqueViolation && constraint == "teams_tournament_name_key":
			return ErrTeamNameConflict
		case code == pqForeignKeyViolation && constraint == "teams_tournament_id_fkey":
			return ErrTeamTournamentInvalid
		}
	}
	return err
}
