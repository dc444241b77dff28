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
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentSlugConflict = errors.New("tournament slug already exists")
	ErrTournamentInvalidState = errors.New("invalid tournament status value")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id uuid.UUID, status models.TournamentStatus) error
	SetChampion(ctx context.Context, exec SQLExecutor, id uuid.UUID, teamID *int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (id, name, slug, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, t.ID, t.Name, t.Slug, t.Status).Scan(&t.CreatedAt)
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id uuid.UUID) (*models.Tournament, error) {
	query := `
		SELECT id, name, slug, status, champion_id, created_at
		FROM tournaments
		WHERE id = $1`

	var t models.Tournament
	var championID sql.NullInt64
	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Slug, &t.Status, &championID, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %s: %w", id, err)
	}
	if championID.Valid {
		v := int(championID.Int64)
		t.ChampionID = &v
	}
	return &t, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id uuid.UUID, status models.TournamentStatus) error {
	query := `UPDATE tournaments SET status = $1 WHERE id = $2`
	result, err := getExecutor(r.db, exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) SetChampion(ctx context.Context, exec SQLExecutor, id uuid.UUID, teamID *int) error {
	query := `UPDATE tournaments SET champion_id = $1 WHERE id = $2`
	result, err := getExecutor(r.db, exec).ExecContext(ctx, query, teamID, id)
	if err != nil {
		return fmt.Errorf("failed to set champion for tournament %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if code, constraint, ok := constraintOf(err); ok {
		switch {
		case code == pqUniqueViolation && constraint == "tournaments_slug_key":
			return ErrTournamentSlugConflict
		case code == pqCheckViolation:
			return ErrTournamentInvalidState
		}
	}
	return err
}
