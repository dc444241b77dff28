package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/google/uuid"
)

var ErrRoundConflict = errors.New("round number already exists for this tournament")

type RoundRepository interface {
	// Create inserts the round and stores the generated id on it.
	Create(ctx context.Context, exec SQLExecutor, round *models.Round) error
	// DeleteByTournament drops every round of the tournament; fixtures follow by cascade.
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) error
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.Round) error {
	query := `
		INSERT INTO rounds (tournament_id, number)
		VALUES ($1, $2)
		RETURNING id`

	err := getExecutor(r.db, exec).QueryRowContext(ctx, query, round.TournamentID, round.Number).Scan(&round.ID)
	if err != nil {
		if code, _, ok := constraintOf(err); ok && code == pqUniqueViolation {
			return ErrRoundConflict
		}
		return fmt.Errorf("failed to insert round %d: %w", round.Number, err)
	}
	return nil
}

func (r *postgresRoundRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) error {
	query := `DELETE FROM rounds WHERE tournament_id = $1`
	if _, err := getExecutor(r.db, exec).ExecContext(ctx, query, tournamentID); err != nil {
		return fmt.Errorf("failed to delete rounds of tournament %s: %w", tournamentID, err)
	}
	return nil
}
