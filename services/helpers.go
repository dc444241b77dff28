package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-manager/brackets"
	"github.com/Dosada05/tournament-manager/repositories"
	"github.com/google/uuid"
)

// Broadcaster delivers presentation events. *brackets.Hub satisfies it.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastToRoom(string, interface{}) {}

func publish(b Broadcaster, tournamentID uuid.UUID, eventType string, payload interface{}) {
	room := brackets.RoomName(tournamentID.String())
	b.BroadcastToRoom(room, brackets.WebSocketMessage{
		Type:    eventType,
		Payload: payload,
		RoomID:  room,
	})
}

// withTx runs fn in a transaction, committing on success and rolling back on
// error or panic.
func withTx(ctx context.Context, db *sql.DB, logger *slog.Logger, fn func(tx *sql.Tx) error) (txErr error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
				txErr = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(tx)
}

// handleRepositoryError translates storage errors into service errors.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentSlugConflict):
		return ErrTournamentNameConflict
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrTeamTournamentInvalid):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrFixtureNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrFixtureInvalidScore):
		return brackets.ErrInvalidScore
	}
	return err
}
