package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/tournament-manager/models"
	"github.com/google/uuid"
)

type StandingRepository interface {
	// ListRanked aggregates played fixtures into a ranked table. Teams without
	// a played fixture appear with zero totals.
	ListRanked(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]models.TeamStanding, error)
}

type postgresStandingRepository struct {
	db *sql.DB
}

func NewPostgresStandingRepository(db *sql.DB) StandingRepository {
	return &postgresStandingRepository{db: db}
}

// Ordering matches brackets.CompareStandings; COLLATE "C" keeps the name
// tie-break byte-wise.
const rankedStandingsQuery = `
	WITH results AS (
		SELECT f.home_team_id AS team_id, f.home_goals AS gf, f.away_goals AS ga
		FROM fixtures f JOIN rounds r ON r.id = f.round_id
		WHERE r.tournament_id = $1 AND f.played
		UNION ALL
		SELECT f.away_team_id, f.away_goals, f.home_goals
		FROM fixtures f JOIN rounds r ON r.id = f.round_id
		WHERE r.tournament_id = $1 AND f.played
	), totals AS (
		SELECT t.id AS team_id, t.name AS team_name,
		       COUNT(res.team_id) AS played,
		       COALESCE(SUM(CASE WHEN res.gf > res.ga THEN 1 ELSE 0 END), 0) AS wins,
		       COALESCE(SUM(CASE WHEN res.gf = res.ga THEN 1 ELSE 0 END), 0) AS draws,
		       COALESCE(SUM(CASE WHEN res.gf < res.ga THEN 1 ELSE 0 END), 0) AS losses,
		       COALESCE(SUM(res.gf), 0) AS goals_for,
		       COALESCE(SUM(res.ga), 0) AS goals_against
		FROM teams t
		LEFT JOIN results res ON res.team_id = t.id
		WHERE t.tournament_id = $1
		GROUP BY t.id, t.name
	)
	SELECT team_id, team_name, played, wins, draws, losses,
	       goals_for, goals_against,
	       goals_for - goals_against AS goal_difference,
	       wins * 3 + draws AS points
	FROM totals
	ORDER BY points DESC, goal_difference DESC, goals_for DESC, team_name COLLATE "C" ASC`

func (r *postgresStandingRepository) ListRanked(ctx context.Context, exec SQLExecutor, tournamentID uuid.UUID) ([]models.TeamStanding, error) {
	rows, err := getExecutor(r.db, exec).QueryContext(ctx, rankedStandingsQuery, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	standings := make([]models.TeamStanding, 0)
	for rows.Next() {
		var s models.TeamStanding
		if err := rows.Scan(
			&s.TeamID, &s.TeamName, &s.Played, &s.Wins, &s.Draws, &s.Losses,
			&s.GoalsFor, &s.GoalsAgainst, &s.GoalDifference, &s.Points,
		); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		s.Rank = len(standings) + 1
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during standing rows iteration: %w", err)
	}
	return standings, nil
}
