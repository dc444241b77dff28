package repositories

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/tournament-manager/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
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
	return conn, mock
}

var tournamentID = uuid.MustParse("5b0f3c1e-8f0a-4c55-9d0e-3f7d1c2a9b10")

func TestTeamCreate(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTeamRepository(conn)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO teams").
		WithArgs(tournamentID, "Lions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, created))

	team := &models.Team{TournamentID: tournamentID, Name: "Lions"}
	if err := repo.Create(context.Background(), nil, team); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if team.ID != 7 || !team.CreatedAt.Equal(created) {
		t.Errorf("team = %+v", team)
	}
}

func TestTeamCreateConstraintErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate name", &pq.Error{Code: pqUniqueViolation, Constraint: "teams_tournament_name_key"}, ErrTeamNameConflict},
		{"unknown tournament", &pq.Error{Code: pqForeignKeyViolation, Constraint: "teams_tournament_id_fkey"}, ErrTeamTournamentInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conn, mock := newMock(t)
			repo := NewPostgresTeamRepository(conn)
			mock.ExpectQuery("INSERT INTO teams").WillReturnError(tc.err)

			err := repo.Create(context.Background(), nil, &models.Team{TournamentID: tournamentID, Name: "Lions"})
			if !errors.Is(err, tc.want) {
				t.Errorf("Create error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTeamGetIDByName(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTeamRepository(conn)

	mock.ExpectQuery(`SELECT id FROM teams WHERE tournament_id = \$1 AND LOWER\(name\) = LOWER\(\$2\)`).
		WithArgs(tournamentID, "LIONS").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery("SELECT id FROM teams").
		WithArgs(tournamentID, "Tigers").
		WillReturnError(sql.ErrNoRows)

	id, err := repo.GetIDByName(context.Background(), nil, tournamentID, "LIONS")
	if err != nil || id != 3 {
		t.Fatalf("GetIDByName = %d, %v; want 3, nil", id, err)
	}
	if _, err := repo.GetIDByName(context.Background(), nil, tournamentID, "Tigers"); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("GetIDByName missing error = %v, want %v", err, ErrTeamNotFound)
	}
}

func TestTeamListByTournament(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTeamRepository(conn)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, tournament_id, name, created_at").
		WithArgs(tournamentID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tournament_id", "name", "created_at"}).
			AddRow(1, tournamentID.String(), "Lions", created).
			AddRow(2, tournamentID.String(), "Tigers", created))

	got, err := repo.ListByTournament(context.Background(), nil, tournamentID)
	if err != nil {
		t.Fatalf("ListByTournament: %v", err)
	}
	want := []models.Team{
		{ID: 1, TournamentID: tournamentID, Name: "Lions", CreatedAt: created},
		{ID: 2, TournamentID: tournamentID, Name: "Tigers", CreatedAt: created},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListByTournament = %+v, want %+v", got, want)
	}
}

func TestTeamDeleteCascade(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTeamRepository(conn)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM fixtures WHERE home_team_id").
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM teams WHERE id").
		WithArgs(4, tournamentID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := conn.Begin()
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteCascade(context.Background(), tx, tournamentID, 4); err != nil {
		t.Fatalf("DeleteCascade: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
}

func TestTeamDeleteCascadeNotFound(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTeamRepository(conn)

	mock.ExpectExec("DELETE FROM fixtures").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM teams").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteCascade(context.Background(), nil, tournamentID, 99); !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("DeleteCascade error = %v, want %v", err, ErrTeamNotFound)
	}
}

func TestRoundCreate(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresRoundRepository(conn)

	mock.ExpectQuery("INSERT INTO rounds").
		WithArgs(tournamentID, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery("INSERT INTO rounds").
		WithArgs(tournamentID, 2).
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "rounds_tournament_number_key"})

	round := &models.Round{TournamentID: tournamentID, Number: 2}
	if err := repo.Create(context.Background(), nil, round); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if round.ID != 11 {
		t.Errorf("round.ID = %d, want 11", round.ID)
	}
	if err := repo.Create(context.Background(), nil, &models.Round{TournamentID: tournamentID, Number: 2}); !errors.Is(err, ErrRoundConflict) {
		t.Errorf("Create duplicate error = %v, want %v", err, ErrRoundConflict)
	}
}

func TestFixtureCreateRejectsRest(t *testing.T) {
	conn, _ := newMock(t)
	repo := NewPostgresFixtureRepository(conn)

	rest := &models.Fixture{RoundID: 1, Home: models.Team{ID: 1, Name: "Lions"}, Away: models.RestTeam, Rest: true}
	if err := repo.Create(context.Background(), nil, rest); !errors.Is(err, ErrFixtureInvalidTeam) {
		t.Errorf("Create rest error = %v, want %v", err, ErrFixtureInvalidTeam)
	}
}

func TestFixtureCreate(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresFixtureRepository(conn)

	mock.ExpectQuery("INSERT INTO fixtures").
		WithArgs(5, 1, 1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(40))

	f := &models.Fixture{RoundID: 5, Index: 1, Home: models.Team{ID: 1}, Away: models.Team{ID: 2}}
	if err := repo.Create(context.Background(), nil, f); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if f.ID != 40 {
		t.Errorf("f.ID = %d, want 40", f.ID)
	}
}

func TestFixtureUpdateResult(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresFixtureRepository(conn)

	mock.ExpectExec("UPDATE fixtures").
		WithArgs(2, 1, 40).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE fixtures").
		WithArgs(0, 0, 41).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateResult(context.Background(), nil, 40, 2, 1); err != nil {
		t.Fatalf("UpdateResult: %v", err)
	}
	if err := repo.UpdateResult(context.Background(), nil, 41, 0, 0); !errors.Is(err, ErrFixtureNotFound) {
		t.Errorf("UpdateResult missing error = %v, want %v", err, ErrFixtureNotFound)
	}
	if err := repo.UpdateResult(context.Background(), nil, 40, -1, 0); !errors.Is(err, ErrFixtureInvalidScore) {
		t.Errorf("UpdateResult negative error = %v, want %v", err, ErrFixtureInvalidScore)
	}
}

func TestFixtureListByTournament(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresFixtureRepository(conn)

	cols := []string{"id", "round_id", "number", "position", "home_id", "home_name", "away_id", "away_name", "played", "home_goals", "away_goals"}
	mock.ExpectQuery("SELECT f.id, f.round_id, r.number").
		WithArgs(tournamentID).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 10, 1, 0, 1, "Lions", 2, "Tigers", true, 3, 1).
			AddRow(2, 11, 2, 0, 2, "Tigers", 1, "Lions", false, nil, nil))

	got, err := repo.ListByTournament(context.Background(), nil, tournamentID)
	if err != nil {
		t.Fatalf("ListByTournament: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].Played || *got[0].HomeGoals != 3 || *got[0].AwayGoals != 1 || got[0].Round != 1 {
		t.Errorf("first fixture = %+v", got[0])
	}
	if got[1].Played || got[1].HomeGoals != nil || got[1].Home.Name != "Tigers" {
		t.Errorf("second fixture = %+v", got[1])
	}
}

func TestStandingListRanked(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresStandingRepository(conn)

	cols := []string{"team_id", "team_name", "played", "wins", "draws", "losses", "goals_for", "goals_against", "goal_difference", "points"}
	mock.ExpectQuery(`ORDER BY points DESC, goal_difference DESC, goals_for DESC, team_name COLLATE "C" ASC`).
		WithArgs(tournamentID).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "Lions", 2, 2, 0, 0, 5, 1, 4, 6).
			AddRow(2, "Tigers", 2, 0, 0, 2, 1, 5, -4, 0))

	got, err := repo.ListRanked(context.Background(), nil, tournamentID)
	if err != nil {
		t.Fatalf("ListRanked: %v", err)
	}
	want := []models.TeamStanding{
		{TeamID: 1, TeamName: "Lions", Played: 2, Wins: 2, GoalsFor: 5, GoalsAgainst: 1, GoalDifference: 4, Points: 6, Rank: 1},
		{TeamID: 2, TeamName: "Tigers", Played: 2, Losses: 2, GoalsFor: 1, GoalsAgainst: 5, GoalDifference: -4, Points: 0, Rank: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListRanked = %+v, want %+v", got, want)
	}
}

func TestTournamentRepository(t *testing.T) {
	conn, mock := newMock(t)
	repo := NewPostgresTournamentRepository(conn)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO tournaments").
		WithArgs(tournamentID, "Spring Cup", "spring-cup", "registration").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))
	mock.ExpectQuery("SELECT id, name, slug, status, champion_id, created_at").
		WithArgs(tournamentID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "status", "champion_id", "created_at"}).
			AddRow(tournamentID.String(), "Spring Cup", "spring-cup", "completed", 3, created))
	mock.ExpectExec("UPDATE tournaments SET status").
		WithArgs("league", tournamentID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT id, name, slug").
		WithArgs(tournamentID).
		WillReturnError(sql.ErrNoRows)

	ctx := context.Background()
	tr := &models.Tournament{ID: tournamentID, Name: "Spring Cup", Slug: "spring-cup", Status: models.StatusRegistration}
	if err := repo.Create(ctx, nil, tr); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != models.StatusCompleted || got.ChampionID == nil || *got.ChampionID != 3 {
		t.Errorf("GetByID = %+v", got)
	}

	if err := repo.UpdateStatus(ctx, nil, tournamentID, models.StatusLeague); !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("UpdateStatus error = %v, want %v", err, ErrTournamentNotFound)
	}
	if _, err := repo.GetByID(ctx, nil, tournamentID); !errors.Is(err, ErrTournamentNotFound) {
		t.Errorf("GetByID missing error = %v, want %v", err, ErrTournamentNotFound)
	}
}
