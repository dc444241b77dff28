package models

// TeamStanding is the aggregated league record of one team.
type TeamStanding struct {
	TeamID         int    `json:"team_id" db:"team_id"`
	TeamName       string `json:"team_name" db:"team_name"`
	Played         int    `json:"played" db:"played"`
	Wins           int    `json:"wins" db:"wins"`
	Draws          int    `json:"draws" db:"draws"`
	Losses         int    `json:"losses" db:"losses"`
	GoalsFor       int    `json:"goals_for" db:"goals_for"`
	GoalsAgainst   int    `json:"goals_against" db:"goals_against"`
	GoalDifference int    `json:"goal_difference" db:"goal_difference"`
	Points         int    `json:"points" db:"points"`
	Rank           int    `json:"rank,omitempty" db:"-"`
}

// Refresh recomputes the derived columns.
func (s *TeamStanding) Refresh() {
	s.GoalDifference = s.GoalsFor - s.GoalsAgainst
	s.Points = 3*s.Wins + s.Draws
}

func (s TeamStanding) Team() Team {
	return Team{ID: s.TeamID, Name: s.TeamName}
}
