package league

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchUpcoming  MatchStatus = "upcoming"
	MatchLive      MatchStatus = "live"
	MatchCompleted MatchStatus = "completed"
)

type MatchType string

const (
	LeagueMatch  MatchType = "league"
	PlayoffMatch MatchType = "playoff"
	FinalMatch   MatchType = "final"
)

type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournamentId"`

	// 1-based human ordering. Match 1 gets its own deadline rule.
	MatchNumber int       `db:"match_number" json:"matchNumber"`
	MatchType   MatchType `db:"match_type" json:"matchType"`

	TeamAName string  `db:"team_a_name" json:"teamAName"`
	TeamBName string  `db:"team_b_name" json:"teamBName"`
	Venue     *string `db:"venue" json:"venue,omitempty"`

	MatchDate time.Time `db:"match_date" json:"matchDate"`

	// Stored fallback deadline. Superseded by the computed deadline in
	// most paths, still used by the eligibility filter.
	Deadline time.Time   `db:"deadline" json:"deadline"`
	Status   MatchStatus `db:"status" json:"status"`

	WinnerName *string `db:"winner_name" json:"winnerName,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

func (m *Match) IsCompleted() bool {
	return m.Status == MatchCompleted
}

func (m *Match) IsUpcoming() bool {
	return m.Status == MatchUpcoming
}
