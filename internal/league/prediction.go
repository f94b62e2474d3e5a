package league

import (
	"time"

	"github.com/google/uuid"
)

type ScoreCategory string

const (
	ScoreCategoryA ScoreCategory = "A"
	ScoreCategoryB ScoreCategory = "B"
	ScoreCategoryC ScoreCategory = "C"
	ScoreCategoryD ScoreCategory = "D"
	ScoreCategoryE ScoreCategory = "E"
	ScoreCategoryF ScoreCategory = "F"
)

type Prediction struct {
	ID      uuid.UUID `db:"id" json:"id"`
	UserID  uuid.UUID `db:"user_id" json:"userId"`
	MatchID uuid.UUID `db:"match_id" json:"matchId"`

	MatchNumber int `db:"match_number" json:"matchNumber"`

	PredictedWinner string  `db:"predicted_winner" json:"predictedWinner"`
	PredictedPom    *string `db:"predicted_pom" json:"predictedPom,omitempty"`

	TeamAScoreCategory *ScoreCategory `db:"team_a_score_category" json:"teamAScoreCategory,omitempty"`
	TeamAWickets       *int           `db:"team_a_wickets" json:"teamAWickets,omitempty"`
	TeamBScoreCategory *ScoreCategory `db:"team_b_score_category" json:"teamBScoreCategory,omitempty"`
	TeamBWickets       *int           `db:"team_b_wickets" json:"teamBWickets,omitempty"`

	// A set ScheduledFor marks the prediction as staged: it was submitted
	// ahead of the prediction window and becomes active once the cron
	// activation pass clears it. ScheduledAt is bookkeeping only.
	ScheduledFor *time.Time `db:"scheduled_for" json:"scheduledFor,omitempty"`
	ScheduledAt  *time.Time `db:"scheduled_at" json:"scheduledAt,omitempty"`

	SubmittedAt time.Time `db:"submitted_at" json:"submittedAt"`
}

func (p *Prediction) IsScheduled() bool {
	return p.ScheduledFor != nil
}
