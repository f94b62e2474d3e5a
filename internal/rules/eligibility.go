// Package rules implements the prediction-window policy: which matches a
// user may predict right now, the effective deadline shown for a match,
// and when a scheduled prediction is allowed to activate. The functions
// are pure and operate on a snapshot of matches fetched by the caller.
package rules

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sbasnet/npl-fantasy/internal/league"
	"github.com/sbasnet/npl-fantasy/internal/timewindow"
)

const (
	// Days normally unlock once their first match is under 24 hours away.
	dayUnlockThreshold = 24 * time.Hour
	// A day led by match 1 unlocks under the shorter window, and match 1
	// itself is always predictable inside it.
	matchOneThreshold = 18 * time.Hour
)

// PredictableMatches computes the set of match IDs the user may currently
// predict.
//
// Matches are bucketed by local calendar day. A day unlocks when its first
// match is close enough (18h for a day led by match 1, 24h otherwise), or
// when every match dated before that day, across the whole fixture list,
// has been completed. An unlocked day exposes all of its matches, not just
// the first.
//
// userPredictions does not influence the result; it is part of the
// contract so callers keep passing it while the policy evolves.
func PredictableMatches(allMatches []league.Match, userPredictions []league.Prediction, now time.Time) map[uuid.UUID]struct{} {
	predictable := make(map[uuid.UUID]struct{})

	// Match 1 is predictable inside its 18-hour window no matter what the
	// day grouping below decides.
	for _, m := range allMatches {
		if m.MatchNumber != 1 || !m.IsUpcoming() {
			continue
		}
		until := m.MatchDate.Sub(now)
		if until > 0 && until <= matchOneThreshold {
			predictable[m.ID] = struct{}{}
		}
	}

	upcoming := make([]league.Match, 0, len(allMatches))
	for _, m := range allMatches {
		if m.IsUpcoming() && m.Deadline.After(now) {
			upcoming = append(upcoming, m)
		}
	}
	if len(upcoming) == 0 {
		return predictable
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].MatchDate.Before(upcoming[j].MatchDate)
	})

	byDay := make(map[time.Time][]league.Match)
	var days []time.Time
	for _, m := range upcoming {
		day := timewindow.StartOfDay(m.MatchDate)
		if _, seen := byDay[day]; !seen {
			days = append(days, day)
		}
		byDay[day] = append(byDay[day], m)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	for _, day := range days {
		dayMatches := byDay[day]
		if !dayUnlocked(day, dayMatches[0], allMatches, now) {
			continue
		}
		for _, m := range dayMatches {
			predictable[m.ID] = struct{}{}
		}
	}

	return predictable
}

// dayUnlocked decides whether a calendar day's matches open up. Proximity
// of the day's first match wins outright; otherwise the whole prior
// fixture history must be completed. The completeness scan walks the full
// match list so an old match that never completed keeps later days locked.
func dayUnlocked(day time.Time, firstOfDay league.Match, allMatches []league.Match, now time.Time) bool {
	threshold := dayUnlockThreshold
	if firstOfDay.MatchNumber == 1 {
		threshold = matchOneThreshold
	}
	until := firstOfDay.MatchDate.Sub(now)
	if until > 0 && until < threshold {
		return true
	}

	for _, m := range allMatches {
		if timewindow.StartOfDay(m.MatchDate).Before(day) && !m.IsCompleted() {
			return false
		}
	}
	return true
}

// CanPredict reports whether a single match is in the predictable set.
func CanPredict(matchID uuid.UUID, allMatches []league.Match, userPredictions []league.Prediction, now time.Time) bool {
	_, ok := PredictableMatches(allMatches, userPredictions, now)[matchID]
	return ok
}
