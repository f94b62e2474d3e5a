package rules

import (
	"sort"
	"time"

	"github.com/sbasnet/npl-fantasy/internal/league"
	"github.com/sbasnet/npl-fantasy/internal/timewindow"
)

// editCutoffLead is how long before the first match of a Nepal day
// submissions close.
const editCutoffLead = 6 * time.Hour

// DeadlineInfo is what the UI needs to render a match's lock state.
type DeadlineInfo struct {
	Deadline time.Time `json:"deadline"`
	IsPast   bool      `json:"isPastDeadline"`
}

// NextMatch returns the earliest upcoming match that has not started yet,
// or nil when there is none.
func NextMatch(allMatches []league.Match, now time.Time) *league.Match {
	var next *league.Match
	for i := range allMatches {
		m := &allMatches[i]
		if !m.IsUpcoming() || !m.MatchDate.After(now) {
			continue
		}
		if next == nil || m.MatchDate.Before(next.MatchDate) {
			next = m
		}
	}
	return next
}

// FirstMatchOfNepalDay returns the earliest match, regardless of status,
// sharing the target match's Nepal calendar day. Returns nil when the
// list holds no match on that day.
func FirstMatchOfNepalDay(match league.Match, allMatches []league.Match) *league.Match {
	sameDay := make([]league.Match, 0, 4)
	for _, m := range allMatches {
		if timewindow.SameNepalDay(m.MatchDate, match.MatchDate) {
			sameDay = append(sameDay, m)
		}
	}
	if len(sameDay) == 0 {
		return nil
	}
	sort.Slice(sameDay, func(i, j int) bool {
		return sameDay[i].MatchDate.Before(sameDay[j].MatchDate)
	})
	return &sameDay[0]
}

// EffectiveDeadline computes the deadline governing submissions for one
// match. This is deliberately independent of PredictableMatches: the
// engine decides which days are open, the resolver decides when edits
// close, and the two group days in different timezones on purpose.
//
// Order of precedence:
//  1. Same Nepal day as the next match and the CST clock is at or past
//     20:00: blocked, deadline pinned to today's 20:00 CST.
//  2. The day's first match completed or started: blocked, deadline is
//     that match's start.
//  3. Otherwise the deadline is six hours before the day's first match.
//  4. With no resolvable first match, the stored deadline applies.
func EffectiveDeadline(match league.Match, allMatches []league.Match, now time.Time) DeadlineInfo {
	first := FirstMatchOfNepalDay(match, allMatches)
	if first == nil {
		return DeadlineInfo{Deadline: match.Deadline, IsPast: !now.Before(match.Deadline)}
	}

	next := NextMatch(allMatches, now)
	if next != nil && timewindow.SameNepalDay(match.MatchDate, next.MatchDate) && timewindow.IsPastCSTCutoff(now) {
		return DeadlineInfo{Deadline: timewindow.CSTCutoffOn(now), IsPast: true}
	}

	if first.IsCompleted() || !now.Before(first.MatchDate) {
		return DeadlineInfo{Deadline: first.MatchDate, IsPast: true}
	}

	deadline := first.MatchDate.Add(-editCutoffLead)
	return DeadlineInfo{Deadline: deadline, IsPast: !now.Before(deadline)}
}
