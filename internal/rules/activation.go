package rules

import (
	"sort"
	"time"

	"github.com/sbasnet/npl-fantasy/internal/league"
	"github.com/sbasnet/npl-fantasy/internal/timewindow"
)

// ActivationTime returns the instant at which a prediction scheduled for
// the given match may go active. It mirrors when the match would become
// visible through the regular window rules, so a scheduled prediction
// never activates before an ordinary submission could have been made.
//
// Matches sharing a Nepal day with the next match, and matches leading
// their own Nepal day, open at that day's 20:00 CST cutoff. A match later
// in its day opens at the earlier of the cutoff and six hours before the
// day's first match.
func ActivationTime(match league.Match, allMatches []league.Match, now time.Time) time.Time {
	day := timewindow.NepalDay(match.MatchDate)
	cutoff := timewindow.CutoffForNepalDay(day)

	next := NextMatch(allMatches, now)
	if next == nil || timewindow.SameNepalDay(match.MatchDate, next.MatchDate) {
		return cutoff
	}

	sameDay := make([]league.Match, 0, 4)
	found := false
	for _, m := range allMatches {
		if timewindow.SameNepalDay(m.MatchDate, match.MatchDate) {
			sameDay = append(sameDay, m)
			if m.ID == match.ID {
				found = true
			}
		}
	}
	// The target may not be in the snapshot yet when scheduling far ahead.
	if !found {
		sameDay = append(sameDay, match)
	}
	sort.Slice(sameDay, func(i, j int) bool {
		return sameDay[i].MatchDate.Before(sameDay[j].MatchDate)
	})

	first := sameDay[0]
	if first.ID == match.ID {
		return cutoff
	}
	if first.IsCompleted() || !now.Before(first.MatchDate) {
		return now
	}

	sixBefore := first.MatchDate.Add(-editCutoffLead)
	if !cutoff.After(sixBefore) {
		return cutoff
	}
	return sixBefore
}

// ShouldActivateScheduled is the re-validation the activation pass runs on
// a due prediction. The storage query already filtered on scheduled_for,
// so this is a double check: the scheduled instant must have elapsed and,
// when the owning match can be found, its activation time must have
// arrived too. An unknown match does not block activation.
func ShouldActivateScheduled(p league.Prediction, allMatches []league.Match, now time.Time) bool {
	if p.ScheduledFor == nil {
		return false
	}
	if p.ScheduledFor.After(now) {
		return false
	}

	for _, m := range allMatches {
		if m.ID == p.MatchID {
			return !now.Before(ActivationTime(m, allMatches, now))
		}
	}
	return true
}
