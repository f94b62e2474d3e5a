// Package timewindow holds the calendar-day arithmetic shared by the
// eligibility and deadline rules. Everything here is pure: no I/O, no
// clock reads, fully determined by the instants passed in.
package timewindow

import "time"

// Nepal has no DST, so a fixed offset is exact.
var nepalZone = time.FixedZone("NPT", 5*3600+45*60)

var cstZone = loadCSTZone()

func loadCSTZone() *time.Location {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		// Containers without tzdata fall back to plain CST.
		return time.FixedZone("CST", -6*3600)
	}
	return loc
}

// StartOfDay truncates t to 00:00:00 of its calendar day in the system's
// local timezone. Used for the eligibility engine's day grouping.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Local().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

// NepalDay returns the instant at which the Nepal (UTC+5:45) calendar day
// containing t begins, regardless of the system timezone. Midnight NPT is
// 18:15 UTC the previous day.
func NepalDay(t time.Time) time.Time {
	year, month, day := t.In(nepalZone).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, nepalZone)
}

// SameNepalDay reports whether two instants fall on the same Nepal
// calendar day.
func SameNepalDay(a, b time.Time) bool {
	return NepalDay(a).Equal(NepalDay(b))
}

// CutoffForNepalDay returns 20:00 in the CST zone on the CST calendar day
// on which the given Nepal day begins. Nepal is far enough ahead that a
// Nepal day always starts on the previous CST afternoon, so the cutoff
// lands before any match of that Nepal day.
func CutoffForNepalDay(nepalDay time.Time) time.Time {
	year, month, day := nepalDay.In(cstZone).Date()
	return time.Date(year, month, day, 20, 0, 0, 0, cstZone)
}

// IsPastCSTCutoff reports whether the wall clock in the CST zone is at or
// past 20:00 at the given instant.
func IsPastCSTCutoff(now time.Time) bool {
	return now.In(cstZone).Hour() >= 20
}

// CSTCutoffOn returns 20:00 in the CST zone on the CST calendar day
// containing now. The same-day block pins the displayed deadline here.
func CSTCutoffOn(now time.Time) time.Time {
	year, month, day := now.In(cstZone).Date()
	return time.Date(year, month, day, 20, 0, 0, 0, cstZone)
}
