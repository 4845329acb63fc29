// Package aggregate folds raw records into per-person summaries.
package aggregate

import "github.com/minasamy417/resultsboard/domain"

// NormalizeAttendance converts a mixed-scale attendance value to a
// percentage. Values at or below 1 are treated as ratios.
func NormalizeAttendance(v float64) float64 {
	if v <= 1 {
		return v * 100
	}
	return v
}

// Aggregate groups records by exact identity key and computes one
// PersonSummary per key. Absent records are excluded from the score
// average but counted in AbsenceCount. Summaries come back in first-seen
// order so output is deterministic for a given input sequence.
func Aggregate(records []domain.Record) []domain.PersonSummary {
	type acc struct {
		summary       domain.PersonSummary
		scoreSum      float64
		scoredCount   int
		attendanceSum float64
	}

	order := make([]string, 0, len(records))
	byKey := make(map[string]*acc, len(records))

	for _, r := range records {
		a, ok := byKey[r.IdentityKey]
		if !ok {
			a = &acc{summary: domain.PersonSummary{
				IdentityKey: r.IdentityKey,
				Name:        r.Name,
				Group:       r.Group,
			}}
			byKey[r.IdentityKey] = a
			order = append(order, r.IdentityKey)
		}

		a.summary.CourseCount++
		a.attendanceSum += NormalizeAttendance(r.Attendance)

		if r.Absent {
			a.summary.AbsenceCount++
		} else {
			a.scoreSum += r.Score
			a.scoredCount++
		}
	}

	summaries := make([]domain.PersonSummary, 0, len(order))
	for _, key := range order {
		a := byKey[key]
		if a.scoredCount > 0 {
			a.summary.MeanScore = a.scoreSum / float64(a.scoredCount)
		}
		a.summary.MeanAttendancePercent = a.attendanceSum / float64(a.summary.CourseCount)
		summaries = append(summaries, a.summary)
	}
	return summaries
}
