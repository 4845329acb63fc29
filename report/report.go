// Package report shapes record sets for the tabular report view and the
// export collaborators.
package report

import (
	"regexp"
	"strconv"

	"github.com/minasamy417/resultsboard/aggregate"
	"github.com/minasamy417/resultsboard/domain"
)

// DefaultPageSize matches the dashboard's incremental reveal step.
const DefaultPageSize = 50

// AbsentMark is the score cell text for an absence.
const AbsentMark = "غائب"

// Window returns the first pageSize*pageCount records. "Load more"
// increments pageCount; records are never skipped or reordered. Exports
// bypass Window and always receive the full set.
func Window(records []domain.Record, pageSize, pageCount int) []domain.Record {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageCount <= 0 {
		pageCount = 1
	}
	// Guard the product against overflow from oversized query params.
	if pageCount > len(records)/pageSize {
		return records
	}
	return records[:pageSize*pageCount]
}

// Row is the flat projection handed to the export collaborators and the
// table view.
type Row struct {
	Code              string `json:"code"`
	Name              string `json:"name"`
	Group             string `json:"group"`
	Course            string `json:"course"`
	Score             string `json:"score"`
	AttendancePercent int    `json:"attendance_percent"`
	Absent            bool   `json:"absent"`
	LowAttendance     bool   `json:"low_attendance"`
}

// Rows projects records to flat rows: attendance normalized to a rounded
// percentage, absences marked in the score column.
func Rows(records []domain.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		attendance := int(aggregate.NormalizeAttendance(r.Attendance) + 0.5)
		score := strconv.FormatFloat(r.Score, 'f', -1, 64)
		if r.Absent {
			score = AbsentMark
		}
		rows = append(rows, Row{
			Code:              r.Code,
			Name:              r.Name,
			Group:             r.Group,
			Course:            r.Course,
			Score:             score,
			AttendancePercent: attendance,
			Absent:            r.Absent,
			LowAttendance:     attendance < 50,
		})
	}
	return rows
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\x{0600}-\x{06FF} \-_]`)

// Filename derives a filesystem-safe download name from the report title
// and optional context title, keeping Arabic letters.
func Filename(title, contextTitle, ext string) string {
	clean := unsafeFilenameChars.ReplaceAllString(title, "_")
	if contextTitle != "" {
		cleanContext := unsafeFilenameChars.ReplaceAllString(contextTitle, "_")
		if runes := []rune(cleanContext); len(runes) > 50 {
			cleanContext = string(runes[:50])
		}
		clean = cleanContext + "_" + clean
	}
	return clean + "." + ext
}
