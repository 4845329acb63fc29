package domain

import "time"

// Record is one course/period observation for one person. Records are
// created by the data source and never mutated.
type Record struct {
	IdentityKey string  `json:"identity_key"`
	Code        string  `json:"code,omitempty"`
	Name        string  `json:"name"`
	Group       string  `json:"group"`
	Course      string  `json:"course"`
	Score       float64 `json:"score"`
	Absent      bool    `json:"absent"`
	// Attendance is either a 0..1 ratio or a 0..100 percentage,
	// depending on the source sheet. Consumers normalize.
	Attendance float64 `json:"attendance"`
}

// PersonSummary holds aggregated statistics for one identity across all
// of their records. Derived on demand, never persisted.
type PersonSummary struct {
	IdentityKey           string  `json:"identity_key"`
	Name                  string  `json:"name"`
	Group                 string  `json:"group"`
	CourseCount           int     `json:"course_count"`
	MeanScore             float64 `json:"mean_score"`
	MeanAttendancePercent float64 `json:"mean_attendance_percent"`
	AbsenceCount          int     `json:"absence_count"`
}

// BehavioralNote is an opaque per-person qualitative evaluation.
type BehavioralNote struct {
	IdentityKey string `json:"identity_key"`
	Note        string `json:"note"`
}

// BehavioralSet distinguishes "no behavioral data for this dataset" from
// "behavioral data present". The prompt builder branches on Present only.
type BehavioralSet struct {
	Present bool
	Notes   []BehavioralNote
}

// Session represents one chat session over a dataset.
type Session struct {
	SessionID string    `json:"session_id"`
	DatasetID string    `json:"dataset_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single entry in the append-only session log.
type Message struct {
	MessageID string    `json:"message_id"`
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
