package models

import "time"

// Subject is a course of study owned by exactly one teacher.
type Subject struct {
	ID          string    `db:"id" json:"id"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectRef is the minimal subject identity exposed in listings and embeds.
type SubjectRef struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// SubjectOverview is a subject joined with its note count and owner name,
// used by the dashboard and the all-subjects listing.
type SubjectOverview struct {
	Subject
	TeacherName string `db:"teacher_name" json:"teacher_name,omitempty"`
	NoteCount   int    `db:"note_count" json:"note_count"`
}
