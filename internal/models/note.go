package models

import "time"

// Note is a teaching note attached to a subject. TeacherID is recorded at
// creation from the creating user and is the authoritative owner for later
// update/delete checks.
type Note struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	Title     string    `db:"title" json:"title"`
	Topic     string    `db:"topic" json:"topic"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NoteWithSubject embeds the parent subject reference for detail views.
type NoteWithSubject struct {
	Note
	SubjectName string `db:"subject_name" json:"-"`
}

// NoteDetail is the wire shape for note reads.
type NoteDetail struct {
	Note
	Subject SubjectRef `json:"subject"`
}

// Detail converts the joined row into the wire shape.
func (n NoteWithSubject) Detail() NoteDetail {
	return NoteDetail{
		Note:    n.Note,
		Subject: SubjectRef{ID: n.SubjectID, Name: n.SubjectName},
	}
}
