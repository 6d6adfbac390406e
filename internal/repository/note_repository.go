package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/teachnotes/teachnotes-api/internal/models"
)

// NoteRepository handles persistence for notes.
type NoteRepository struct {
	db *sqlx.DB
}

// NewNoteRepository creates a new repository instance.
func NewNoteRepository(db *sqlx.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// FindByID returns a note by id.
func (r *NoteRepository) FindByID(ctx context.Context, id string) (*models.Note, error) {
	const query = `SELECT id, teacher_id, subject_id, title, topic, content, created_at, updated_at FROM notes WHERE id = $1`
	var note models.Note
	if err := r.db.GetContext(ctx, &note, query, id); err != nil {
		return nil, err
	}
	return &note, nil
}

// FindWithSubject returns a note joined with its parent subject's name.
func (r *NoteRepository) FindWithSubject(ctx context.Context, id string) (*models.NoteWithSubject, error) {
	const query = `SELECT n.id, n.teacher_id, n.subject_id, n.title, n.topic, n.content, n.created_at, n.updated_at,
		s.name AS subject_name
		FROM notes n JOIN subjects s ON s.id = n.subject_id WHERE n.id = $1`
	var note models.NoteWithSubject
	if err := r.db.GetContext(ctx, &note, query, id); err != nil {
		return nil, err
	}
	return &note, nil
}

// OwnerID returns only the owning teacher id for the note.
func (r *NoteRepository) OwnerID(ctx context.Context, id string) (string, error) {
	const query = `SELECT teacher_id FROM notes WHERE id = $1`
	var ownerID string
	if err := r.db.GetContext(ctx, &ownerID, query, id); err != nil {
		return "", err
	}
	return ownerID, nil
}

// ListBySubject returns a subject's notes, most recently updated first.
func (r *NoteRepository) ListBySubject(ctx context.Context, subjectID string) ([]models.Note, error) {
	const query = `SELECT id, teacher_id, subject_id, title, topic, content, created_at, updated_at FROM notes WHERE subject_id = $1 ORDER BY updated_at DESC`
	var notes []models.Note
	if err := r.db.SelectContext(ctx, &notes, query, subjectID); err != nil {
		return nil, fmt.Errorf("list notes by subject: %w", err)
	}
	return notes, nil
}

// ListRecentByTeacher returns the teacher's most recently updated notes with
// their subject names.
func (r *NoteRepository) ListRecentByTeacher(ctx context.Context, teacherID string, limit int) ([]models.NoteWithSubject, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `SELECT n.id, n.teacher_id, n.subject_id, n.title, n.topic, n.content, n.created_at, n.updated_at,
		s.name AS subject_name
		FROM notes n JOIN subjects s ON s.id = n.subject_id
		WHERE n.teacher_id = $1 ORDER BY n.updated_at DESC LIMIT $2`
	var notes []models.NoteWithSubject
	if err := r.db.SelectContext(ctx, &notes, query, teacherID, limit); err != nil {
		return nil, fmt.Errorf("list recent notes: %w", err)
	}
	return notes, nil
}

// Create persists a new note.
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	note.UpdatedAt = now

	const query = `INSERT INTO notes (id, teacher_id, subject_id, title, topic, content, created_at, updated_at) VALUES (:id, :teacher_id, :subject_id, :title, :topic, :content, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

// Update modifies a note's mutable fields.
func (r *NoteRepository) Update(ctx context.Context, note *models.Note) error {
	note.UpdatedAt = time.Now().UTC()
	const query = `UPDATE notes SET title = :title, topic = :topic, content = :content, subject_id = :subject_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, note); err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

// Delete removes a note record.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
