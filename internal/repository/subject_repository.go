package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/teachnotes/teachnotes-api/internal/models"
)

// SubjectRepository handles persistence for subjects.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new repository instance.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// FindByID returns a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	const query = `SELECT id, teacher_id, name, description, created_at, updated_at FROM subjects WHERE id = $1`
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// OwnerID returns only the owning teacher id for the subject.
func (r *SubjectRepository) OwnerID(ctx context.Context, id string) (string, error) {
	const query = `SELECT teacher_id FROM subjects WHERE id = $1`
	var ownerID string
	if err := r.db.GetContext(ctx, &ownerID, query, id); err != nil {
		return "", err
	}
	return ownerID, nil
}

// ListRefsByTeacher returns id+name pairs of the teacher's subjects.
func (r *SubjectRepository) ListRefsByTeacher(ctx context.Context, teacherID string) ([]models.SubjectRef, error) {
	const query = `SELECT id, name FROM subjects WHERE teacher_id = $1 ORDER BY name ASC`
	var refs []models.SubjectRef
	if err := r.db.SelectContext(ctx, &refs, query, teacherID); err != nil {
		return nil, fmt.Errorf("list subject refs: %w", err)
	}
	return refs, nil
}

// ListOverviewsByTeacher returns the teacher's subjects with note counts,
// most recently updated first.
func (r *SubjectRepository) ListOverviewsByTeacher(ctx context.Context, teacherID string) ([]models.SubjectOverview, error) {
	const query = `SELECT s.id, s.teacher_id, s.name, s.description, s.created_at, s.updated_at,
		(SELECT COUNT(*) FROM notes n WHERE n.subject_id = s.id) AS note_count
		FROM subjects s WHERE s.teacher_id = $1 ORDER BY s.updated_at DESC`
	var subjects []models.SubjectOverview
	if err := r.db.SelectContext(ctx, &subjects, query, teacherID); err != nil {
		return nil, fmt.Errorf("list subject overviews: %w", err)
	}
	return subjects, nil
}

// ListAllOverviews returns every subject with its teacher name and note
// count, ordered by name.
func (r *SubjectRepository) ListAllOverviews(ctx context.Context) ([]models.SubjectOverview, error) {
	const query = `SELECT s.id, s.teacher_id, s.name, s.description, s.created_at, s.updated_at,
		u.full_name AS teacher_name,
		(SELECT COUNT(*) FROM notes n WHERE n.subject_id = s.id) AS note_count
		FROM subjects s JOIN users u ON u.id = s.teacher_id ORDER BY s.name ASC`
	var subjects []models.SubjectOverview
	if err := r.db.SelectContext(ctx, &subjects, query); err != nil {
		return nil, fmt.Errorf("list all subjects: %w", err)
	}
	return subjects, nil
}

// Create persists a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now

	const query = `INSERT INTO subjects (id, teacher_id, name, description, created_at, updated_at) VALUES (:id, :teacher_id, :name, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update modifies a subject's name and description.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET name = :name, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// Delete removes a subject record. Notes cascade at the schema level.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}
