package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/teachnotes/teachnotes-api/internal/models"
	appErrors "github.com/teachnotes/teachnotes-api/pkg/errors"
)

type noteRepository interface {
	FindByID(ctx context.Context, id string) (*models.Note, error)
	FindWithSubject(ctx context.Context, id string) (*models.NoteWithSubject, error)
	OwnerID(ctx context.Context, id string) (string, error)
	Create(ctx context.Context, note *models.Note) error
	Update(ctx context.Context, note *models.Note) error
	Delete(ctx context.Context, id string) error
}

type noteSubjectRepository interface {
	OwnerID(ctx context.Context, id string) (string, error)
}

// NoteRequest captures the note form fields for create and update.
type NoteRequest struct {
	Title     string `form:"title" validate:"required"`
	Content   string `form:"content" validate:"required"`
	Topic     string `form:"topic" validate:"required"`
	SubjectID string `form:"subject" validate:"required"`
}

// NoteService handles note workflows and their ownership policy.
type NoteService struct {
	repo      noteRepository
	subjects  noteSubjectRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(repo noteRepository, subjects noteSubjectRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *NoteService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoteService{repo: repo, subjects: subjects, cache: cache, validator: validate, logger: logger}
}

// Get returns the note with its subject reference; only the owner may read it.
func (s *NoteService) Get(ctx context.Context, userID, id string) (*models.NoteDetail, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}

	note, err := s.repo.FindWithSubject(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "note not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load note")
	}
	if note.TeacherID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}

	detail := note.Detail()
	return &detail, nil
}

// Create adds a note to a subject the acting user owns. The gate runs against
// the parent subject's owner; the created note records the acting user as its
// own authoritative owner.
func (s *NoteService) Create(ctx context.Context, userID string, req NoteRequest) (*models.Note, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	if err := authorizeOwner(ctx, s.subjects.OwnerID, req.SubjectID, userID, "subject", "add notes to this subject"); err != nil {
		return nil, err
	}

	note := &models.Note{
		TeacherID: userID,
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Topic:     req.Topic,
		Content:   req.Content,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		s.logger.Error("create note failed", zap.String("subject_id", req.SubjectID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create note")
	}

	s.invalidate(ctx, userID)
	return note, nil
}

// Update modifies a note after the ownership gate passes against the note's
// own recorded owner. Identity is checked before field validation so
// anonymous callers always get the unauthenticated error.
func (s *NoteService) Update(ctx context.Context, userID, id string, req NoteRequest) (*models.Note, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	if err := authorizeOwner(ctx, s.repo.OwnerID, id, userID, "note", "update this note"); err != nil {
		return nil, err
	}

	note := &models.Note{
		ID:        id,
		TeacherID: userID,
		SubjectID: req.SubjectID,
		Title:     req.Title,
		Topic:     req.Topic,
		Content:   req.Content,
	}

	if err := s.repo.Update(ctx, note); err != nil {
		s.logger.Error("update note failed", zap.String("note_id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update note")
	}

	s.invalidate(ctx, userID)
	return note, nil
}

// Delete removes a note after the ownership gate passes. It returns the
// parent subject id so the caller can navigate back to the subject.
func (s *NoteService) Delete(ctx context.Context, userID, id string) (string, error) {
	if userID == "" {
		return "", appErrors.ErrUnauthenticated
	}

	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "note not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load note")
	}
	if note.TeacherID != userID {
		return "", appErrors.Clone(appErrors.ErrForbidden, "you do not have permission to delete this note")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete note failed", zap.String("note_id", id), zap.Error(err))
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete note")
	}

	s.invalidate(ctx, userID)
	return note.SubjectID, nil
}

func (s *NoteService) invalidate(ctx context.Context, userID string) {
	_ = s.cache.Invalidate(ctx, subjectsAllCacheKey)
	_ = s.cache.Invalidate(ctx, dashboardCacheKey(userID))
}
