package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/teachnotes/teachnotes-api/internal/models"
	appErrors "github.com/teachnotes/teachnotes-api/pkg/errors"
)

type subjectRepository interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
	OwnerID(ctx context.Context, id string) (string, error)
	ListRefsByTeacher(ctx context.Context, teacherID string) ([]models.SubjectRef, error)
	ListAllOverviews(ctx context.Context) ([]models.SubjectOverview, error)
	Create(ctx context.Context, subject *models.Subject) error
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id string) error
}

type subjectNoteRepository interface {
	ListBySubject(ctx context.Context, subjectID string) ([]models.Note, error)
}

// SubjectRequest captures the subject form fields for create and update.
type SubjectRequest struct {
	Name        string `form:"name" validate:"required"`
	Description string `form:"description"`
}

// SubjectDetail is a subject with its notes, newest first.
type SubjectDetail struct {
	models.Subject
	Notes []models.Note `json:"notes"`
}

// SubjectService handles subject workflows and their ownership policy.
type SubjectService struct {
	repo      subjectRepository
	notes     subjectNoteRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService creates a new subject service.
func NewSubjectService(repo subjectRepository, notes subjectNoteRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, notes: notes, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// ListOwnedRefs returns id+name pairs of the user's subjects.
func (s *SubjectService) ListOwnedRefs(ctx context.Context, userID string) ([]models.SubjectRef, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	refs, err := s.repo.ListRefsByTeacher(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	if refs == nil {
		refs = []models.SubjectRef{}
	}
	return refs, nil
}

// ListAll returns every subject with teacher name and note count.
func (s *SubjectService) ListAll(ctx context.Context, userID string) ([]models.SubjectOverview, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}

	var cached []models.SubjectOverview
	if hit, _ := s.cache.Get(ctx, subjectsAllCacheKey, &cached); hit {
		return cached, nil
	}

	subjects, err := s.repo.ListAllOverviews(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}
	if subjects == nil {
		subjects = []models.SubjectOverview{}
	}

	_ = s.cache.Set(ctx, subjectsAllCacheKey, subjects, s.cacheTTL)
	return subjects, nil
}

// Get returns the subject with its notes; only the owner may read it.
func (s *SubjectService) Get(ctx context.Context, userID, id string) (*SubjectDetail, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}

	subject, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if subject.TeacherID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}

	notes, err := s.notes.ListBySubject(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject notes")
	}
	if notes == nil {
		notes = []models.Note{}
	}

	return &SubjectDetail{Subject: *subject, Notes: notes}, nil
}

// Create adds a subject owned by the acting user.
func (s *SubjectService) Create(ctx context.Context, userID string, req SubjectRequest) (*models.Subject, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	subject := &models.Subject{
		TeacherID:   userID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, subject); err != nil {
		s.logger.Error("create subject failed", zap.String("teacher_id", userID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create subject")
	}

	s.invalidate(ctx, userID)
	return subject, nil
}

// Update modifies a subject after the ownership gate passes. Identity is
// checked before field validation so anonymous callers always get the
// unauthenticated error.
func (s *SubjectService) Update(ctx context.Context, userID, id string, req SubjectRequest) (*models.Subject, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	if err := authorizeOwner(ctx, s.repo.OwnerID, id, userID, "subject", "update this subject"); err != nil {
		return nil, err
	}

	subject := &models.Subject{
		ID:          id,
		TeacherID:   userID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.Update(ctx, subject); err != nil {
		s.logger.Error("update subject failed", zap.String("subject_id", id), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}

	s.invalidate(ctx, userID)
	return subject, nil
}

// Delete removes a subject after the ownership gate passes. Its notes go
// with it via the schema cascade.
func (s *SubjectService) Delete(ctx context.Context, userID, id string) error {
	if err := authorizeOwner(ctx, s.repo.OwnerID, id, userID, "subject", "delete this subject"); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete subject failed", zap.String("subject_id", id), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete subject")
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *SubjectService) invalidate(ctx context.Context, userID string) {
	_ = s.cache.Invalidate(ctx, subjectsAllCacheKey)
	_ = s.cache.Invalidate(ctx, dashboardCacheKey(userID))
}

const subjectsAllCacheKey = "subjects:all"

func dashboardCacheKey(userID string) string {
	return fmt.Sprintf("dashboard:%s", userID)
}
