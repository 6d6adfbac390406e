package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/teachnotes/teachnotes-api/internal/models"
	appErrors "github.com/teachnotes/teachnotes-api/pkg/errors"
)

const recentNoteLimit = 5

type dashboardSubjectRepository interface {
	ListOverviewsByTeacher(ctx context.Context, teacherID string) ([]models.SubjectOverview, error)
}

type dashboardNoteRepository interface {
	ListRecentByTeacher(ctx context.Context, teacherID string, limit int) ([]models.NoteWithSubject, error)
}

// DashboardOverview aggregates the teacher's subjects and most recent notes.
type DashboardOverview struct {
	Subjects    []models.SubjectOverview `json:"subjects"`
	RecentNotes []models.NoteDetail      `json:"recent_notes"`
}

// DashboardService assembles the per-teacher dashboard payload.
type DashboardService struct {
	subjects dashboardSubjectRepository
	notes    dashboardNoteRepository
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(subjects dashboardSubjectRepository, notes dashboardNoteRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{subjects: subjects, notes: notes, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Overview returns the teacher's subjects with note counts plus the most
// recent notes, served from cache when possible.
func (s *DashboardService) Overview(ctx context.Context, userID string) (*DashboardOverview, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthenticated
	}

	key := dashboardCacheKey(userID)
	var cached DashboardOverview
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	subjects, err := s.subjects.ListOverviewsByTeacher(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard subjects")
	}
	if subjects == nil {
		subjects = []models.SubjectOverview{}
	}

	recent, err := s.notes.ListRecentByTeacher(ctx, userID, recentNoteLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load recent notes")
	}

	overview := &DashboardOverview{
		Subjects:    subjects,
		RecentNotes: make([]models.NoteDetail, 0, len(recent)),
	}
	for _, note := range recent {
		overview.RecentNotes = append(overview.RecentNotes, note.Detail())
	}

	_ = s.cache.Set(ctx, key, overview, s.cacheTTL)
	return overview, nil
}
