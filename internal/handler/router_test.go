package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teachnotes/teachnotes-api/internal/middleware"
	"github.com/teachnotes/teachnotes-api/internal/models"
	"github.com/teachnotes/teachnotes-api/internal/service"
	"github.com/teachnotes/teachnotes-api/pkg/config"
)

// store is shared in-memory state backing the per-entity test repositories.
type store struct {
	users    map[string]*models.User
	subjects map[string]*models.Subject
	notes    map[string]*models.Note
}

func newStore() *store {
	return &store{
		users:    make(map[string]*models.User),
		subjects: make(map[string]*models.Subject),
		notes:    make(map[string]*models.Note),
	}
}

type memUsers struct{ s *store }

func (m memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m memUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := m.s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, user := range m.s.users {
		if strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m memUsers) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	m.s.users[user.ID] = user
	return nil
}

type memSubjects struct{ s *store }

func (m memSubjects) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	subject, ok := m.s.subjects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return subject, nil
}

func (m memSubjects) OwnerID(ctx context.Context, id string) (string, error) {
	subject, ok := m.s.subjects[id]
	if !ok {
		return "", sql.ErrNoRows
	}
	return subject.TeacherID, nil
}

func (m memSubjects) ListRefsByTeacher(ctx context.Context, teacherID string) ([]models.SubjectRef, error) {
	var refs []models.SubjectRef
	for _, subject := range m.s.subjects {
		if subject.TeacherID == teacherID {
			refs = append(refs, models.SubjectRef{ID: subject.ID, Name: subject.Name})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

func (m memSubjects) ListOverviewsByTeacher(ctx context.Context, teacherID string) ([]models.SubjectOverview, error) {
	var overviews []models.SubjectOverview
	for _, subject := range m.s.subjects {
		if subject.TeacherID != teacherID {
			continue
		}
		overviews = append(overviews, models.SubjectOverview{Subject: *subject, NoteCount: m.noteCount(subject.ID)})
	}
	return overviews, nil
}

func (m memSubjects) ListAllOverviews(ctx context.Context) ([]models.SubjectOverview, error) {
	var overviews []models.SubjectOverview
	for _, subject := range m.s.subjects {
		overview := models.SubjectOverview{Subject: *subject, NoteCount: m.noteCount(subject.ID)}
		if teacher, ok := m.s.users[subject.TeacherID]; ok {
			overview.TeacherName = teacher.FullName
		}
		overviews = append(overviews, overview)
	}
	sort.Slice(overviews, func(i, j int) bool { return overviews[i].Name < overviews[j].Name })
	return overviews, nil
}

func (m memSubjects) noteCount(subjectID string) int {
	count := 0
	for _, note := range m.s.notes {
		if note.SubjectID == subjectID {
			count++
		}
	}
	return count
}

func (m memSubjects) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	m.s.subjects[subject.ID] = subject
	return nil
}

func (m memSubjects) Update(ctx context.Context, subject *models.Subject) error {
	m.s.subjects[subject.ID] = subject
	return nil
}

func (m memSubjects) Delete(ctx context.Context, id string) error {
	delete(m.s.subjects, id)
	for noteID, note := range m.s.notes {
		if note.SubjectID == id {
			delete(m.s.notes, noteID)
		}
	}
	return nil
}

type memNotes struct{ s *store }

func (m memNotes) FindByID(ctx context.Context, id string) (*models.Note, error) {
	note, ok := m.s.notes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return note, nil
}

func (m memNotes) FindWithSubject(ctx context.Context, id string) (*models.NoteWithSubject, error) {
	note, ok := m.s.notes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	joined := models.NoteWithSubject{Note: *note}
	if subject, ok := m.s.subjects[note.SubjectID]; ok {
		joined.SubjectName = subject.Name
	}
	return &joined, nil
}

func (m memNotes) OwnerID(ctx context.Context, id string) (string, error) {
	note, ok := m.s.notes[id]
	if !ok {
		return "", sql.ErrNoRows
	}
	return note.TeacherID, nil
}

func (m memNotes) ListBySubject(ctx context.Context, subjectID string) ([]models.Note, error) {
	var notes []models.Note
	for _, note := range m.s.notes {
		if note.SubjectID == subjectID {
			notes = append(notes, *note)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].UpdatedAt.After(notes[j].UpdatedAt) })
	return notes, nil
}

func (m memNotes) ListRecentByTeacher(ctx context.Context, teacherID string, limit int) ([]models.NoteWithSubject, error) {
	var notes []models.NoteWithSubject
	for _, note := range m.s.notes {
		if note.TeacherID != teacherID {
			continue
		}
		joined := models.NoteWithSubject{Note: *note}
		if subject, ok := m.s.subjects[note.SubjectID]; ok {
			joined.SubjectName = subject.Name
		}
		notes = append(notes, joined)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].UpdatedAt.After(notes[j].UpdatedAt) })
	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return notes, nil
}

func (m memNotes) Create(ctx context.Context, note *models.Note) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	m.s.notes[note.ID] = note
	return nil
}

func (m memNotes) Update(ctx context.Context, note *models.Note) error {
	m.s.notes[note.ID] = note
	return nil
}

func (m memNotes) Delete(ctx context.Context, id string) error {
	delete(m.s.notes, id)
	return nil
}

// setupRouter wires the full middleware chain and routes against in-memory
// repositories, mirroring the server assembly.
func setupRouter(t *testing.T) (*gin.Engine, *store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := newStore()
	logr := zap.NewNop()
	cache := service.NewCacheService(nil, nil, 0, logr, false)

	authSvc := service.NewAuthService(memUsers{st}, nil, logr)
	subjectSvc := service.NewSubjectService(memSubjects{st}, memNotes{st}, cache, 0, nil, logr)
	noteSvc := service.NewNoteService(memNotes{st}, memSubjects{st}, cache, nil, logr)
	dashboardSvc := service.NewDashboardService(memSubjects{st}, memNotes{st}, cache, 0, logr)

	sessions := middleware.NewSessionManager(config.SessionConfig{CookieName: "session_id", TTL: 7 * 24 * time.Hour}, config.EnvDevelopment)

	authHandler := NewAuthHandler(authSvc, sessions)
	subjectHandler := NewSubjectHandler(subjectSvc)
	noteHandler := NewNoteHandler(noteSvc)
	dashboardHandler := NewDashboardHandler(dashboardSvc)

	r := gin.New()
	r.Use(middleware.CurrentUser(sessions, authSvc))
	r.Use(middleware.RouteGuard(sessions, []string{"/", "/login", "/register"}, []string{"/api/", "/auth/"}))

	r.POST("/auth/register", authHandler.Register)
	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/logout", authHandler.Logout)

	r.GET("/api/me", authHandler.Me)
	r.GET("/api/dashboard", dashboardHandler.Overview)
	r.GET("/api/subjects", subjectHandler.ListOwned)
	r.GET("/api/subjects/all", subjectHandler.ListAll)
	r.GET("/api/subjects/:id", subjectHandler.Get)
	r.GET("/api/notes/:id", noteHandler.Get)

	r.POST("/subjects", subjectHandler.Create)
	r.POST("/subjects/:id", subjectHandler.Update)
	r.POST("/subjects/:id/delete", subjectHandler.Delete)
	r.POST("/notes", noteHandler.Create)
	r.POST("/notes/:id", noteHandler.Update)
	r.POST("/notes/:id/delete", noteHandler.Delete)

	return r, st
}

func postForm(r *gin.Engine, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	r.ServeHTTP(rec, req)
	return rec
}

func getJSON(r *gin.Engine, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	r.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session_id" && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func registerUser(t *testing.T, r *gin.Engine, name, email string) *http.Cookie {
	t.Helper()
	rec := postForm(r, "/auth/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {"password"},
	}, nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("register failed with status %d: %s", rec.Code, rec.Body.String())
	}
	return sessionCookie(t, rec)
}
