package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachnotes/teachnotes-api/internal/models"
)

func noteColumns() []string {
	return []string{"id", "teacher_id", "subject_id", "title", "topic", "content", "created_at", "updated_at"}
}

func TestNoteFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(noteColumns()).
		AddRow("n1", "u1", "s1", "Fractions", "Arithmetic", "Halves and quarters", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, subject_id, title, topic, content, created_at, updated_at FROM notes WHERE id = $1")).
		WithArgs("n1").
		WillReturnRows(rows)

	note, err := repo.FindByID(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "Fractions", note.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteFindWithSubject(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(append(noteColumns(), "subject_name")).
		AddRow("n1", "u1", "s1", "Fractions", "Arithmetic", "Halves and quarters", now, now, "Algebra")
	mock.ExpectQuery("SELECT n.id, n.teacher_id, n.subject_id").
		WithArgs("n1").
		WillReturnRows(rows)

	note, err := repo.FindWithSubject(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "Algebra", note.SubjectName)

	detail := note.Detail()
	assert.Equal(t, "s1", detail.Subject.ID)
	assert.Equal(t, "Algebra", detail.Subject.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteFindWithSubjectMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	mock.ExpectQuery("SELECT n.id, n.teacher_id, n.subject_id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindWithSubject(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestNoteOwnerID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT teacher_id FROM notes WHERE id = $1")).
		WithArgs("n1").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_id"}).AddRow("u1"))

	ownerID, err := repo.OwnerID(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "u1", ownerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteListBySubject(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(noteColumns()).
		AddRow("n2", "u1", "s1", "Decimals", "Arithmetic", "Place value", now, now).
		AddRow("n1", "u1", "s1", "Fractions", "Arithmetic", "Halves", now.Add(-time.Hour), now.Add(-time.Hour))
	mock.ExpectQuery("SELECT id, teacher_id, subject_id, title, topic, content, created_at, updated_at FROM notes WHERE subject_id").
		WithArgs("s1").
		WillReturnRows(rows)

	notes, err := repo.ListBySubject(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "Decimals", notes[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteListRecentByTeacher(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(append(noteColumns(), "subject_name")).
		AddRow("n1", "u1", "s1", "Fractions", "Arithmetic", "Halves", now, now, "Algebra")
	mock.ExpectQuery("SELECT n.id, n.teacher_id, n.subject_id").
		WithArgs("u1", 5).
		WillReturnRows(rows)

	notes, err := repo.ListRecentByTeacher(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Algebra", notes[0].SubjectName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	mock.ExpectExec("INSERT INTO notes").WillReturnResult(sqlmock.NewResult(1, 1))

	note := &models.Note{TeacherID: "u1", SubjectID: "s1", Title: "Fractions", Topic: "Arithmetic", Content: "Halves"}
	err := repo.Create(context.Background(), note)
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	mock.ExpectExec("UPDATE notes SET").WillReturnResult(sqlmock.NewResult(0, 1))

	note := &models.Note{ID: "n1", TeacherID: "u1", SubjectID: "s1", Title: "Fractions", Topic: "Arithmetic", Content: "Halves"}
	err := repo.Update(context.Background(), note)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNoteRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notes WHERE id = $1")).
		WithArgs("n1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "n1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
