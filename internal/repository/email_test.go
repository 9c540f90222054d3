package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mail-triage-go/internal/model"
)

var emailColumns = []string{
	"id", "received_at", "from_email", "sender", "subject", "snippet",
	"category", "status", "matched_rule_id", "suggested_answer", "auto_tag",
	"created_at", "updated_at",
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func emailRow(id, status, category string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(emailColumns).
		AddRow(id, nil, "alice@example.com", "Alice", "Invoice due", "Where is it?",
			category, status, nil, nil, nil, now, now)
}

func TestGetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmailRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `emails`").
		WillReturnRows(sqlmock.NewRows(emailColumns))

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrEmailNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmailRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM `emails`").
		WillReturnRows(emailRow("e1", model.StatusOpen, ""))

	email, err := repo.Get(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "e1", email.ID)
	assert.Equal(t, model.StatusOpen, email.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDefaultsIDAndStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmailRepository(db)

	mock.ExpectExec("INSERT INTO `emails`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	email := model.Email{}
	require.NoError(t, repo.Create(context.Background(), &email))

	assert.NotEmpty(t, email.ID)
	assert.Equal(t, model.StatusOpen, email.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearSuggestionResetsTripleInOneUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmailRepository(db)

	// All three suggestion fields reset by a single statement.
	mock.ExpectExec("UPDATE `emails` SET `auto_tag`=(.+)`matched_rule_id`=(.+)`suggested_answer`=(.+)WHERE id = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.ClearSuggestion(context.Background(), "e1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSuggestionWritesAnswerAndCategoryTogether(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmailRepository(db)

	mock.ExpectExec("UPDATE `emails` SET `category`=(.+)`suggested_answer`=(.+)WHERE id = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveSuggestion(context.Background(), "e1", "Here you go."))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmailRepository(db)

	mock.ExpectExec("UPDATE `emails` SET `status`=(.+)WHERE id = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "e1", model.StatusCompleted))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersNewestFirstBeforeLimit(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewEmailRepository(db)

	// The order must be applied before the limit so a truncated load
	// keeps the most recent rows rather than an arbitrary subset.
	rows := emailRow("e1", model.StatusOpen, "")
	mock.ExpectQuery("SELECT (.+) FROM `emails` ORDER BY COALESCE\\(received_at, created_at\\) DESC LIMIT (.+)").
		WillReturnRows(rows)

	emails, err := repo.List(context.Background(), 20)
	require.NoError(t, err)
	assert.Len(t, emails, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
