package suggest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mail-triage-go/config"
	"mail-triage-go/internal/ai"
	"mail-triage-go/internal/metrics"
	"mail-triage-go/internal/model"
	"mail-triage-go/internal/repository"
)

var emailColumns = []string{
	"id", "received_at", "from_email", "sender", "subject", "snippet",
	"category", "status", "matched_rule_id", "suggested_answer", "auto_tag",
	"created_at", "updated_at",
}

type testFixture struct {
	generator *Generator
	mock      sqlmock.Sqlmock
	calls     *int64
}

func newFixture(t *testing.T, handler http.HandlerFunc) *testFixture {
	t.Helper()

	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

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

	client := ai.NewClient(config.OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	m := metrics.NewMetricsWith(prometheus.NewRegistry())

	return &testFixture{
		generator: NewGenerator(repository.NewEmailRepository(db), client, m),
		mock:      mock,
		calls:     &calls,
	}
}

func okCompletion(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"c1","choices":[{"message":{"role":"assistant","content":"` + content + `"}}]}`))
	}
}

func emailRow(id string, suggestion *string) *sqlmock.Rows {
	now := time.Now()
	var suggested interface{}
	if suggestion != nil {
		suggested = *suggestion
	}
	return sqlmock.NewRows(emailColumns).
		AddRow(id, nil, "alice@example.com", "Alice", "Invoice due", "Where is my invoice?",
			"", model.StatusOpen, nil, suggested, nil, now, now)
}

func TestSuggestGeneratesAndPersists(t *testing.T) {
	f := newFixture(t, okCompletion("Your invoice is on its way."))

	f.mock.ExpectQuery("SELECT (.+) FROM `emails`").
		WillReturnRows(emailRow("e1", nil))
	f.mock.ExpectExec("UPDATE `emails` SET `category`=(.+)`suggested_answer`=(.+)WHERE id = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))

	suggested, err := f.generator.Suggest(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Your invoice is on its way.", suggested)
	assert.Equal(t, int64(1), atomic.LoadInt64(f.calls))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSuggestIdempotentOnExistingSuggestion(t *testing.T) {
	f := newFixture(t, okCompletion("should never be used"))

	existing := "Already drafted."
	f.mock.ExpectQuery("SELECT (.+) FROM `emails`").
		WillReturnRows(emailRow("e1", &existing))

	suggested, err := f.generator.Suggest(context.Background(), "e1")
	require.NoError(t, err)

	// Stored value returned unchanged, no external call, no write.
	assert.Equal(t, existing, suggested)
	assert.Equal(t, int64(0), atomic.LoadInt64(f.calls))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSuggestTwiceGeneratesAtMostOnce(t *testing.T) {
	f := newFixture(t, okCompletion("Drafted once."))

	f.mock.ExpectQuery("SELECT (.+) FROM `emails`").
		WillReturnRows(emailRow("e1", nil))
	f.mock.ExpectExec("UPDATE `emails`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	first, err := f.generator.Suggest(context.Background(), "e1")
	require.NoError(t, err)

	stored := first
	f.mock.ExpectQuery("SELECT (.+) FROM `emails`").
		WillReturnRows(emailRow("e1", &stored))

	second, err := f.generator.Suggest(context.Background(), "e1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(f.calls))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSuggestFallsBackOnEmptyContent(t *testing.T) {
	f := newFixture(t, okCompletion(""))

	f.mock.ExpectQuery("SELECT (.+) FROM `emails`").
		WillReturnRows(emailRow("e1", nil))
	f.mock.ExpectExec("UPDATE `emails`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	suggested, err := f.generator.Suggest(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, suggested)
	assert.NotEmpty(t, suggested)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSuggestFallsBackOnGenerationError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	f.mock.ExpectQuery("SELECT (.+) FROM `emails`").
		WillReturnRows(emailRow("e1", nil))
	f.mock.ExpectExec("UPDATE `emails`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Generation failure is recovered locally, not propagated.
	suggested, err := f.generator.Suggest(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, suggested)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSuggestNotFound(t *testing.T) {
	f := newFixture(t, okCompletion("unused"))

	f.mock.ExpectQuery("SELECT (.+) FROM `emails`").
		WillReturnRows(sqlmock.NewRows(emailColumns))

	_, err := f.generator.Suggest(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrEmailNotFound)
	assert.Equal(t, int64(0), atomic.LoadInt64(f.calls))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestSuggestPropagatesStoreFailure(t *testing.T) {
	f := newFixture(t, okCompletion("Drafted."))

	f.mock.ExpectQuery("SELECT (.+) FROM `emails`").
		WillReturnRows(emailRow("e1", nil))
	f.mock.ExpectExec("UPDATE `emails`").
		WillReturnError(assert.AnError)

	_, err := f.generator.Suggest(context.Background(), "e1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrEmailNotFound)
}
