package job

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofrs/uuid/v5"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicehub/internal/apperr"
)

var (
	testJobID    = uuid.Must(uuid.FromString("33333333-3333-4333-8333-333333333333"))
	testClientID = uuid.Must(uuid.FromString("55555555-5555-4555-8555-555555555555"))
	testReasonID = uuid.Must(uuid.FromString("77777777-7777-4777-8777-777777777777"))
)

func setupJobMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewRepository(sqlxDB), mock, func() { sqlxDB.Close() }
}

func jobRows(state string) *sqlmock.Rows {
	return sqlmock.NewRows(jobColumns).AddRow(
		testJobID.String(), testClientID.String(), uuid.Must(uuid.NewV4()).String(), nil, nil,
		"Fix the sink", "Kitchen sink leaks", "150.00",
		state, "open_to_quote", "public", nil, "", "{a.png,b.png}",
		time.Now(), time.Now(),
	)
}

func TestCreate(t *testing.T) {
	repo, mock, close := setupJobMock(t)
	defer close()

	j := &Job{
		ID:             testJobID,
		ClientID:       testClientID,
		Title:          "Fix the sink",
		Price:          decimal.NewFromInt(150),
		State:          StateOpen,
		QuotationState: QuotationOpenToQuote,
		ViewState:      ViewPublic,
	}

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO jobs")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), j))
	assert.Equal(t, now, j.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	repo, mock, close := setupJobMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM jobs WHERE id = $1")).
		WithArgs(testJobID).
		WillReturnRows(jobRows("open"))

	j, err := repo.GetByID(context.Background(), testJobID)
	require.NoError(t, err)
	assert.Equal(t, StateOpen, j.State)
	assert.Nil(t, j.CategoryID)
	assert.Equal(t, []string{"a.png", "b.png"}, []string(j.Images))
	assert.True(t, j.Price.Equal(decimal.NewFromInt(150)))
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, close := setupJobMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM jobs WHERE id = $1")).
		WithArgs(testJobID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), testJobID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMarkBooked_AlreadyBooked(t *testing.T) {
	repo, mock, close := setupJobMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("SET state = 'booked', updated_at = NOW() WHERE id = $1 AND state = 'open'")).
		WithArgs(testJobID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkBooked(context.Background(), testJobID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestMarkBooked(t *testing.T) {
	repo, mock, close := setupJobMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("SET state = 'booked'")).
		WithArgs(testJobID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.MarkBooked(context.Background(), testJobID))
}

func TestMarkQuoted_Idempotent(t *testing.T) {
	repo, mock, close := setupJobMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("SET quotation_state = 'quoted'")).
		WithArgs(testJobID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.MarkQuoted(context.Background(), testJobID))
}

func TestClose(t *testing.T) {
	repo, mock, close := setupJobMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("SET state = 'closed', cancel_reason_id = $2, cancel_description = $3")).
		WithArgs(testJobID, testReasonID, "changed my mind").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Close(context.Background(), testJobID, testReasonID, "changed my mind"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByClient_StateFilter(t *testing.T) {
	repo, mock, close := setupJobMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM jobs WHERE client_id = $1 AND state = $2 ORDER BY created_at DESC")).
		WithArgs(testClientID, "open").
		WillReturnRows(jobRows("open"))

	jobs, err := repo.ListByClient(context.Background(), testClientID, StateOpen)
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}
