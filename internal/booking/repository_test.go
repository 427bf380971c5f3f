package booking

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
	testBookingID  = uuid.Must(uuid.FromString("99999999-9999-4999-8999-999999999999"))
	testClientID   = uuid.Must(uuid.FromString("55555555-5555-4555-8555-555555555555"))
	testProviderID = uuid.Must(uuid.FromString("44444444-4444-4444-8444-444444444444"))
)

var bookingCols = []string{
	"id", "job_id", "quotation_id", "client_id", "service_provider_id", "conversation_id", "state",
	"request_work_state", "final_price", "total_trying_to_start", "total_trying_to_finish",
	"client_reviewed", "provider_reviewed", "client_rating", "provider_rating", "created_at", "updated_at",
}

func setupBookingMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewRepository(sqlxDB), mock, func() { sqlxDB.Close() }
}

func bookingRow(state, work string) *sqlmock.Rows {
	return sqlmock.NewRows(bookingCols).AddRow(
		testBookingID.String(), uuid.Must(uuid.NewV4()).String(), uuid.Must(uuid.NewV4()).String(),
		testClientID.String(), testProviderID.String(), uuid.Must(uuid.NewV4()).String(), state,
		work, "500.00", 1, 0, false, false, nil, nil, time.Now(), time.Now(),
	)
}

func TestCreate(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	b := &Booking{
		ID:               testBookingID,
		ClientID:         testClientID,
		State:            StatePending,
		RequestWorkState: WorkUpcoming,
		FinalPrice:       decimal.NewFromInt(500),
	}

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), b))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDForUpdate(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1 FOR UPDATE")).
		WithArgs(testBookingID).
		WillReturnRows(bookingRow("pending", "request_start"))

	b, err := repo.GetByIDForUpdate(context.Background(), testBookingID)
	require.NoError(t, err)
	assert.Equal(t, WorkRequestStart, b.RequestWorkState)
	assert.Equal(t, 1, b.TotalTryingToStart)
	assert.Nil(t, b.ClientRating)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs(testBookingID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), testBookingID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSaveProgress(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	conversationID := uuid.Must(uuid.NewV4())
	b := &Booking{ID: testBookingID, State: StateCompleted, RequestWorkState: WorkCompleted,
		TotalTryingToStart: 2, TotalTryingToFinish: 1, ConversationID: conversationID}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WithArgs(testBookingID, StateCompleted, WorkCompleted, 2, 1, conversationID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveProgress(context.Background(), b))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByRequestState(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT request_work_state, COUNT(*) AS total FROM bookings WHERE client_id = $1 AND request_work_state IN ($2,$3) GROUP BY request_work_state")).
		WithArgs(testClientID, "request_start", "request_finish").
		WillReturnRows(sqlmock.NewRows([]string{"request_work_state", "total"}).
			AddRow("request_start", 2).
			AddRow("request_finish", 1))

	counts, err := repo.CountByRequestState(context.Background(), testClientID)
	require.NoError(t, err)
	assert.Equal(t, RequestCounts{RequestStart: 2, RequestFinish: 1}, counts)
}

func TestListByUser(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (client_id = $1 OR service_provider_id = $2) AND request_work_state = $3 ORDER BY created_at DESC")).
		WithArgs(testClientID, testClientID, "running").
		WillReturnRows(bookingRow("active", "running"))

	bookings, err := repo.ListByUser(context.Background(), testClientID, WorkRunning)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, StateActive, bookings[0].State)
}

func TestMarkDisputed(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("SET state = 'dispute', request_work_state = 'dispute'")).
		WithArgs(testBookingID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkDisputed(context.Background(), testBookingID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSaveReview_AlreadyReviewed(t *testing.T) {
	repo, mock, close := setupBookingMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("SET provider_reviewed = TRUE, provider_rating = $2")).
		WithArgs(testBookingID, 4).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveReview(context.Background(), testBookingID, false, 4)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}
