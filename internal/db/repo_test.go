package db

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drspecialist/pkg"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewRepository(conn, NewNotifier(conn, "urgent_inquiries")), mock
}

func TestRecord_Success(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO specialist_inquiries").
		WithArgs("id-1", "success", "Dermatologist", "Skin, Hair & Nails", false, int64(840), created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Record(context.Background(), pkg.Inquiry{
		ID:             "id-1",
		Outcome:        pkg.OutcomeSuccess,
		SpecialistName: "Dermatologist",
		Category:       "Skin, Hair & Nails",
		LatencyMS:      840,
		CreatedAt:      created,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_UrgentNotifies(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	payload, err := json.Marshal(UrgentNotice{
		InquiryID:      "id-2",
		SpecialistName: "Cardiologist",
		Category:       "Heart & Blood Vessels",
		CreatedAt:      created,
	})
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO specialist_inquiries").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`SELECT pg_notify\(\$1, \$2\)`).
		WithArgs("urgent_inquiries", string(payload)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Record(context.Background(), pkg.Inquiry{
		ID:             "id-2",
		Outcome:        pkg.OutcomeSuccess,
		SpecialistName: "Cardiologist",
		Category:       "Heart & Blood Vessels",
		Urgent:         true,
		CreatedAt:      created,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_AssignsIDAndTime(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("INSERT INTO specialist_inquiries").
		WithArgs(sqlmock.AnyArg(), "failure", "", "", false, int64(0), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Record(context.Background(), pkg.Inquiry{Outcome: pkg.OutcomeFailure}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_InsertError(t *testing.T) {
	repo, mock := newMock(t)
	dbErr := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO specialist_inquiries").WillReturnError(dbErr)

	err := repo.Record(context.Background(), pkg.Inquiry{Outcome: pkg.OutcomeFailure, Urgent: true})
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpecialistStats(t *testing.T) {
	repo, mock := newMock(t)
	rows := sqlmock.NewRows([]string{"specialist_name", "category", "total", "urgent"}).
		AddRow("Cardiologist", "Heart & Blood Vessels", 12, 5).
		AddRow("Dermatologist", "Skin, Hair & Nails", 7, 0)
	mock.ExpectQuery("SELECT specialist_name, category, COUNT").
		WithArgs(10).
		WillReturnRows(rows)

	stats, err := repo.SpecialistStats(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []pkg.SpecialistCount{
		{SpecialistName: "Cardiologist", Category: "Heart & Blood Vessels", Total: 12, Urgent: 5},
		{SpecialistName: "Dermatologist", Category: "Skin, Hair & Nails", Total: 7, Urgent: 0},
	}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpecialistStats_EmptyAndDefaultLimit(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT specialist_name").
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"specialist_name", "category", "total", "urgent"}))

	stats, err := repo.SpecialistStats(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, stats)
	assert.Empty(t, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS specialist_inquiries").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, Migrate(context.Background(), conn))
	assert.NoError(t, mock.ExpectationsWereMet())
}
