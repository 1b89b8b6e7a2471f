package sqlstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"tagtime/internal/domain"
)

func TestSessionRepository_Create(t *testing.T) {
	ctx := context.Background()
	date := day(2)

	tests := []struct {
		name    string
		session *domain.Session
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		errIs   error
		wantErr bool
	}{
		{
			name:    "inserts session and links in one transaction",
			session: domain.NewSession(3600, date, []*domain.Tag{{ID: 1}, nil, {ID: 4}}),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO sessions \(duration, date\) VALUES \(\$1, \$2\) RETURNING id`).
					WithArgs(int64(3600), date.UnixMilli()).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
				mock.ExpectExec(`INSERT INTO session_tag_links \(session_id, tag_id\) SELECT s.id, t.id FROM sessions s, tags t WHERE s.id = \$1 AND t.id = \$2 ON CONFLICT \(session_id, tag_id\) DO NOTHING`).
					WithArgs(int64(11), int64(1)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO session_tag_links`).
					WithArgs(int64(11), int64(4)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantID: 11,
		},
		{
			name:    "negative duration writes nothing",
			session: domain.NewSession(-1, date, nil),
			mock:    func(mock sqlmock.Sqlmock) {},
			wantID:  domain.NoID,
			wantErr: true,
			errIs:   domain.ErrInvalidDuration,
		},
		{
			name:    "future date writes nothing",
			session: domain.NewSession(60, testNow.AddDate(0, 0, 1), nil),
			mock:    func(mock sqlmock.Sqlmock) {},
			wantID:  domain.NoID,
			wantErr: true,
			errIs:   domain.ErrFutureDate,
		},
		{
			name:    "link failure rolls back the session row",
			session: domain.NewSession(60, date, []*domain.Tag{{ID: 2}}),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO sessions`).
					WithArgs(int64(60), date.UnixMilli()).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(12)))
				mock.ExpectExec(`INSERT INTO session_tag_links`).
					WithArgs(int64(12), int64(2)).
					WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			wantID:  domain.NoID,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tt.mock(mock)
			got, err := NewSessionRepository(store).Create(ctx, tt.session)
			require.Equal(t, tt.wantID, got)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantID, tt.session.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_Update(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)
	date := day(3)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE sessions SET duration = \$1, date = \$2 WHERE id = \$3`).
		WithArgs(int64(900), date.UnixMilli(), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM session_tag_links WHERE session_id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO session_tag_links`).
		WithArgs(int64(5), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := &domain.Session{ID: 5, Duration: 900, Date: date, Tags: []*domain.Tag{{ID: 3}}}
	require.NoError(t, NewSessionRepository(store).Update(ctx, s))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_Delete(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM sessions WHERE id = \$1`).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM session_tag_links WHERE session_id = \$1`).
		WithArgs(int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewSessionRepository(store).Delete(ctx, 8))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	date := day(1)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Session
		errIs   error
		wantErr bool
	}{
		{
			name: "hydrates tags in id order",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, duration, date FROM sessions WHERE id = \$1`).
					WithArgs(int64(5)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "duration", "date"}).
						AddRow(int64(5), int64(120), date.UnixMilli()))
				mock.ExpectQuery(`SELECT l.session_id, t.id, t.name FROM session_tag_links l JOIN tags t ON t.id = l.tag_id WHERE l.session_id = ANY\(\$1\) ORDER BY t.id`).
					WithArgs(pq.Array([]int64{5})).
					WillReturnRows(sqlmock.NewRows([]string{"session_id", "id", "name"}).
						AddRow(int64(5), int64(1), "Go").
						AddRow(int64(5), int64(2), "Reading"))
			},
			want: &domain.Session{
				ID:       5,
				Duration: 120,
				Date:     time.UnixMilli(date.UnixMilli()),
				Tags:     []*domain.Tag{{ID: 1, Name: "Go"}, {ID: 2, Name: "Reading"}},
			},
		},
		{
			name: "untagged session gets empty tag list",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, duration, date FROM sessions WHERE id = \$1`).
					WithArgs(int64(5)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "duration", "date"}).
						AddRow(int64(5), int64(0), date.UnixMilli()))
				mock.ExpectQuery(`SELECT l.session_id, t.id, t.name FROM session_tag_links l`).
					WillReturnRows(sqlmock.NewRows([]string{"session_id", "id", "name"}))
			},
			want: &domain.Session{
				ID:   5,
				Date: time.UnixMilli(date.UnixMilli()),
				Tags: []*domain.Tag{},
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, duration, date FROM sessions WHERE id = \$1`).
					WithArgs(int64(5)).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: true,
			errIs:   domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tt.mock(mock)
			got, err := NewSessionRepository(store).GetByID(ctx, 5)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_ListPage(t *testing.T) {
	ctx := context.Background()
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, duration, date FROM sessions ORDER BY date DESC, id DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "duration", "date"}))

	got, err := NewSessionRepository(store).ListPage(ctx, domain.PaginationParams{Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Empty(t, got)
	require.NotNil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_ListByIDs_EmptyInput(t *testing.T) {
	store, mock := newMockStore(t)

	got, err := NewSessionRepository(store).ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
