package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tagtime/internal/domain"
)

const sessionColumns = `id, duration, date`

type sessionRepository struct {
	store *Store
	links *sessionTagRepository
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) (int64, error) {
	if err := s.Validate(r.store.now()); err != nil {
		return domain.NoID, err
	}
	var id int64
	err := r.store.withTx(ctx, func(c conn) error {
		if err := c.queryRow(ctx,
			`INSERT INTO sessions (duration, date) VALUES (?, ?) RETURNING id`,
			s.Duration, s.Date.UnixMilli(),
		).Scan(&id); err != nil {
			return err
		}
		return r.linkTags(ctx, c, id, s.Tags)
	})
	if err != nil {
		return domain.NoID, err
	}
	s.ID = id
	return id, nil
}

// Update overwrites duration and date, then replaces the whole link set. An unknown ID
// updates nothing and is not an error.
func (r *sessionRepository) Update(ctx context.Context, s *domain.Session) error {
	if err := s.Validate(r.store.now()); err != nil {
		return err
	}
	return r.store.withTx(ctx, func(c conn) error {
		if _, err := c.exec(ctx,
			`UPDATE sessions SET duration = ?, date = ? WHERE id = ?`,
			s.Duration, s.Date.UnixMilli(), s.ID,
		); err != nil {
			return err
		}
		if err := r.links.deleteForSession(ctx, c, s.ID); err != nil {
			return err
		}
		return r.linkTags(ctx, c, s.ID, s.Tags)
	})
}

func (r *sessionRepository) linkTags(ctx context.Context, c conn, sessionID int64, tags []*domain.Tag) error {
	for _, tag := range tags {
		if tag == nil {
			continue
		}
		if err := r.links.addLink(ctx, c, tag.ID, sessionID); err != nil {
			return err
		}
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id int64) error {
	return r.store.withTx(ctx, func(c conn) error {
		if _, err := c.exec(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
			return err
		}
		return r.links.deleteForSession(ctx, c, id)
	})
}

func (r *sessionRepository) GetDataByID(ctx context.Context, id int64) (*domain.Session, error) {
	s, err := scanSession(r.store.reader().queryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	s, err := r.GetDataByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, []*domain.Session{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) List(ctx context.Context) ([]*domain.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY date DESC, id DESC`)
}

func (r *sessionRepository) ListPage(ctx context.Context, p domain.PaginationParams) ([]*domain.Session, error) {
	return r.list(ctx,
		`SELECT `+sessionColumns+` FROM sessions ORDER BY date DESC, id DESC LIMIT ? OFFSET ?`,
		p.Limit(), p.Offset())
}

func (r *sessionRepository) ListByIDs(ctx context.Context, ids []int64) ([]*domain.Session, error) {
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}
	pred, args := r.store.dialect.inList("id", ids)
	return r.list(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE `+pred+` ORDER BY date DESC, id DESC`, args...)
}

func (r *sessionRepository) ListByIDsPage(ctx context.Context, ids []int64, p domain.PaginationParams) ([]*domain.Session, error) {
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}
	pred, args := r.store.dialect.inList("id", ids)
	args = append(args, p.Limit(), p.Offset())
	return r.list(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE `+pred+` ORDER BY date DESC, id DESC LIMIT ? OFFSET ?`,
		args...)
}

func (r *sessionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.store.reader().query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.hydrate(ctx, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// hydrate fills Tags on every session; sessions without links get an empty slice.
func (r *sessionRepository) hydrate(ctx context.Context, sessions []*domain.Session) error {
	if len(sessions) == 0 {
		return nil
	}
	ids := make([]int64, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	tagsBySession, err := r.links.tagsForSessions(ctx, r.store.reader(), ids)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		s.Tags = []*domain.Tag{}
		if t := tagsBySession[s.ID]; t != nil {
			s.Tags = t
		}
	}
	return nil
}

func scanSession(scanner interface{ Scan(...any) error }) (*domain.Session, error) {
	s := &domain.Session{}
	var dateMillis int64
	if err := scanner.Scan(&s.ID, &s.Duration, &dateMillis); err != nil {
		return nil, err
	}
	s.Date = time.UnixMilli(dateMillis)
	return s, nil
}
