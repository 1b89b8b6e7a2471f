package sqlstore

import (
	"context"
	"database/sql"

	"tagtime/internal/domain"
)

type sessionTagRepository struct {
	store    *Store
	sessions *sessionRepository
}

func (r *sessionTagRepository) AddLink(ctx context.Context, tagID, sessionID int64) error {
	if tagID < 0 || sessionID < 0 {
		return nil
	}
	return r.store.withTx(ctx, func(c conn) error {
		return r.addLink(ctx, c, tagID, sessionID)
	})
}

// addLink inserts the pair only when both rows exist; repeated pairs are ignored.
func (r *sessionTagRepository) addLink(ctx context.Context, c conn, tagID, sessionID int64) error {
	if tagID < 0 || sessionID < 0 {
		return nil
	}
	_, err := c.exec(ctx,
		`INSERT INTO session_tag_links (session_id, tag_id)
		 SELECT s.id, t.id FROM sessions s, tags t WHERE s.id = ? AND t.id = ?
		 ON CONFLICT (session_id, tag_id) DO NOTHING`,
		sessionID, tagID)
	return err
}

func (r *sessionTagRepository) RemoveLink(ctx context.Context, tagID, sessionID int64) error {
	return r.store.withTx(ctx, func(c conn) error {
		_, err := c.exec(ctx, `DELETE FROM session_tag_links WHERE session_id = ? AND tag_id = ?`, sessionID, tagID)
		return err
	})
}

func (r *sessionTagRepository) TagIDsForSession(ctx context.Context, sessionID int64) ([]int64, error) {
	return scanIDs(r.store.reader().query(ctx,
		`SELECT tag_id FROM session_tag_links WHERE session_id = ? ORDER BY tag_id`, sessionID))
}

func (r *sessionTagRepository) SessionIDsForTag(ctx context.Context, tagID int64) ([]int64, error) {
	return scanIDs(r.store.reader().query(ctx,
		`SELECT session_id FROM session_tag_links WHERE tag_id = ? ORDER BY session_id`, tagID))
}

func (r *sessionTagRepository) DeleteLinksForSession(ctx context.Context, sessionID int64) error {
	return r.store.withTx(ctx, func(c conn) error {
		return r.deleteForSession(ctx, c, sessionID)
	})
}

func (r *sessionTagRepository) deleteForSession(ctx context.Context, c conn, sessionID int64) error {
	_, err := c.exec(ctx, `DELETE FROM session_tag_links WHERE session_id = ?`, sessionID)
	return err
}

func (r *sessionTagRepository) DeleteLinksForTag(ctx context.Context, tagID int64) error {
	return r.store.withTx(ctx, func(c conn) error {
		return r.deleteForTag(ctx, c, tagID)
	})
}

func (r *sessionTagRepository) deleteForTag(ctx context.Context, c conn, tagID int64) error {
	_, err := c.exec(ctx, `DELETE FROM session_tag_links WHERE tag_id = ?`, tagID)
	return err
}

func (r *sessionTagRepository) SessionsMatchingTags(ctx context.Context, tagIDs []int64) ([]*domain.Session, error) {
	if len(tagIDs) == 0 {
		return r.sessions.List(ctx)
	}
	sub, args := r.matchingSubquery(tagIDs)
	return r.sessions.list(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id IN (`+sub+`) ORDER BY date DESC, id DESC`,
		args...)
}

func (r *sessionTagRepository) SessionsMatchingTagsPage(ctx context.Context, tagIDs []int64, p domain.PaginationParams) ([]*domain.Session, error) {
	if len(tagIDs) == 0 {
		return r.sessions.ListPage(ctx, p)
	}
	sub, args := r.matchingSubquery(tagIDs)
	args = append(args, p.Limit(), p.Offset())
	return r.sessions.list(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id IN (`+sub+`) ORDER BY date DESC, id DESC LIMIT ? OFFSET ?`,
		args...)
}

func (r *sessionTagRepository) CountSessionsMatchingTags(ctx context.Context, tagIDs []int64) (int, error) {
	if len(tagIDs) == 0 {
		return count(ctx, r.store.reader(), `SELECT COUNT(*) FROM sessions`)
	}
	sub, args := r.matchingSubquery(tagIDs)
	return count(ctx, r.store.reader(), `SELECT COUNT(*) FROM (`+sub+`) matched`, args...)
}

// matchingSubquery selects the IDs of sessions linked to every tag in tagIDs: link rows
// for the wanted tags grouped per session, keeping sessions that matched all of them.
// The composite key on the link table keeps the count exact. tagIDs must not be empty.
func (r *sessionTagRepository) matchingSubquery(tagIDs []int64) (string, []any) {
	tagIDs = distinctIDs(tagIDs)
	pred, args := r.store.dialect.inList("tag_id", tagIDs)
	args = append(args, len(tagIDs))
	return `SELECT session_id FROM session_tag_links WHERE ` + pred +
		` GROUP BY session_id HAVING COUNT(*) = ?`, args
}

// tagsForSessions loads the tags of every listed session in one join. Links pointing at a
// missing tag row are skipped.
func (r *sessionTagRepository) tagsForSessions(ctx context.Context, c conn, sessionIDs []int64) (map[int64][]*domain.Tag, error) {
	tagsBySession := make(map[int64][]*domain.Tag)
	if len(sessionIDs) == 0 {
		return tagsBySession, nil
	}
	pred, args := r.store.dialect.inList("l.session_id", sessionIDs)
	rows, err := c.query(ctx,
		`SELECT l.session_id, t.id, t.name FROM session_tag_links l
		 JOIN tags t ON t.id = l.tag_id
		 WHERE `+pred+`
		 ORDER BY t.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sessionID int64
		tag := &domain.Tag{}
		if err := rows.Scan(&sessionID, &tag.ID, &tag.Name); err != nil {
			return nil, err
		}
		tagsBySession[sessionID] = append(tagsBySession[sessionID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tagsBySession, nil
}

func count(ctx context.Context, c conn, query string, args ...any) (int, error) {
	var n int
	if err := c.queryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanIDs(rows *sql.Rows, err error) ([]int64, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
