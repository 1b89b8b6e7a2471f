package sqlstore

import (
	"context"
	"time"

	"tagtime/internal/domain"
)

const tagsByDurationQuery = `SELECT t.id, t.name, SUM(s.duration) AS total
	FROM tags t
	JOIN session_tag_links l ON l.tag_id = t.id
	JOIN sessions s ON s.id = l.session_id
	GROUP BY t.id, t.name
	ORDER BY total DESC, t.id ASC`

type statsRepository struct {
	store *Store
	links *sessionTagRepository
}

func (r *statsRepository) TotalDuration(ctx context.Context) (int64, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(duration), 0) FROM sessions`)
}

func (r *statsRepository) DurationForTag(ctx context.Context, tagID int64) (int64, error) {
	return r.sum(ctx,
		`SELECT COALESCE(SUM(s.duration), 0) FROM sessions s
		 JOIN session_tag_links l ON l.session_id = s.id
		 WHERE l.tag_id = ?`, tagID)
}

func (r *statsRepository) TagsByDuration(ctx context.Context) ([]*domain.TagDuration, error) {
	return r.tagDurations(ctx, tagsByDurationQuery)
}

func (r *statsRepository) TagsByDurationPage(ctx context.Context, p domain.PaginationParams) ([]*domain.TagDuration, error) {
	return r.tagDurations(ctx, tagsByDurationQuery+` LIMIT ? OFFSET ?`, p.Limit(), p.Offset())
}

func (r *statsRepository) CountRankedTags(ctx context.Context) (int, error) {
	return count(ctx, r.store.reader(), `SELECT COUNT(DISTINCT tag_id) FROM session_tag_links`)
}

func (r *statsRepository) DurationForSessionsWithTags(ctx context.Context, tagIDs []int64) (int64, error) {
	if len(tagIDs) == 0 {
		return r.TotalDuration(ctx)
	}
	sub, args := r.links.matchingSubquery(tagIDs)
	return r.sum(ctx, `SELECT COALESCE(SUM(duration), 0) FROM sessions WHERE id IN (`+sub+`)`, args...)
}

func (r *statsRepository) DurationForSessionsWithTagsInRange(ctx context.Context, tagIDs []int64, start, end time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(duration), 0) FROM sessions WHERE date >= ? AND date <= ?`
	args := []any{start.UnixMilli(), end.UnixMilli()}
	if len(tagIDs) > 0 {
		sub, subArgs := r.links.matchingSubquery(tagIDs)
		query += ` AND id IN (` + sub + `)`
		args = append(args, subArgs...)
	}
	return r.sum(ctx, query, args...)
}

func (r *statsRepository) sum(ctx context.Context, query string, args ...any) (int64, error) {
	var total int64
	if err := r.store.reader().queryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *statsRepository) tagDurations(ctx context.Context, query string, args ...any) ([]*domain.TagDuration, error) {
	rows, err := r.store.reader().query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranked := make([]*domain.TagDuration, 0)
	for rows.Next() {
		tag := &domain.Tag{}
		entry := &domain.TagDuration{Tag: tag}
		if err := rows.Scan(&tag.ID, &tag.Name, &entry.Duration); err != nil {
			return nil, err
		}
		ranked = append(ranked, entry)
	}
	return ranked, rows.Err()
}
