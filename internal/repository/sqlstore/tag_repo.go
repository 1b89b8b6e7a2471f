package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"tagtime/internal/domain"
)

type tagRepository struct {
	store *Store
	links *sessionTagRepository
}

// Create inserts a tag. An empty name writes nothing and returns (domain.NoID, nil).
func (r *tagRepository) Create(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return domain.NoID, nil
	}
	var id int64
	err := r.store.withTx(ctx, func(c conn) error {
		return c.queryRow(ctx, `INSERT INTO tags (name) VALUES (?) RETURNING id`, name).Scan(&id)
	})
	if err != nil {
		return domain.NoID, err
	}
	return id, nil
}

func (r *tagRepository) Update(ctx context.Context, tag *domain.Tag) error {
	if tag == nil || tag.Name == "" {
		return nil
	}
	return r.store.withTx(ctx, func(c conn) error {
		_, err := c.exec(ctx, `UPDATE tags SET name = ? WHERE id = ?`, tag.Name, tag.ID)
		return err
	})
}

func (r *tagRepository) Delete(ctx context.Context, id int64) error {
	return r.store.withTx(ctx, func(c conn) error {
		if _, err := c.exec(ctx, `DELETE FROM tags WHERE id = ?`, id); err != nil {
			return err
		}
		return r.links.deleteForTag(ctx, c, id)
	})
}

func (r *tagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var tag domain.Tag
	err := r.store.reader().queryRow(ctx, `SELECT id, name FROM tags WHERE id = ?`, id).Scan(&tag.ID, &tag.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) List(ctx context.Context) ([]*domain.Tag, error) {
	return r.list(ctx, `SELECT id, name FROM tags ORDER BY id`)
}

func (r *tagRepository) ListPage(ctx context.Context, p domain.PaginationParams) ([]*domain.Tag, error) {
	return r.list(ctx, `SELECT id, name FROM tags ORDER BY id LIMIT ? OFFSET ?`, p.Limit(), p.Offset())
}

func (r *tagRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, r.store.reader(), `SELECT COUNT(*) FROM tags`)
}

func (r *tagRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Tag, error) {
	rows, err := r.store.reader().query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]*domain.Tag, 0)
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}
