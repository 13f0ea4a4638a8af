package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"postboard/internal/dbx"
	"postboard/internal/model"
)

const feedSelect = `
	SELECT p.id, p.user_id, p.content, p.created_at, p.updated_at,
	       u.id, u.username, u.name, u.profile_image,
	       (SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS like_count,
	       EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = $1) AS liked
	FROM posts p
	JOIN users u ON u.id = p.user_id`

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (model.Post, error) {
	var p model.Post
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, content, created_at, updated_at FROM posts WHERE id = $1`, id).
		Scan(&p.ID, &p.UserID, &p.Content, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, p model.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.UserID, p.Content, p.CreatedAt, p.UpdatedAt)
	if isForeignKeyViolation(err) {
		return model.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// UpdateContent only touches content and updated_at; the owner column is
// never written after creation.
func (r *PostRepository) UpdateContent(ctx context.Context, id string, content string, at time.Time) (model.Post, error) {
	var p model.Post
	err := r.db.QueryRowContext(ctx,
		`UPDATE posts SET content = $2, updated_at = $3 WHERE id = $1
		 RETURNING id, user_id, content, created_at, updated_at`,
		id, content, at).
		Scan(&p.ID, &p.UserID, &p.Content, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if affected == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) ListFeed(ctx context.Context, viewerID string) ([]model.FeedItem, error) {
	rows, err := r.db.QueryContext(ctx,
		feedSelect+` ORDER BY p.created_at DESC, p.id DESC`, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	defer rows.Close()

	return scanFeed(rows)
}

func (r *PostRepository) ListByOwner(ctx context.Context, ownerID string, viewerID string) ([]model.FeedItem, error) {
	rows, err := r.db.QueryContext(ctx,
		feedSelect+` WHERE p.user_id = $2 ORDER BY p.created_at DESC, p.id DESC`, viewerID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list posts by owner: %w", err)
	}
	defer rows.Close()

	return scanFeed(rows)
}

// ToggleLike removes the user's like if present, otherwise adds it. Both
// statements and the recount run in one transaction; a concurrent duplicate
// insert is absorbed by the primary key.
func (r *PostRepository) ToggleLike(ctx context.Context, postID string, userID string) (model.LikeResult, error) {
	result := model.LikeResult{PostID: postID}

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
		if err != nil {
			return fmt.Errorf("remove like: %w", err)
		}

		removed, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("remove like: %w", err)
		}

		if removed == 0 {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO post_likes (post_id, user_id, created_at) VALUES ($1, $2, $3)
				 ON CONFLICT (post_id, user_id) DO NOTHING`,
				postID, userID, time.Now().UTC())
			if isForeignKeyViolation(err) {
				return model.ErrPostNotFound
			}
			if err != nil {
				return fmt.Errorf("add like: %w", err)
			}
			result.Liked = true
		}

		return tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&result.LikeCount)
	})
	if err != nil {
		return model.LikeResult{}, err
	}

	return result, nil
}

func scanFeed(rows *sql.Rows) ([]model.FeedItem, error) {
	items := make([]model.FeedItem, 0)
	for rows.Next() {
		var item model.FeedItem
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.Content, &item.CreatedAt, &item.UpdatedAt,
			&item.Author.ID, &item.Author.Username, &item.Author.Name, &item.Author.ProfileImage,
			&item.LikeCount, &item.Liked,
		); err != nil {
			return nil, fmt.Errorf("scan feed item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
