package repository

import (
	"context"
	"database/sql"

	"pixelgram/internal/model"
)

type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// ListForPosts batch-fetches comments for a set of posts in one query,
// newest first within each post, capped at limit rows across the whole set.
// The cap is page-wide, not per-post; callers account for that.
func (r *CommentRepo) ListForPosts(ctx context.Context, postIDs []int, limit int) ([]model.Comment, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	args := append(intArgs(postIDs), limit)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, post_id, user_id, comment, created_at FROM comments
		 WHERE post_id IN (`+placeholders(len(postIDs))+`)
		 ORDER BY post_id, created_at DESC LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Comment, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Create inserts a comment and returns its generated id.
func (r *CommentRepo) Create(ctx context.Context, postID, userID int, comment string) (int, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (post_id, user_id, comment) VALUES (?, ?, ?)",
		postID, userID, comment)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// CountByUser returns how many comments a user has written.
func (r *CommentRepo) CountByUser(ctx context.Context, userID int) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM comments WHERE user_id = ?", userID).Scan(&n)
	return n, err
}

// CountForPosts returns how many comments the given posts have received.
func (r *CommentRepo) CountForPosts(ctx context.Context, postIDs []int) (int, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM comments WHERE post_id IN ("+placeholders(len(postIDs))+")",
		intArgs(postIDs)...).Scan(&n)
	return n, err
}

// ResetFixture removes comments above the seeded id range.
func (r *CommentRepo) ResetFixture(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id > 100000")
	return err
}
