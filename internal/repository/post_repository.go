package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pixelgram/internal/model"
)

// postColumns deliberately leaves imgdata out; the payload is only loaded by
// GetImage.
const postColumns = "id, user_id, body, mime, created_at"

type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

func (r *PostRepo) collect(rows *sql.Rows) ([]model.Post, error) {
	defer rows.Close()
	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Body, &p.Mime, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListLatest returns the newest posts from non-banned owners for the global
// feed.  The join keeps the page full even before assembly drops stragglers.
func (r *PostRepo) ListLatest(ctx context.Context, limit int) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT p.id, p.user_id, p.body, p.mime, p.created_at
		 FROM posts p JOIN users u ON p.user_id = u.id
		 WHERE u.del_flg = 0
		 ORDER BY p.created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// ListBefore returns the newest posts created at or before the optional
// upper bound.  A nil bound means no filter; owner bans are left for the
// assembler.
func (r *PostRepo) ListBefore(ctx context.Context, maxCreatedAt *time.Time, limit int) ([]model.Post, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if maxCreatedAt != nil {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT "+postColumns+" FROM posts WHERE created_at <= ? ORDER BY created_at DESC LIMIT ?",
			*maxCreatedAt, limit)
	} else {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT "+postColumns+" FROM posts ORDER BY created_at DESC LIMIT ?", limit)
	}
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// ListByUser returns a user's newest posts for their profile page.
func (r *PostRepo) ListByUser(ctx context.Context, userID, limit int) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE user_id = ? ORDER BY created_at DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// GetActiveByID fetches a single post whose owner is not banned.  The result
// is a slice so it can feed straight into the assembler.
func (r *PostRepo) GetActiveByID(ctx context.Context, id int) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT p.id, p.user_id, p.body, p.mime, p.created_at
		 FROM posts p JOIN users u ON p.user_id = u.id
		 WHERE p.id = ? AND u.del_flg = 0`, id)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// GetImage loads the stored mime and raw payload for one post.
func (r *PostRepo) GetImage(ctx context.Context, id int) (model.Post, error) {
	var p model.Post
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, mime, imgdata FROM posts WHERE id = ?", id).
		Scan(&p.ID, &p.Mime, &p.Imgdata)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Post{}, ErrNotFound
	}
	return p, err
}

// Create inserts a post and returns its generated id.
func (r *PostRepo) Create(ctx context.Context, userID int, mime string, imgdata []byte, body string) (int, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (user_id, mime, imgdata, body) VALUES (?, ?, ?, ?)",
		userID, mime, imgdata, body)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// IDsByUser returns every post id owned by a user, for profile aggregates.
func (r *PostRepo) IDsByUser(ctx context.Context, userID int) ([]int, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id FROM posts WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ResetFixture removes posts above the seeded id range.
func (r *PostRepo) ResetFixture(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id > 10000")
	return err
}
