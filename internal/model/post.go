package model

import "time"

// Post represents a row in the `posts` table plus the enrichment attached by
// the feed assembler.  Key fields:
//  ID        – primary key identifier.
//  UserID    – owner of the post.
//  Body      – caption text (may be empty).
//  Mime      – one of image/jpeg, image/png, image/gif.
//  Imgdata   – raw image payload; only populated when serving /image/:id.
//  CreatedAt – timestamp of creation.  Posts are never mutated after insert.
type Post struct {
	ID        int       // posts.id
	UserID    int       // posts.user_id
	Body      string    // posts.body
	Mime      string    // posts.mime
	Imgdata   []byte    // posts.imgdata (loaded on demand)
	CreatedAt time.Time // posts.created_at

	// Filled in by service.Assembler, never persisted.
	User         *User
	Comments     []Comment
	CommentCount int
}
