package model

import "time"

// Comment represents a row in the `comments` table.  Comments are never
// mutated after insert.  User is attached by the feed assembler.
type Comment struct {
	ID        int       // comments.id
	PostID    int       // comments.post_id
	UserID    int       // comments.user_id
	Comment   string    // comments.comment
	CreatedAt time.Time // comments.created_at

	User *User
}
