// Package comment holds the social layer domain model.
package comment

import "time"

// Comment is a user comment on a coin. Deleted comments are soft-deleted
// so the thread structure survives; LikesCount is denormalized and kept
// in step with the comment_likes table by the store.
type Comment struct {
	ID         int64
	UserID     int64
	CoinID     int64
	Content    string
	LikesCount int
	IsDeleted  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Like marks that a user liked a comment. At most one per (user, comment).
type Like struct {
	UserID    int64
	CommentID int64
	CreatedAt time.Time
}
