package commentstore

import (
	"context"
	"errors"

	"github.com/bussin-exchange/market-middleware/pkg/comment"
)

// ErrCommentNotFound is returned when a comment lookup finds no matching record.
var ErrCommentNotFound = errors.New("comment not found")

// ErrAlreadyLiked is returned when a user likes a comment twice.
var ErrAlreadyLiked = errors.New("comment already liked")

// ErrNotLiked is returned when a user unlikes a comment they never liked.
var ErrNotLiked = errors.New("comment not liked")

// Store defines the interface for comment and like persistence.
type Store interface {
	CreateComment(ctx context.Context, c *comment.Comment) error
	GetComment(ctx context.Context, id int64) (*comment.Comment, error)
	ListByCoin(ctx context.Context, coinID int64, limit int) ([]*comment.Comment, error)
	SoftDelete(ctx context.Context, id int64) error

	Like(ctx context.Context, userID, commentID int64) error
	Unlike(ctx context.Context, userID, commentID int64) error
}
