package commentstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/bussin-exchange/market-middleware/pkg/comment"
)

// CommentDao is a data access object that maps directly to the 'comments'
// table in PostgreSQL. likes_count is denormalized; the store keeps it in
// step with comment_likes inside a transaction.
type CommentDao struct {
	bun.BaseModel `bun:"table:comments,alias:cm"`
	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        int64     `bun:"user_id,notnull"`
	CoinID        int64     `bun:"coin_id,notnull"`
	Content       string    `bun:"content,notnull,type:varchar(500)"`
	LikesCount    int       `bun:"likes_count,notnull,default:0"`
	IsDeleted     bool      `bun:"is_deleted,notnull,default:false"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// CommentLikeDao maps to 'comment_likes'. The composite (user_id,
// comment_id) primary key prevents duplicate likes at the storage layer.
type CommentLikeDao struct {
	bun.BaseModel `bun:"table:comment_likes,alias:cl"`
	UserID        int64     `bun:"user_id,pk"`
	CommentID     int64     `bun:"comment_id,pk"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func toComment(dao *CommentDao) *comment.Comment {
	return &comment.Comment{
		ID:         dao.ID,
		UserID:     dao.UserID,
		CoinID:     dao.CoinID,
		Content:    dao.Content,
		LikesCount: dao.LikesCount,
		IsDeleted:  dao.IsDeleted,
		CreatedAt:  dao.CreatedAt,
		UpdatedAt:  dao.UpdatedAt,
	}
}
