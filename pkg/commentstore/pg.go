package commentstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/bussin-exchange/market-middleware/internal/metrics"
	"github.com/bussin-exchange/market-middleware/pkg/comment"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the comment store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateComment(ctx context.Context, c *comment.Comment) error {
	dao := &CommentDao{
		UserID:  c.UserID,
		CoinID:  c.CoinID,
		Content: c.Content,
	}

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, created_at, updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	c.ID = dao.ID
	c.CreatedAt = dao.CreatedAt
	c.UpdatedAt = dao.UpdatedAt
	metrics.CommentsCreated.Inc()
	return nil
}

func (s *pgStore) GetComment(ctx context.Context, id int64) (*comment.Comment, error) {
	dao := new(CommentDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return toComment(dao), nil
}

func (s *pgStore) ListByCoin(ctx context.Context, coinID int64, limit int) ([]*comment.Comment, error) {
	var daos []CommentDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("coin_id = ?", coinID).
		Where("is_deleted = FALSE").
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	comments := make([]*comment.Comment, len(daos))
	for i := range daos {
		comments[i] = toComment(&daos[i])
	}
	return comments, nil
}

// SoftDelete hides the comment without removing the row, so like records
// and thread ordering stay intact.
func (s *pgStore) SoftDelete(ctx context.Context, id int64) error {
	res, err := s.db.NewUpdate().
		Model((*CommentDao)(nil)).
		Set("is_deleted = TRUE").
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// Like inserts the like and bumps the denormalized counter in one
// transaction. ON CONFLICT DO NOTHING on the composite key means the
// counter only moves when the like row was actually new.
func (s *pgStore) Like(ctx context.Context, userID, commentID int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().
			Model(&CommentLikeDao{UserID: userID, CommentID: commentID}).
			On("CONFLICT (user_id, comment_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert like: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadyLiked
		}

		if _, err := tx.NewUpdate().
			Model((*CommentDao)(nil)).
			Set("likes_count = likes_count + 1").
			Set("updated_at = NOW()").
			Where("id = ?", commentID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to increment likes count: %w", err)
		}
		metrics.CommentLikes.WithLabelValues("like").Inc()
		return nil
	})
}

func (s *pgStore) Unlike(ctx context.Context, userID, commentID int64) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*CommentLikeDao)(nil)).
			Where("user_id = ?", userID).
			Where("comment_id = ?", commentID).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNotLiked
		}

		if _, err := tx.NewUpdate().
			Model((*CommentDao)(nil)).
			Set("likes_count = likes_count - 1").
			Set("updated_at = NOW()").
			Where("id = ?", commentID).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to decrement likes count: %w", err)
		}
		metrics.CommentLikes.WithLabelValues("unlike").Inc()
		return nil
	})
}
