package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TradesSettled counts settled trades by type (BUY or SELL)
	TradesSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_trades_settled_total",
			Help: "Total number of trades settled",
		},
		[]string{"type"},
	)

	// TradeSettlementDuration tracks settlement transaction time
	TradeSettlementDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "market_trade_settlement_duration_seconds",
			Help:    "Trade settlement duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// PromoRedemptions counts redemption attempts by status
	PromoRedemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_promo_redemptions_total",
			Help: "Total number of promo code redemption attempts",
		},
		[]string{"status"},
	)

	// CommentsCreated counts comments posted
	CommentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "market_comments_created_total",
			Help: "Total number of comments created",
		},
	)

	// CommentLikes counts like and unlike operations
	CommentLikes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_comment_likes_total",
			Help: "Total number of comment like operations",
		},
		[]string{"action"},
	)

	// ObjectsUploaded counts object storage uploads by kind
	ObjectsUploaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_objects_uploaded_total",
			Help: "Total number of objects uploaded to storage",
		},
		[]string{"kind"},
	)

	// ObjectsDeleted counts object storage deletions
	ObjectsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "market_objects_deleted_total",
			Help: "Total number of objects deleted from storage",
		},
	)

	// PresignedURLsIssued counts presigned URLs issued by method
	PresignedURLsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_presigned_urls_issued_total",
			Help: "Total number of presigned URLs issued",
		},
		[]string{"method"},
	)

	// StorageErrors counts object storage errors by operation
	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "market_storage_errors_total",
			Help: "Total number of object storage errors",
		},
		[]string{"operation"},
	)
)
