// Package storage provides the S3-compatible object storage adapter used
// for user avatars and coin icons.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bussin-exchange/market-middleware/internal/metrics"
	"github.com/bussin-exchange/market-middleware/pkg/config"
)

// PresignTTL is how long issued upload and download URLs stay valid.
const PresignTTL = time.Hour

// allowed image extensions for avatar and icon uploads
var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// Client wraps an S3-compatible object store behind the small surface the
// rest of the service needs.
type Client struct {
	s3      *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewClient creates a storage client from configuration. The endpoint is
// any S3-compatible provider; path-style addressing is forced because
// several such providers do not support virtual-hosted buckets.
func NewClient(cfg config.StorageConfig) *Client {
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		UsePathStyle: true,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		),
		// Backblaze and friends reject the newer CRC checksum headers.
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	})

	return &Client{
		s3:      client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}
}

// GeneratePresignedUploadURL returns a URL a client can PUT an object to
// directly, valid for PresignTTL.
func (c *Client) GeneratePresignedUploadURL(ctx context.Context, key, contentType string) (string, error) {
	req, err := c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(PresignTTL))
	if err != nil {
		metrics.StorageErrors.WithLabelValues("presign_put").Inc()
		return "", fmt.Errorf("failed to presign upload for %s: %w", key, err)
	}

	metrics.PresignedURLsIssued.WithLabelValues("PUT").Inc()
	return req.URL, nil
}

// GenerateDownloadURL returns a URL the object can be fetched from, valid
// for PresignTTL.
func (c *Client) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignTTL))
	if err != nil {
		metrics.StorageErrors.WithLabelValues("presign_get").Inc()
		return "", fmt.Errorf("failed to presign download for %s: %w", key, err)
	}

	metrics.PresignedURLsIssued.WithLabelValues("GET").Inc()
	return req.URL, nil
}

// UploadProfilePicture stores a user's avatar under a deterministic key
// derived from the user ID, so a re-upload overwrites the previous image.
// Returns the object key.
func (c *Client) UploadProfilePicture(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("avatars/%s.%s", userID, imageExtension(contentType, "jpg"))
	if err := c.put(ctx, key, data, contentType); err != nil {
		return "", err
	}
	metrics.ObjectsUploaded.WithLabelValues("avatar").Inc()
	return key, nil
}

// UploadCoinIcon stores a coin's icon under a key derived from its symbol.
// Returns the object key.
func (c *Client) UploadCoinIcon(ctx context.Context, symbol string, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("coins/%s.%s", strings.ToLower(symbol), imageExtension(contentType, "png"))
	if err := c.put(ctx, key, data, contentType); err != nil {
		return "", err
	}
	metrics.ObjectsUploaded.WithLabelValues("coin_icon").Inc()
	return key, nil
}

// DeleteObject removes an object from the bucket.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		metrics.StorageErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	metrics.ObjectsDeleted.Inc()
	return nil
}

func (c *Client) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		metrics.StorageErrors.WithLabelValues("put").Inc()
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// imageExtension derives a file extension from a MIME content type,
// falling back to def when the subtype is not an allowed image format.
func imageExtension(contentType, def string) string {
	_, ext, ok := strings.Cut(contentType, "/")
	if !ok {
		return def
	}
	ext = strings.ToLower(ext)
	if !allowedExtensions[ext] {
		return def
	}
	return ext
}
