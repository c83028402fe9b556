package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"staybook/internal/app/policies"
)

var ErrNotConfigured = errors.New("s3: image storage is not configured")

// objectStore is the subset of the MinIO client used for uploads.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	SetBucketPolicy(ctx context.Context, bucket, policy string) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type Options struct {
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
}

// Client stores listing images in an S3-compatible bucket and returns public URLs.
type Client struct {
	bucket        string
	publicBaseURL string
	store         objectStore
	logger        *slog.Logger

	bucketInitOnce sync.Once
	bucketInitErr  error
}

func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, ErrNotConfigured
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	mc, err := minio.New(hostOf(endpoint), &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(opts.AccessKey), strings.TrimSpace(opts.SecretKey), ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}
	base := strings.TrimSpace(opts.PublicEndpoint)
	if base == "" {
		base = endpoint
	}
	return newClient(mc, bucket, base, logger), nil
}

func newClient(store objectStore, bucket, publicBaseURL string, logger *slog.Logger) *Client {
	return &Client{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		store:         store,
		logger:        logger,
	}
}

// Upload stores the object and returns its public URL. The bucket is created
// with a public-read policy on first use.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if reader == nil {
		return "", errors.New("s3: reader is required")
	}
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("s3: object key is required")
	}
	if err := c.ensureBucket(ctx); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if size <= 0 {
		size = -1
	}
	if _, err := c.store.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}
	publicURL := c.objectURL(key)
	if c.logger != nil {
		c.logger.InfoContext(ctx, "s3 upload completed", "bucket", c.bucket, "key", key, "url", publicURL)
	}
	return publicURL, nil
}

func (c *Client) ensureBucket(ctx context.Context) error {
	c.bucketInitOnce.Do(func() {
		exists, err := c.store.BucketExists(ctx, c.bucket)
		if err != nil {
			c.bucketInitErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := c.store.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			c.bucketInitErr = fmt.Errorf("s3: create bucket: %w", err)
			return
		}
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, c.bucket)
		if err := c.store.SetBucketPolicy(ctx, c.bucket, policy); err != nil {
			c.bucketInitErr = fmt.Errorf("s3: set bucket policy: %w", err)
		}
	})
	return c.bucketInitErr
}

func (c *Client) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicBaseURL, c.bucket, strings.TrimLeft(key, "/"))
}

func hostOf(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

// Disabled rejects uploads when no object storage is configured.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", ErrNotConfigured
}

var (
	_ policies.ImageStore = (*Client)(nil)
	_ policies.ImageStore = Disabled{}
)
