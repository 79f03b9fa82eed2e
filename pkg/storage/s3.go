package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Provider represents the S3-compatible storage provider
type Provider string

const (
	ProviderAWS    Provider = "aws"
	ProviderWasabi Provider = "wasabi"
)

// ErrNotConfigured is returned when no bucket or credentials are set.
var ErrNotConfigured = errors.New("storage: object storage is not configured")

// Config holds configuration for S3-compatible storage
type Config struct {
	Provider        Provider
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	// PublicBaseURL is prefixed to object keys to build the stored URL.
	// Defaults to the virtual-hosted bucket URL.
	PublicBaseURL string
	// Wasabi-specific settings
	WasabiEndpoint string
	URLTTL         time.Duration
}

// WasabiEndpoints maps regions to Wasabi endpoints
var WasabiEndpoints = map[string]string{
	"us-east-1":      "s3.us-east-1.wasabisys.com",
	"us-east-2":      "s3.us-east-2.wasabisys.com",
	"us-west-1":      "s3.us-west-1.wasabisys.com",
	"eu-central-1":   "s3.eu-central-1.wasabisys.com",
	"eu-west-1":      "s3.eu-west-1.wasabisys.com",
	"ap-southeast-1": "s3.ap-southeast-1.wasabisys.com",
}

func (c Config) configured() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

func (c Config) endpoint() string {
	if c.WasabiEndpoint != "" {
		return c.WasabiEndpoint
	}
	if e, ok := WasabiEndpoints[c.Region]; ok {
		return e
	}
	return "s3.us-east-1.wasabisys.com"
}

// PresignedUpload is what a client needs to PUT a file and reference it later.
type PresignedUpload struct {
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ObjectURL string            `json:"object_url"`
	Key       string            `json:"key"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Client issues presigned PUT URLs for uploads. The core persists only the
// resulting object URL.
type Client struct {
	cfg     Config
	presign presignFunc
}

type presignFunc func(ctx context.Context, in *s3.PutObjectInput, ttl time.Duration) (string, map[string]string, error)

// NewClient creates a presigning client. It returns ErrNotConfigured when
// the bucket or credentials are missing so callers can run without uploads.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if !cfg.configured() {
		return nil, ErrNotConfigured
	}
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = 15 * time.Minute
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Client *s3.Client
	switch cfg.Provider {
	case ProviderWasabi:
		// Wasabi requires custom endpoint and path-style addressing
		s3Client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String("https://" + cfg.endpoint())
			o.UsePathStyle = true
		})
	default:
		s3Client = s3.NewFromConfig(awsCfg)
	}

	if cfg.PublicBaseURL == "" {
		if cfg.Provider == ProviderWasabi {
			cfg.PublicBaseURL = fmt.Sprintf("https://%s/%s", cfg.endpoint(), cfg.Bucket)
		} else {
			cfg.PublicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	pc := s3.NewPresignClient(s3Client)
	return &Client{
		cfg: cfg,
		presign: func(ctx context.Context, in *s3.PutObjectInput, ttl time.Duration) (string, map[string]string, error) {
			req, err := pc.PresignPutObject(ctx, in, s3.WithPresignExpires(ttl))
			if err != nil {
				return "", nil, err
			}
			headers := make(map[string]string, len(req.SignedHeader))
			for k, v := range req.SignedHeader {
				if strings.EqualFold(k, "host") || len(v) == 0 {
					continue
				}
				headers[k] = v[0]
			}
			return req.URL, headers, nil
		},
	}, nil
}

// PresignPut returns a presigned PUT URL for a new object under prefix
// (for example "cv/<user>"). The file extension of filename is preserved.
func (c *Client) PresignPut(ctx context.Context, prefix, filename, contentType string) (*PresignedUpload, error) {
	key := ObjectKey(prefix, filename)
	in := &s3.PutObjectInput{
		Bucket: aws.String(c.cfg.Bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	url, headers, err := c.presign(ctx, in, c.cfg.URLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &PresignedUpload{
		UploadURL: url,
		Method:    "PUT",
		Headers:   headers,
		ObjectURL: c.cfg.PublicBaseURL + "/" + key,
		Key:       key,
		ExpiresAt: time.Now().Add(c.cfg.URLTTL),
	}, nil
}

// ObjectKey builds a collision-free key that keeps the original extension.
func ObjectKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	prefix = strings.Trim(prefix, "/")
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
}
