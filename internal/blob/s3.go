// ABOUTME: Uploads exported tables to S3-compatible object storage.
// ABOUTME: Locations are s3://bucket/key URLs; MinIO works through a custom endpoint.
package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultRegion = "us-east-1"

// Config selects the S3 endpoint. Credentials come from the default AWS chain.
type Config struct {
	Region    string
	Endpoint  string // optional, e.g. a MinIO URL
	PathStyle bool
}

// Environment variables:
//   PAHDB_S3_REGION=<region> (default us-east-1)
//   PAHDB_S3_ENDPOINT=<url> (optional)
//   PAHDB_S3_PATH_STYLE=true|false (default false)
//   AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// ConfigFromEnv reads Config from the process environment.
func ConfigFromEnv() Config {
	return Config{
		Region:    os.Getenv("PAHDB_S3_REGION"),
		Endpoint:  os.Getenv("PAHDB_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("PAHDB_S3_PATH_STYLE"), "true"),
	}
}

// Location is a bucket and object key.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return "s3://" + l.Bucket + "/" + l.Key
}

// IsURL reports whether s uses the s3:// scheme.
func IsURL(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "s3://")
}

// ParseURL splits an s3://bucket/key URL.
func ParseURL(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("invalid s3 url %q: %w", raw, err)
	}
	if !strings.EqualFold(u.Scheme, "s3") {
		return Location{}, fmt.Errorf("invalid s3 url %q: scheme must be s3", raw)
	}
	loc := Location{Bucket: u.Host, Key: strings.TrimPrefix(u.Path, "/")}
	if loc.Bucket == "" || loc.Key == "" || strings.HasSuffix(loc.Key, "/") {
		return Location{}, fmt.Errorf("invalid s3 url %q: need s3://bucket/key", raw)
	}
	return loc, nil
}

// Uploader writes objects to S3.
type Uploader struct {
	client *s3.Client
}

// New builds an Uploader. optFns are applied to the client options after cfg.
func New(ctx context.Context, cfg Config, optFns ...func(*s3.Options)) (*Uploader, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		for _, fn := range optFns {
			fn(o)
		}
	})
	return &Uploader{client: client}, nil
}

// Put uploads body to loc, replacing any existing object.
func (u *Uploader) Put(ctx context.Context, loc Location, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := u.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("failed to upload %s: %w", loc, err)
	}
	return nil
}
