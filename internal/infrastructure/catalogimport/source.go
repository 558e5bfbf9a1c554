package catalogimport

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appcatalog "github.com/shopfront/backend/internal/application/catalog"
	"github.com/shopfront/backend/internal/infrastructure/config"
)

// objectGetter is the part of *s3.Client used to fetch price lists
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Loader opens price lists from local paths or s3://bucket/key locations
type Loader struct {
	cfg config.ImportConfig
	s3  objectGetter
}

// NewLoader creates a Loader. The S3 client is built on first use.
func NewLoader(cfg config.ImportConfig) *Loader {
	return &Loader{cfg: cfg}
}

// Load reads and parses the price list at location
func (l *Loader) Load(ctx context.Context, location string) (*appcatalog.ImportGoodsRequest, error) {
	rc, err := l.open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	req, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return req, nil
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, ok := parseS3Location(location)
	if !ok {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("open price list: %w", err)
		}
		return f, nil
	}

	if l.s3 == nil {
		client, err := newS3Client(ctx, l.cfg)
		if err != nil {
			return nil, err
		}
		l.s3 = client
	}
	out, err := l.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

// parseS3Location splits s3://bucket/key
func parseS3Location(location string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(location, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

func newS3Client(ctx context.Context, cfg config.ImportConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}
