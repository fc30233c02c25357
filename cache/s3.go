package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the subset of the S3 client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store keeps one object per tag under a key prefix.
type S3Store struct {
	client S3API
	bucket string
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// NewS3Client builds an S3 client from the default credential chain.
// A non-empty endpoint selects an S3-compatible service with path-style addressing.
func NewS3Client(ctx context.Context, region, endpoint string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// NewS3Store creates a store over client. Objects older than ttl are misses.
func NewS3Store(client S3API, bucket, prefix string, ttl time.Duration) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix, ttl: ttl, now: time.Now}
}

// Key returns the object key of tag.
func (s *S3Store) Key(tag string) string {
	return path.Join(s.prefix, fileName(tag))
}

func (s *S3Store) Get(ctx context.Context, tag string) (*Entry, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.Key(tag)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", s.bucket, s.Key(tag), err)
	}
	defer func() { _ = out.Body.Close() }()

	if s.ttl > 0 && out.LastModified != nil && s.now().Sub(*out.LastModified) > s.ttl {
		return nil, ErrMiss
	}
	return DecodeFrom(out.Body)
}

func (s *S3Store) Put(ctx context.Context, e *Entry) error {
	data, err := Encode(e)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.Key(e.Tag)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.bucket, s.Key(e.Tag), err)
	}
	return nil
}
