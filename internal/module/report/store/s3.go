package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config holds object storage configuration.
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Prefix          string
}

// S3Store keeps artifacts as objects under a bucket prefix, for
// deployments that want generated reports to survive process restarts.
// The artifact format is encoded in the object key suffix so listings
// carry everything Inspect needs.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
	ttl    time.Duration
}

// NewS3Store creates an S3-backed artifact store.
func NewS3Store(cfg *S3Config, ttl time.Duration) (*S3Store, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Bucket == "" {
		return nil, errors.New("incomplete s3 storage configuration")
	}

	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKeyID,
		cfg.SecretAccessKey,
		"",
	)

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	prefix := cfg.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	return &S3Store{
		client: client,
		bucket: cfg.Bucket,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

// Put stores the payload under a fresh key and returns the key.
func (s *S3Store) Put(ctx context.Context, payload []byte, format string) (string, error) {
	key := uuid.NewString()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(key, format)),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", &StorageError{Op: "put", Err: err}
	}
	return key, nil
}

// Get returns the payload and format for a live key. Objects older than
// the TTL are deleted on read and reported as ErrNotFound.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	obj, err := s.findObject(ctx, key)
	if err != nil {
		return nil, "", err
	}

	if time.Since(*obj.LastModified) > s.ttl {
		// Lazy expiry: remove and report absent
		_, _ = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    obj.Key,
		})
		return nil, "", ErrNotFound
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    obj.Key,
	})
	if err != nil {
		return nil, "", &StorageError{Op: "get", Err: err}
	}
	defer result.Body.Close()

	payload, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, "", &StorageError{Op: "get", Err: err}
	}

	_, format := s.splitObjectKey(*obj.Key)
	return payload, format, nil
}

// Inspect returns a snapshot of all live objects under the prefix.
func (s *S3Store) Inspect(ctx context.Context) ([]EntryInfo, error) {
	var infos []EntryInfo
	now := time.Now()

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &StorageError{Op: "inspect", Err: err}
		}

		for _, obj := range page.Contents {
			age := now.Sub(*obj.LastModified)
			if age > s.ttl {
				continue
			}
			key, format := s.splitObjectKey(*obj.Key)
			infos = append(infos, EntryInfo{
				Key:        key,
				Format:     format,
				Size:       int(*obj.Size),
				AgeSeconds: int64(age / time.Second),
			})
		}
	}
	return infos, nil
}

// EvictExpired deletes all objects under the prefix older than the TTL.
func (s *S3Store) EvictExpired(ctx context.Context) (int, error) {
	removed := 0
	now := time.Now()

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return removed, &StorageError{Op: "evict", Err: err}
		}

		for _, obj := range page.Contents {
			if now.Sub(*obj.LastModified) <= s.ttl {
				continue
			}
			_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			})
			if err != nil {
				return removed, &StorageError{Op: "evict", Err: err}
			}
			removed++
		}
	}
	return removed, nil
}

// TTL returns the configured time-to-live.
func (s *S3Store) TTL() time.Duration {
	return s.ttl
}

// Close is a no-op.
func (s *S3Store) Close() error {
	return nil
}

// findObject resolves a bare key to its object (the format suffix is part
// of the object key, so a prefix listing locates it).
func (s *S3Store) findObject(ctx context.Context, key string) (*objectRef, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(s.prefix + key + "."),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return nil, &StorageError{Op: "get", Err: err}
	}
	if len(out.Contents) == 0 {
		return nil, ErrNotFound
	}

	obj := out.Contents[0]
	return &objectRef{Key: obj.Key, LastModified: obj.LastModified}, nil
}

type objectRef struct {
	Key          *string
	LastModified *time.Time
}

func (s *S3Store) objectKey(key, format string) string {
	return s.prefix + key + "." + format
}

// splitObjectKey recovers the bare key and format from an object key.
func (s *S3Store) splitObjectKey(objectKey string) (key, format string) {
	name := strings.TrimPrefix(objectKey, s.prefix)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}
