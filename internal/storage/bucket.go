package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BucketStore implements Store against an S3-compatible bucket.
type BucketStore struct {
	client     *minio.Client
	bucket     string
	prefix     string
	publicBase string
}

// NewBucketClient builds a minio client for an S3-compatible endpoint.
func NewBucketClient(endpoint, accessKey, secretKey string, useSSL bool) (*minio.Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating bucket client: %w", err)
	}
	return client, nil
}

// EnsureBucket creates the bucket if it does not already exist.
func EnsureBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket %s: %w", bucket, err)
	}
	return nil
}

// NewBucketStore wraps an existing minio client. publicBase, when set, is used
// to build returned URLs; otherwise URLs point at the endpoint directly.
func NewBucketStore(client *minio.Client, bucket, prefix, publicBase string) *BucketStore {
	return &BucketStore{
		client:     client,
		bucket:     bucket,
		prefix:     strings.Trim(prefix, "/"),
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

func (s *BucketStore) objectKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

// Put uploads data under key, overwriting any previous object.
func (s *BucketStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	obj := s.objectKey(key)
	_, err := s.client.PutObject(ctx, s.bucket, obj, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", obj, err)
	}
	return s.URL(key), nil
}

// URL returns the public URL for an artifact key.
func (s *BucketStore) URL(key string) string {
	obj := s.objectKey(key)
	if s.publicBase != "" {
		return s.publicBase + "/" + obj
	}
	return s.client.EndpointURL().String() + "/" + s.bucket + "/" + obj
}
