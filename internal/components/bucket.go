package components

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/jordaneaster/sb-generator/internal/models"
)

// BucketRepository implements Repository over an S3-compatible bucket. Objects
// are keyed <prefix>/<species>/<category>/<file>; locators are full object
// keys.
type BucketRepository struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewBucketRepository wraps an existing minio client. prefix may be empty.
func NewBucketRepository(client *minio.Client, bucket, prefix string) *BucketRepository {
	return &BucketRepository{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (r *BucketRepository) keyPrefix(species, category string) string {
	parts := []string{}
	if r.prefix != "" {
		parts = append(parts, r.prefix)
	}
	parts = append(parts, species, category)
	return strings.Join(parts, "/") + "/"
}

// List enumerates recognized image objects directly under the species/category
// prefix.
func (r *BucketRepository) List(ctx context.Context, species, category string) ([]models.ComponentDescriptor, error) {
	opts := minio.ListObjectsOptions{
		Prefix:    r.keyPrefix(species, category),
		Recursive: false,
	}

	var out []models.ComponentDescriptor
	for obj := range r.client.ListObjects(ctx, r.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("listing bucket %s: %w", r.bucket, obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		name := path.Base(obj.Key)
		kind := models.KindForName(name)
		if kind == models.KindUnknown {
			continue
		}
		out = append(out, models.ComponentDescriptor{
			Locator:     obj.Key,
			DisplayName: name,
			Kind:        kind,
		})
	}
	return out, nil
}

// Fetch downloads a component object by key.
func (r *BucketRepository) Fetch(ctx context.Context, locator string) ([]byte, error) {
	obj, err := r.client.GetObject(ctx, r.bucket, locator, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetching component %s: %w", locator, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("reading component %s: %w", locator, err)
	}
	return data, nil
}
