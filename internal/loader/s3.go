package loader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rajanjha2004/HotelData/internal/models"
)

// ObjectGetter is the subset of the S3 client used by the loader
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LoadS3 downloads s3://bucket/key and parses it like an upload of the same name.
func (l *Loader) LoadS3(ctx context.Context, rawURL string) (*models.OrderTable, error) {
	bucket, key, err := splitS3URL(rawURL)
	if err != nil {
		return nil, err
	}

	objects, err := l.objectGetter(ctx)
	if err != nil {
		return nil, err
	}

	out, err := objects.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to download %s: %w", rawURL, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", rawURL, err)
	}

	table, err := l.LoadUpload(path.Base(key), data)
	if err != nil {
		return nil, err
	}
	table.Source = rawURL
	return table, nil
}

func (l *Loader) objectGetter(ctx context.Context) (ObjectGetter, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.objects == nil {
		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(l.opts.S3Region))
		if err != nil {
			return nil, fmt.Errorf("unable to load SDK config: %w", err)
		}
		l.objects = s3.NewFromConfig(cfg)
	}
	return l.objects, nil
}

func splitS3URL(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", &models.ConfigError{Field: "source", Reason: fmt.Sprintf("%q is not an s3://bucket/key URL", raw)}
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", &models.ConfigError{Field: "source", Reason: fmt.Sprintf("%q has no object key", raw)}
	}
	return u.Host, key, nil
}
