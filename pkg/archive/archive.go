// Package archive copies the transaction log to and from S3.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/eunmann/energy-ledger/pkg/fileutil"
	"github.com/eunmann/energy-ledger/pkg/logging"
)

// ErrNoBucket is returned when no destination bucket was configured.
var ErrNoBucket = errors.New("archive bucket not configured")

// API is the subset of the S3 client used here.
type API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Location names one S3 object.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return "s3://" + l.Bucket + "/" + l.Key
}

// Validate checks that a bucket is set. An empty key defaults to fallbackKey.
func (l *Location) Validate(fallbackKey string) error {
	if l.Bucket == "" {
		return ErrNoBucket
	}
	if l.Key == "" {
		l.Key = fallbackKey
	}
	return nil
}

// Client provides backup and restore of the ledger file.
type Client struct {
	api API
}

// NewClient creates a client using the default AWS configuration chain.
func NewClient(ctx context.Context) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &Client{api: s3.NewFromConfig(cfg)}, nil
}

// NewClientWithAPI wraps an existing S3 API implementation.
func NewClientWithAPI(api API) *Client {
	return &Client{api: api}
}

// Backup uploads the file at localPath to loc and returns the bytes sent.
func (c *Client) Backup(ctx context.Context, localPath string, loc Location) (int64, error) {
	start := time.Now()

	f, err := os.Open(localPath)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", localPath, err)
	}

	_, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(loc.Bucket),
		Key:           aws.String(loc.Key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String("text/plain"),
	})
	if err != nil {
		return 0, fmt.Errorf("put object %s: %w", loc, err)
	}

	logging.ArchiveTransferred(logging.WithComponent("archive"), time.Since(start)).
		Str("direction", "backup").
		Str("location", loc.String()).
		Bytes("bytes", info.Size()).
		Log("ledger backed up")
	return info.Size(), nil
}

// Restore downloads loc over localPath. The local file is replaced
// atomically, so a failed download leaves the previous log intact.
func (c *Client) Restore(ctx context.Context, loc Location, localPath string) (int64, error) {
	start := time.Now()

	resp, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return 0, fmt.Errorf("get object %s: %w", loc, err)
	}
	defer resp.Body.Close()

	var n int64
	err = fileutil.WriteAtomic(localPath, func(w io.Writer) error {
		var copyErr error
		n, copyErr = io.Copy(w, resp.Body)
		if copyErr != nil {
			return fmt.Errorf("download %s: %w", loc, copyErr)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logging.ArchiveTransferred(logging.WithComponent("archive"), time.Since(start)).
		Str("direction", "restore").
		Str("location", loc.String()).
		Bytes("bytes", n).
		Log("ledger restored")
	return n, nil
}

// ParseS3URI parses an S3 URI (s3://bucket/key) into a Location.
func ParseS3URI(uri string) (Location, error) {
	if !strings.HasPrefix(uri, "s3://") {
		return Location{}, errors.New("invalid S3 URI: must start with s3://")
	}

	path := strings.TrimPrefix(uri, "s3://")
	bucket, key, _ := strings.Cut(path, "/")
	if bucket == "" {
		return Location{}, errors.New("invalid S3 URI: missing bucket name")
	}
	return Location{Bucket: bucket, Key: key}, nil
}
