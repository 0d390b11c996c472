package objectstorage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/valyala/gozstd"
)

// ObjectDownload opens key. Keys ending in .zstd are decompressed while
// reading.
func ObjectDownload(ctx context.Context, s3Client *s3.S3, bucket, key string) (io.ReadCloser, error) {
	resp, err := s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucket, err)
	}

	if strings.HasSuffix(key, ZstdSuffix) {
		return zstdReadCloser(resp.Body), nil
	}
	return resp.Body, nil
}

func zstdReadCloser(rc io.ReadCloser) io.ReadCloser {
	zr := gozstd.NewReader(rc)
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: zr,
		Closer: closerFunc(func() error {
			zr.Release()
			return rc.Close()
		}),
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func (b Bucket) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return ObjectDownload(ctx, b.Client, b.Name, key)
}
