package objectstorage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
)

// オブジェクトを消す
func DeleteObject(ctx context.Context, s3Client *s3.S3, bucket, key string) error {
	_, err := s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s from bucket %s: %w", key, bucket, err)
	}
	return nil
}

func (b Bucket) Delete(ctx context.Context, key string) error {
	return DeleteObject(ctx, b.Client, b.Name, key)
}
