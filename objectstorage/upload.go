package objectstorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/valyala/gozstd"
)

const ZstdSuffix = ".zstd"

// zstd圧縮する
func compress(reader io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	zw := gozstd.NewWriter(&buf)
	if _, err := io.Copy(zw, reader); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	zw.Release()
	return buf.Bytes(), nil
}

// オブジェクトをアップロードする zstd圧縮する
// 保存したキー (key + ".zstd") を返す
// ToDo: bufを使っているのでメモリ効率が悪い
func UploadObjectWithZstd(ctx context.Context, s3Client *s3.S3, bucket, key string, reader io.Reader) (string, error) {
	body, err := compress(reader)
	if err != nil {
		return "", fmt.Errorf("failed to compress object %s: %w", key, err)
	}
	key += ZstdSuffix
	_, err = s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/zstd"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s to bucket %s: %w", key, bucket, err)
	}
	return key, nil
}

func (b Bucket) Put(ctx context.Context, key string, reader io.Reader) (string, error) {
	return UploadObjectWithZstd(ctx, b.Client, b.Name, key, reader)
}

// 時刻でオブジェクトのキーを生成する
// sent/YYYY/MM/DD/HH/mm/ss/UUID
func GenerateObjectKey(now time.Time) string {
	return fmt.Sprintf("sent/%04d/%02d/%02d/%02d/%02d/%02d/%s",
		now.Year(), now.Month(), now.Day(),
		now.Hour(), now.Minute(), now.Second(),
		uuid.New().String())
}
