package objectstorage

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/masa23/crmmail/config"
)

func NewS3Client(conf config.ObjectStorage) (*s3.S3, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(conf.Region),
		Endpoint:         aws.String(conf.Endpoint),
		S3ForcePathStyle: aws.Bool(conf.Endpoint != ""),
		Credentials: credentials.NewChainCredentials([]credentials.Provider{
			&credentials.StaticProvider{
				Value: credentials.Value{
					AccessKeyID:     conf.AccessKey,
					SecretAccessKey: conf.SecretKey,
				},
			},
		}),
	})
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}

// Bucket binds a client to one bucket.
type Bucket struct {
	Client *s3.S3
	Name   string
}
