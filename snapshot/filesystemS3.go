package snapshot

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"github.com/siherrmann/dataManager/helper"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3KeyPrefix = "snapshots/"

// FilesystemS3 keeps snapshots as objects below the snapshots/ prefix of a bucket.
type FilesystemS3 struct {
	client     *s3.Client
	bucketName string
	timeout    time.Duration
}

type S3Config struct {
	Endpoint        string // set for S3-compatible services like MinIO
	Region          string
	BucketName      string
	AccessKeyID     string
	SecretAccessKey string
}

func NewFilesystemS3(cfg S3Config) (Filesystem, error) {
	awsConfig, err := config.LoadDefaultConfig(
		context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &FilesystemS3{
		client:     client,
		bucketName: cfg.BucketName,
		timeout:    30 * time.Second,
	}, nil
}

func (fs *FilesystemS3) key(name string) string {
	return s3KeyPrefix + path.Base(name)
}

func (fs *FilesystemS3) Write(name string, reader io.Reader, size int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), fs.timeout)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket:      aws.String(fs.bucketName),
		Key:         aws.String(fs.key(name)),
		Body:        reader,
		ContentType: aws.String(helper.GetMimeType(name)),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	_, err := fs.client.PutObject(ctx, input)
	return err
}

// Open returns the object body. The body is read after Open returns,
// so no request timeout is applied here.
func (fs *FilesystemS3) Open(name string) (io.ReadCloser, error) {
	result, err := fs.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(fs.bucketName),
		Key:    aws.String(fs.key(name)),
	})
	if err != nil {
		return nil, err
	}
	return result.Body, nil
}

func (fs *FilesystemS3) Delete(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), fs.timeout)
	defer cancel()

	_, err := fs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(fs.bucketName),
		Key:    aws.String(fs.key(name)),
	})
	return err
}

func (fs *FilesystemS3) ListFiles() ([]File, error) {
	ctx, cancel := context.WithTimeout(context.Background(), fs.timeout)
	defer cancel()

	files := []File{}
	paginator := s3.NewListObjectsV2Paginator(fs.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(fs.bucketName),
		Prefix: aws.String(s3KeyPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}

		for _, object := range page.Contents {
			if object.Key == nil {
				continue
			}
			name := strings.TrimPrefix(*object.Key, s3KeyPrefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			files = append(files, File{
				Name:     name,
				Size:     aws.ToInt64(object.Size),
				MimeType: helper.GetMimeType(name),
			})
		}
	}

	return files, nil
}
