package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alekLukanen/errs"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/tylerdata/taxiPipeline/elements"
)

const (
	ObjectStorageAuthTypeStatic  = "static"
	ObjectStorageAuthTypeDefault = "default"
)

type IObjectStorage interface {
	Upload(ctx context.Context, bucket, key string, body []byte) error
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]elements.ObjectInfo, error)
}

type ObjectStorageOptions struct {
	Endpoint     string
	Region       string
	AuthKey      string
	AuthSecret   string
	UsePathStyle bool
	AuthType     string
}

func NewObjectStorageOptionsFromStaticCredentials(
	endpoint string,
	region string,
	authKey string,
	authSecret string,
	usePathStyle bool,
) *ObjectStorageOptions {
	return &ObjectStorageOptions{
		Endpoint:     endpoint,
		Region:       region,
		AuthKey:      authKey,
		AuthSecret:   authSecret,
		UsePathStyle: usePathStyle,
		AuthType:     ObjectStorageAuthTypeStatic,
	}
}

type ObjectStorage struct {
	logger *slog.Logger

	client *s3.Client
}

// LoadAWSConfig resolves the shared aws config used by the s3, athena and
// glue clients.
func LoadAWSConfig(ctx context.Context, options ObjectStorageOptions) (aws.Config, error) {
	configFuncs := make([]func(*config.LoadOptions) error, 0)
	if options.Region != "" {
		configFuncs = append(configFuncs, config.WithRegion(options.Region))
	}

	if options.AuthType == ObjectStorageAuthTypeStatic {
		creds := credentials.NewStaticCredentialsProvider(options.AuthKey, options.AuthSecret, "")
		configFuncs = append(configFuncs, config.WithCredentialsProvider(creds))
	}

	awsConfig, err := config.LoadDefaultConfig(
		ctx,
		configFuncs...,
	)
	if err != nil {
		return aws.Config{}, errs.Wrap(err, fmt.Errorf("failed loading aws config"))
	}
	return awsConfig, nil
}

func NewObjectStorage(
	ctx context.Context,
	logger *slog.Logger,
	options ObjectStorageOptions,
) (*ObjectStorage, error) {

	awsConfig, err := LoadAWSConfig(ctx, options)
	if err != nil {
		return nil, err
	}

	return NewObjectStorageFromConfig(logger, awsConfig, options), nil
}

func NewObjectStorageFromConfig(logger *slog.Logger, awsConfig aws.Config, options ObjectStorageOptions) *ObjectStorage {
	newSession := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
		}
		o.UsePathStyle = options.UsePathStyle
	})

	return &ObjectStorage{
		logger: logger,
		client: newSession,
	}
}

func (obj *ObjectStorage) Upload(ctx context.Context, bucket, key string, body []byte) error {
	obj.logger.Info(
		"uploading object", slog.String("bucket", bucket), slog.String("key", key), slog.Int("numBytes", len(body)),
	)

	uploader := manager.NewUploader(obj.client)
	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return errs.Wrap(err, fmt.Errorf("failed uploading s3://%s/%s", bucket, key))
	}
	return nil
}

/*
* Download the whole object into memory. A missing object is reported as
* ErrObjectNotFound so callers can tell it apart from other failures.
 */
func (obj *ObjectStorage) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	obj.logger.Info("downloading object", slog.String("bucket", bucket), slog.String("key", key))

	downloader := manager.NewDownloader(obj.client)
	buf := manager.NewWriteAtBuffer([]byte{})
	_, err := downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%w| s3://%s/%s: %v", ErrObjectNotFound, bucket, key, err)
		}
		return nil, errs.Wrap(err, fmt.Errorf("failed downloading s3://%s/%s", bucket, key))
	}
	return buf.Bytes(), nil
}

// ListObjects returns every object under the prefix in listing order.
func (obj *ObjectStorage) ListObjects(ctx context.Context, bucket string, prefix string) ([]elements.ObjectInfo, error) {
	obj.logger.Info("listing objects", slog.String("bucket", bucket), slog.String("prefix", prefix))

	paginator := s3.NewListObjectsV2Paginator(obj.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})

	objects := make([]elements.ObjectInfo, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errs.Wrap(err, fmt.Errorf("failed listing s3://%s/%s", bucket, prefix))
		}
		for _, s3Obj := range page.Contents {
			objects = append(objects, elements.ObjectInfo{
				Key:          aws.ToString(s3Obj.Key),
				LastModified: aws.ToTime(s3Obj.LastModified),
				Size:         aws.ToInt64(s3Obj.Size),
			})
		}
	}
	return objects, nil
}

func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrObjectNotFound) {
		return true
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
