package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"guestroom/config"
	"guestroom/infras/otel"
	"guestroom/shared/constant"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrKey    = "s3.key"
	otelAttrBucket = "s3.bucket"
	defaultRegion  = "auto"
)

// S3 stores booking and enquiry attachments in the configured bucket. Keys are full object
// paths such as enquiries/<uuid>.pdf.
type S3 interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (url string, err error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) string
}

type s3Impl struct {
	client       *s3.Client
	bucket       string
	publicDomain string
	apiEndpoint  string
	otel         otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) S3 {
	settings := cfg.External.S3

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, "")),
		awsConfig.WithRegion(defaultRegion),
	)
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if settings.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(settings.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	return &s3Impl{
		client:       client,
		bucket:       settings.BucketName,
		publicDomain: strings.TrimSuffix(settings.PublicDomain, "/"),
		apiEndpoint:  strings.TrimSuffix(settings.APIEndpoint, "/"),
		otel:         otel,
	}
}

func (svc *s3Impl) scope(ctx context.Context, operation, key string) (context.Context, otel.Scope) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+"."+operation)
	scope.SetAttributes(map[string]any{otelAttrKey: key, otelAttrBucket: svc.bucket})

	return ctx, scope
}

func (svc *s3Impl) Upload(ctx context.Context, key, contentType string, data []byte) (url string, err error) {
	ctx, scope := svc.scope(ctx, "Upload", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(svc.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload file to S3")

		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return svc.url(key), nil
}

func (svc *s3Impl) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := svc.scope(ctx, "Delete", key)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete file from S3")

		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// KeyFromURL reverses url(). URLs not served from this bucket give "".
func (svc *s3Impl) KeyFromURL(url string) string {
	return keyFromURL(url, svc.bases()...)
}

// url prefers the public domain and falls back to the path style API URL.
func (svc *s3Impl) url(key string) string {
	return svc.bases()[0] + key
}

func (svc *s3Impl) bases() []string {
	pathStyle := fmt.Sprintf("%s/%s/", svc.apiEndpoint, svc.bucket)
	if svc.publicDomain == "" {
		return []string{pathStyle}
	}

	return []string{svc.publicDomain + "/", pathStyle}
}

func keyFromURL(url string, bases ...string) string {
	for _, base := range bases {
		if base == "/" || base == "//" {
			continue
		}

		if key, ok := strings.CutPrefix(url, base); ok {
			return key
		}
	}

	return ""
}
