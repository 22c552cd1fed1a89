package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// CredentialsDetailS3 is returned to clients when no AWS credentials resolve.
const CredentialsDetailS3 = "Could not load credentials from any providers. Set AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY or configure a credentials provider."

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3Options struct {
	Region       string
	Bucket       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// S3Store puts objects with a single PutObject call. Credentials come from
// the static pair when set, otherwise from the SDK's default chain, and are
// only resolved when a request is signed.
type S3Store struct {
	opts   S3Options
	client objectPutter
	creds  aws.CredentialsProvider
}

func NewS3Store(ctx context.Context, o S3Options) (*S3Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(o.Region)}
	if o.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}

	client := newS3Client(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
			so.UsePathStyle = true
		}
	})

	return &S3Store{opts: o, client: client, creds: cfg.Credentials}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		if isS3CredentialsError(err) {
			return errCredentials(CredentialsDetailS3)
		}
		return errUploadFailed(err)
	}
	return nil
}

func (s *S3Store) URL(key string) string {
	if s.opts.BaseEndpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.opts.BaseEndpoint, "/"), s.opts.Bucket, escapeKey(key))
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, escapeKey(key))
}

func (s *S3Store) CheckCredentials(ctx context.Context) error {
	if s.creds == nil {
		return errCredentials(CredentialsDetailS3)
	}
	c, err := s.creds.Retrieve(ctx)
	if err != nil || !c.HasKeys() {
		return errCredentials(CredentialsDetailS3)
	}
	return nil
}

var credentialsErrorMarkers = []string{
	"failed to retrieve credentials",
	"failed to refresh cached credentials",
	"get identity",
	"no EC2 IMDS role found",
	"static credentials are empty",
}

func isS3CredentialsError(err error) bool {
	var se *v4.SigningError
	if errors.As(err, &se) {
		return true
	}
	msg := err.Error()
	for _, m := range credentialsErrorMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
