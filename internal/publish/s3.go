package publish

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/filerouter/internal/errors"
)

// EnvS3Endpoint overrides the S3 endpoint, e.g. for MinIO.
const EnvS3Endpoint = "FILEROUTER_S3_ENDPOINT"

// PutObjectAPI is the subset of *s3.Client used by S3Sink.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads the module to an S3 object.
type S3Sink struct {
	Client PutObjectAPI
	Bucket string
	Key    string
}

// Publish implements Sink. Every call uploads.
func (s *S3Sink) Publish(ctx context.Context, src []byte) (bool, error) {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.Bucket),
		Key:          aws.String(s.Key),
		Body:         bytes.NewReader(src),
		ContentType:  aws.String(ContentType),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return false, errors.New("E111").
			WithFile(s.String()).
			WithDetail(fmt.Sprintf("s3 upload failed: %v", err)).
			Wrap(err)
	}
	return true, nil
}

func (s *S3Sink) String() string { return "s3://" + s.Bucket + "/" + s.Key }

// NewS3ClientFromEnv builds an S3 client from AWS_REGION (or
// AWS_DEFAULT_REGION), AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY,
// AWS_SESSION_TOKEN and FILEROUTER_S3_ENDPOINT. A custom endpoint switches
// to path-style addressing.
func NewS3ClientFromEnv() *s3.Client {
	region := firstNonEmpty(os.Getenv("AWS_REGION"), os.Getenv("AWS_DEFAULT_REGION"), "us-east-1")

	opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(envCredentials{}),
	}
	if endpoint := strings.TrimSpace(os.Getenv(EnvS3Endpoint)); endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

type envCredentials struct{}

func (envCredentials) Retrieve(context.Context) (aws.Credentials, error) {
	id := strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID"))
	secret := strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY"))
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "EnvCredentials",
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
