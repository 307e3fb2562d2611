// Package publish writes a generated route module to its destination:
// standard output, a file on disk, or an S3 object.
package publish

import (
	"context"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/vango-dev/filerouter/internal/errors"
)

// ContentType is the media type of a route module.
const ContentType = "application/javascript"

// Sink receives generated module source.
type Sink interface {
	// Publish writes src. It reports whether the destination changed.
	Publish(ctx context.Context, src []byte) (bool, error)

	// String describes the destination for log messages.
	String() string
}

// Option configures Open.
type Option func(*options)

type options struct {
	stdout io.Writer
	s3     PutObjectAPI
}

// WithStdout sets the writer used for the "-" target.
func WithStdout(w io.Writer) Option {
	return func(o *options) {
		o.stdout = w
	}
}

// WithS3Client sets the client used for s3:// targets. When unset, a
// client is built from the AWS_* environment variables.
func WithS3Client(client PutObjectAPI) Option {
	return func(o *options) {
		o.s3 = client
	}
}

// Open returns the sink for target: "" or "-" is standard output,
// "s3://bucket/key" is an S3 object, anything else is a file path.
func Open(target string, opts ...Option) (Sink, error) {
	o := options{stdout: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case target == "" || target == "-":
		return &WriterSink{W: o.stdout}, nil

	case strings.HasPrefix(target, "s3://"):
		bucket, key, err := parseS3(target)
		if err != nil {
			return nil, err
		}
		client := o.s3
		if client == nil {
			client = NewS3ClientFromEnv()
		}
		return &S3Sink{Client: client, Bucket: bucket, Key: key}, nil

	default:
		return &FileSink{Path: target}, nil
	}
}

func parseS3(target string) (bucket, key string, err error) {
	u, perr := url.Parse(target)
	if perr != nil {
		return "", "", errors.New("E111").
			WithDetail("invalid S3 URL " + target).
			Wrap(perr)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", errors.New("E111").
			WithDetail("S3 URL must name a bucket and a key: " + target).
			WithSuggestion("Use the form s3://bucket/path/routes.js")
	}
	return bucket, key, nil
}

// WriterSink writes every module to W.
type WriterSink struct {
	W io.Writer
}

// Publish implements Sink.
func (s *WriterSink) Publish(_ context.Context, src []byte) (bool, error) {
	if _, err := s.W.Write(src); err != nil {
		return false, errors.New("E111").WithDetail(err.Error()).Wrap(err)
	}
	return true, nil
}

func (s *WriterSink) String() string { return "stdout" }
