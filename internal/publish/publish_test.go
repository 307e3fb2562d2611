package publish

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, body)
	return &s3.PutObjectOutput{}, nil
}

func TestOpen(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"", "stdout"},
		{"-", "stdout"},
		{"s3://assets/app/routes.js", "s3://assets/app/routes.js"},
		{"/tmp/out/routes.js", "/tmp/out/routes.js"},
	}
	for _, tt := range tests {
		sink, err := Open(tt.target, WithS3Client(&fakeS3{}))
		require.NoError(t, err, tt.target)
		require.Equal(t, tt.want, sink.String())
	}
}

func TestOpenInvalidS3(t *testing.T) {
	for _, target := range []string{"s3://bucket", "s3:///key.js", "s3://bucket/"} {
		_, err := Open(target, WithS3Client(&fakeS3{}))
		require.Error(t, err, target)
		require.Contains(t, err.Error(), "E111")
	}
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink, err := Open("-", WithStdout(&buf))
	require.NoError(t, err)

	changed, err := sink.Publish(context.Background(), []byte("export default [];\n"))
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, "export default [];\n", buf.String())
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gen", "routes.gen.jsx")
	sink := &FileSink{Path: path}
	ctx := context.Background()

	changed, err := sink.Publish(ctx, []byte("v1"))
	require.NoError(t, err)
	require.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "v1", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	before := info.ModTime()
	time.Sleep(10 * time.Millisecond)

	changed, err = sink.Publish(ctx, []byte("v1"))
	require.NoError(t, err)
	require.False(t, changed, "identical content must not be rewritten")

	info, err = os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, before, info.ModTime())

	changed, err = sink.Publish(ctx, []byte("v2"))
	require.NoError(t, err)
	require.True(t, changed)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestFileSinkUnwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	sink := &FileSink{Path: filepath.Join(blocker, "routes.js")}
	_, err := sink.Publish(context.Background(), []byte("x"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "E111")
}

func TestS3Sink(t *testing.T) {
	fake := &fakeS3{}
	sink, err := Open("s3://assets/app/routes.js", WithS3Client(fake))
	require.NoError(t, err)

	changed, err := sink.Publish(context.Background(), []byte("src"))
	require.NoError(t, err)
	require.True(t, changed)

	require.Len(t, fake.inputs, 1)
	in := fake.inputs[0]
	require.Equal(t, "assets", aws.ToString(in.Bucket))
	require.Equal(t, "app/routes.js", aws.ToString(in.Key))
	require.Equal(t, ContentType, aws.ToString(in.ContentType))
	require.Equal(t, "src", string(fake.bodies[0]))
}

func TestS3SinkError(t *testing.T) {
	sink := &S3Sink{Client: &fakeS3{err: io.ErrUnexpectedEOF}, Bucket: "b", Key: "k"}
	_, err := sink.Publish(context.Background(), []byte("src"))
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "id")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("AWS_SESSION_TOKEN", "")

	creds, err := envCredentials{}.Retrieve(context.Background())
	require.NoError(t, err)
	require.Equal(t, "id", creds.AccessKeyID)

	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	_, err = envCredentials{}.Retrieve(context.Background())
	require.Error(t, err)
}

func TestNewS3ClientFromEnv(t *testing.T) {
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv(EnvS3Endpoint, "http://localhost:9000")

	client := NewS3ClientFromEnv()
	opts := client.Options()
	require.Equal(t, "eu-west-1", opts.Region)
	require.True(t, opts.UsePathStyle)
	require.Equal(t, "http://localhost:9000", aws.ToString(opts.BaseEndpoint))
}
