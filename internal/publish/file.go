package publish

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/vango-dev/filerouter/internal/errors"
)

// FileSink writes the module to Path atomically. Identical content is not
// rewritten, so watchers on the output do not fire for no-op compiles.
type FileSink struct {
	Path string
}

// Publish implements Sink.
func (s *FileSink) Publish(_ context.Context, src []byte) (bool, error) {
	if existing, err := os.ReadFile(s.Path); err == nil && bytes.Equal(existing, src) {
		return false, nil
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, s.fail(err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return false, s.fail(err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(src); err != nil {
		tmp.Close()
		return false, s.fail(err)
	}
	if err := tmp.Close(); err != nil {
		return false, s.fail(err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, s.fail(err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return false, s.fail(err)
	}
	return true, nil
}

func (s *FileSink) String() string { return s.Path }

func (s *FileSink) fail(err error) error {
	return errors.New("E111").WithFile(s.Path).WithDetail(err.Error()).Wrap(err)
}
