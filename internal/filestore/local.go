package filestore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Local stores files in a directory on disk.
type Local struct {
	Dir string
	now func() time.Time
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create upload dir %s", dir)
	}
	log.Info().Str("dir", dir).Msg("local file store ready")
	return &Local{Dir: dir, now: time.Now}, nil
}

func (s *Local) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	ts := s.now()
	var (
		f    *os.File
		name string
		err  error
	)
	// two uploads in the same millisecond must not overwrite each other
	for {
		name = StoredName(originalName, ts)
		f, err = os.OpenFile(filepath.Join(s.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", errors.Wrap(err, "create upload file")
		}
		ts = ts.Add(time.Millisecond)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", errors.Wrapf(err, "write upload file %s", name)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "close upload file %s", name)
	}
	return name, nil
}

func (s *Local) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.Dir, filepath.Base(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotExist
		}
		return nil, errors.Wrapf(err, "open upload file %s", name)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "stat upload file %s", name)
	}
	if st.IsDir() {
		f.Close()
		return nil, ErrNotExist
	}
	return f, nil
}
