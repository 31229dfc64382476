// Package filestore keeps uploaded property images and hands them back by name.
package filestore

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// PublicPrefix is the route stored images are served under.
const PublicPrefix = "/uploads"

// ErrNotExist is returned by Open for names the store does not hold.
var ErrNotExist = errors.New("filestore: file does not exist")

// reExt is the extension shape the uploads route will serve.
var reExt = regexp.MustCompile(`^\.[A-Za-z0-9_-]{1,32}$`)

// Store persists uploaded files. Implementations must be safe for concurrent use.
type Store interface {
	// Save writes r under a name derived from originalName and returns that name.
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	// Open returns the content of a previously saved file.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// StoredName derives the on-disk name for an upload: the millisecond
// timestamp followed by the original extension. Extensions outside
// [A-Za-z0-9_-]{1,32} are dropped so every stored name stays servable.
func StoredName(originalName string, ts time.Time) string {
	name := strconv.FormatInt(ts.UnixMilli(), 10)
	if ext := filepath.Ext(originalName); reExt.MatchString(ext) {
		name += ext
	}
	return name
}

// PublicPath is the relative URL a stored file is reachable at.
func PublicPath(name string) string {
	return PublicPrefix + "/" + name
}
