// Package channel provides the byte streams exchanged by protocol participants,
// and the fixed-width record codec used on them.
package channel

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/taurusgroup/libcrypt/pkg/protocol"
)

// Channel is a named, seekable byte stream.
type Channel interface {
	io.ReadWriteSeeker
	io.Closer
	Name() string
}

// Opener creates channels by name.
type Opener interface {
	// Open creates the named channel, truncating it if it already exists.
	Open(name string) (Channel, error)
}

// FS opens channels as files of an afero.Fs.
type FS struct {
	fs afero.Fs
}

// NewOSOpener returns an Opener storing channels as files under dir, which is created if needed.
func NewOSOpener(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, protocol.Resource("open", err)
	}
	return &FS{fs: afero.NewBasePathFs(afero.NewOsFs(), filepath.Clean(dir))}, nil
}

// NewMemoryOpener returns an Opener keeping every channel in memory.
func NewMemoryOpener() *FS {
	return &FS{fs: afero.NewMemMapFs()}
}

// NewFSOpener returns an Opener over an arbitrary afero.Fs.
func NewFSOpener(fs afero.Fs) *FS {
	return &FS{fs: fs}
}

// Open implements Opener.
func (o *FS) Open(name string) (Channel, error) {
	f, err := o.fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, protocol.Resource("open "+name, err)
	}
	return f, nil
}

// Reopen opens an existing channel at offset 0 without truncating it.
func (o *FS) Reopen(name string) (Channel, error) {
	f, err := o.fs.OpenFile(name, os.O_RDWR, 0o644)
	if err != nil {
		return nil, protocol.Resource("reopen "+name, err)
	}
	return f, nil
}

// Rewind moves the channel back to its start.
func Rewind(ch io.Seeker) error {
	_, err := ch.Seek(0, io.SeekStart)
	return err
}

// Offset returns the current position in the channel.
func Offset(ch io.Seeker) (int64, error) {
	return ch.Seek(0, io.SeekCurrent)
}

// Size returns the length of the channel, leaving the offset unchanged.
func Size(ch io.Seeker) (int64, error) {
	cur, err := Offset(ch)
	if err != nil {
		return 0, err
	}
	size, err := ch.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err = ch.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}
	return size, nil
}
