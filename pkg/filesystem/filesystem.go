// Package filesystem abstracts file access behind a small interface so the
// config-file generation steps can be exercised against an in-memory
// filesystem in tests while writing to the mounted target system for real.
package filesystem

import (
	"io/fs"

	"github.com/spf13/afero"
)

// FS is the subset of filesystem operations the installer needs when
// writing generated configuration into the target system.
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
	Remove(name string) error
	Symlink(oldname, newname string) error
}

type aferoFS struct {
	fs afero.Fs
}

// NewOS returns an FS backed by the real operating system.
func NewOS() FS {
	return &aferoFS{fs: afero.NewOsFs()}
}

// NewMemory returns an FS backed by an in-memory filesystem, for tests
// and for dry-run previews of generated files.
func NewMemory() FS {
	return &aferoFS{fs: afero.NewMemMapFs()}
}

func (a *aferoFS) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(name)
}

func (a *aferoFS) ReadFile(name string) ([]byte, error) {
	return afero.ReadFile(a.fs, name)
}

func (a *aferoFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(a.fs, name, data, perm)
}

func (a *aferoFS) MkdirAll(path string, perm fs.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}

func (a *aferoFS) Remove(name string) error {
	return a.fs.Remove(name)
}

func (a *aferoFS) Symlink(oldname, newname string) error {
	if linker, ok := a.fs.(afero.Linker); ok {
		return linker.SymlinkIfPossible(oldname, newname)
	}
	// MemMapFs cannot symlink; a marker file keeps tests observable.
	return afero.WriteFile(a.fs, newname, []byte(oldname), 0777)
}

// Exists reports whether the named path exists on fsys.
func Exists(fsys FS, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}
