// Package fsutil provides utility functions for working with an afero
// filesystem, so callers can run against the OS or an in-memory tree.
package fsutil

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"golang.org/x/crypto/blake2b"
)

// EnsureDir creates a directory if it does not exist.
func EnsureDir(fsys afero.Fs, path string) error {
	if err := fsys.MkdirAll(path, os.ModePerm); err != nil {
		return fmt.Errorf("fsutil.EnsureDir: failed to create directory %s: %w", path, err)
	}
	return nil
}

// ResetDir removes path recursively and recreates it empty.
func ResetDir(fsys afero.Fs, path string) error {
	if err := fsys.RemoveAll(path); err != nil {
		return fmt.Errorf("fsutil.ResetDir: failed to remove %s: %w", path, err)
	}
	return EnsureDir(fsys, path)
}

// Exists reports whether path exists. Only a not-exist error counts as
// absence; any other error is returned.
func Exists(fsys afero.Fs, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("fsutil.Exists: failed to stat %s: %w", path, err)
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(fsys afero.Fs, path string, data []byte) error {
	if err := EnsureDir(fsys, filepath.Dir(path)); err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("fsutil.WriteFile: failed to write %s: %w", path, err)
	}
	return nil
}

// CopyDir recursively copies a directory from src to dst.
func CopyDir(fsys afero.Fs, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("fsutil.CopyDir: %s is not a directory", src)
	}

	return afero.Walk(fsys, src, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if fi.IsDir() {
			return fsys.MkdirAll(target, fi.Mode().Perm()|0o700)
		}
		return CopyFile(fsys, path, target)
	})
}

// CopyFile copies a single file from src to dest
func CopyFile(fsys afero.Fs, src, dest string) error {
	sourceFile, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	if err := EnsureDir(fsys, filepath.Dir(dest)); err != nil {
		return err
	}

	destFile, err := fsys.Create(dest)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}

// ListFiles returns the slash-separated paths of all regular files under
// root, relative to root and sorted.
func ListFiles(fsys afero.Fs, root string) ([]string, error) {
	var files []string
	err := afero.Walk(fsys, root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Digest returns a hex blake2b-256 hash over every file under root: its
// relative path followed by its contents, in sorted path order. Two trees
// with the same files and bytes always hash the same.
func Digest(fsys afero.Fs, root string) (string, error) {
	files, err := ListFiles(fsys, root)
	if err != nil {
		return "", fmt.Errorf("fsutil.Digest: failed to list %s: %w", root, err)
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}

	for _, rel := range files {
		h.Write([]byte(rel))
		h.Write([]byte{0})

		f, err := fsys.Open(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return "", err
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", err
		}
		h.Write([]byte{0})
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
