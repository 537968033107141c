package errutil

import (
	"errors"
	"fmt"
	"io/fs"
)

// Maybe wraps err with msg, or returns nil when err is nil.
func Maybe(msg string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// IgnoreNotExist returns nil for not-exist errors and err otherwise.
func IgnoreNotExist(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
