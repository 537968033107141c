package errutil

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestMaybe(t *testing.T) {
	if Maybe("ctx", nil) != nil {
		t.Error("Maybe(nil) should be nil")
	}
	base := errors.New("base")
	err := Maybe("reading manifest", base)
	if err.Error() != "reading manifest: base" || !errors.Is(err, base) {
		t.Errorf("unexpected wrap: %v", err)
	}
}

func TestIgnoreNotExist(t *testing.T) {
	if IgnoreNotExist(fmt.Errorf("open CNAME: %w", fs.ErrNotExist)) != nil {
		t.Error("not-exist should be ignored")
	}
	perm := fmt.Errorf("open CNAME: %w", fs.ErrPermission)
	if !errors.Is(IgnoreNotExist(perm), fs.ErrPermission) {
		t.Error("permission error should surface")
	}
}
