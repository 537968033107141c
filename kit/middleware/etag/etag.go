// Package etag adds weak ETags to successful GET and HEAD responses and
// answers matching If-None-Match requests with 304.
package etag

import (
	"bytes"
	"encoding/hex"
	"maps"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Auto buffers each response body, hashes it and sets an ETag. Responses
// that are not 200, are empty, or carry Cache-Control: no-store pass through
// untouched.
func Auto(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		rec := &recorder{header: maps.Clone(w.Header()), status: http.StatusOK}
		if rec.header == nil {
			rec.header = make(http.Header)
		}
		next.ServeHTTP(rec, r)

		if !rec.cacheable() {
			rec.flush(w)
			return
		}

		sum := blake2b.Sum256(rec.body.Bytes())
		tag := `W/"` + hex.EncodeToString(sum[:16]) + `"`

		if matches(r.Header.Get("If-None-Match"), tag) {
			h := w.Header()
			h.Set("ETag", tag)
			w.WriteHeader(http.StatusNotModified)
			return
		}

		rec.header.Set("ETag", tag)
		rec.header.Set("Content-Length", strconv.Itoa(rec.body.Len()))
		rec.flush(w)
	})
}

type recorder struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
}

func (r *recorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.body.Write(b)
}

func (r *recorder) cacheable() bool {
	return r.status == http.StatusOK &&
		r.body.Len() > 0 &&
		!strings.Contains(r.header.Get("Cache-Control"), "no-store")
}

func (r *recorder) flush(w http.ResponseWriter) {
	maps.Copy(w.Header(), r.header)
	w.WriteHeader(r.status)
	w.Write(r.body.Bytes())
}

func matches(ifNoneMatch, tag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	want := strings.Trim(strings.TrimPrefix(tag, "W/"), `"`)
	for cand := range strings.SplitSeq(ifNoneMatch, ",") {
		cand = strings.Trim(strings.TrimPrefix(strings.TrimSpace(cand), "W/"), `"`)
		if cand == want {
			return true
		}
	}
	return false
}
