package middleware

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/drstein77/foodwizz/internal/compress"
)

type archiveTypeKey struct{}

const defaultArchiveType = "zip"

// ArchiveTypeMiddleware resolves the archiveType query parameter (zip or tar,
// zip by default) and applies the matching archive middleware.
func ArchiveTypeMiddleware(fileName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			archiveType := r.URL.Query().Get("archiveType")
			if archiveType != "tar" && archiveType != "zip" {
				archiveType = defaultArchiveType
			}

			ctx := context.WithValue(r.Context(), archiveTypeKey{}, archiveType)
			CreateCompressMiddleware(archiveType, fileName)(next).ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ArchiveType returns the archive type chosen for the request.
func ArchiveType(ctx context.Context) string {
	if v, ok := ctx.Value(archiveTypeKey{}).(string); ok {
		return v
	}
	return defaultArchiveType
}

// CreateCompressMiddleware unpacks request bodies sent with
// Content-Encoding: <compressionType> and packs responses into a single
// fileName entry when Accept-Encoding names compressionType.
func CreateCompressMiddleware(compressionType string, fileName string) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// By default set the original http.ResponseWriter
			ow := w

			// Check if the client can accept compressed data
			if acceptsEncoding(r.Header.Get("Accept-Encoding"), compressionType) {
				arw := &archiveResponseWriter{ResponseWriter: w, archiveType: compressionType, fileName: fileName}
				ow = arw
				defer arw.Close()
			}

			// Check if the client sent compressed data
			if r.Header.Get("Content-Encoding") == compressionType {
				cr, err := compress.NewReader(compressionType, r.Body)
				if err != nil {
					http.Error(w, "Failed to read archive: "+err.Error(), http.StatusBadRequest)
					return
				}
				r.Body = cr
				defer cr.Close()
			}

			// Transfer control to the handler
			h.ServeHTTP(ow, r)
		})
	}
}

// acceptsEncoding reports whether the Accept-Encoding header lists encoding
// as a whole token, so "gzip" does not count as "zip".
func acceptsEncoding(header, encoding string) bool {
	for _, part := range strings.Split(header, ",") {
		token, _, _ := strings.Cut(part, ";")
		if strings.EqualFold(strings.TrimSpace(token), encoding) {
			return true
		}
	}
	return false
}

// archiveResponseWriter routes a successful response body into an archive
// entry. Error responses pass through unpacked.
type archiveResponseWriter struct {
	http.ResponseWriter
	archiveType string
	fileName    string
	archive     io.WriteCloser
	wroteHeader bool
	status      int
}

func (a *archiveResponseWriter) WriteHeader(status int) {
	if a.wroteHeader {
		return
	}
	a.wroteHeader = true
	a.status = status
	if status < http.StatusMultipleChoices {
		a.Header().Set("Content-Type", "application/"+a.archiveType)
		a.Header().Set("Content-Encoding", a.archiveType)
		a.Header().Del("Content-Length")
	}
	a.ResponseWriter.WriteHeader(status)
}

func (a *archiveResponseWriter) Write(p []byte) (int, error) {
	if !a.wroteHeader {
		a.WriteHeader(http.StatusOK)
	}
	if a.status >= http.StatusMultipleChoices {
		return a.ResponseWriter.Write(p)
	}
	if a.archive == nil {
		aw, err := compress.NewWriter(a.archiveType, a.ResponseWriter, a.fileName)
		if err != nil {
			return 0, err
		}
		a.archive = aw
	}
	return a.archive.Write(p)
}

// Close finishes the archive, if one was started.
func (a *archiveResponseWriter) Close() error {
	if a.archive == nil {
		return nil
	}
	return a.archive.Close()
}
