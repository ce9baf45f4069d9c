// Package storage is the file-upload collaborator: it stores binary content
// and hands back the URL that content submissions reference.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"intranet-portal-backend/pkg/apperrors"
)

// PublicPrefix is the URL path under which stored objects are served.
const PublicPrefix = "/uploads/"

const defaultContentType = "application/octet-stream"

// Object describes a stored upload. Name, Size and ContentType line up with the
// attachment fields accepted by content submissions.
type Object struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
	Key         string `json:"key"`
	Checksum    string `json:"checksum"`
}

// Uploader stores content and returns where it can be fetched from.
type Uploader interface {
	Put(ctx context.Context, name, contentType string, r io.Reader) (*Object, error)
}

// LocalUploader 本地磁盘存储
type LocalUploader struct {
	root     string
	baseURL  string
	maxBytes int64
}

// NewLocalUploader stores files below root. baseURL may be empty for relative URLs.
func NewLocalUploader(root, baseURL string, maxBytes int64) (*LocalUploader, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalUploader{
		root:     root,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxBytes: maxBytes,
	}, nil
}

// Put writes r to a new uuid-named file grouped by upload month.
func (u *LocalUploader) Put(ctx context.Context, name, contentType string, r io.Reader) (*Object, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "file"
	}
	ext := strings.ToLower(filepath.Ext(name))

	key := path.Join(time.Now().UTC().Format("2006/01"), uuid.NewString()+ext)
	dst := filepath.Join(u.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, apperrors.Storage("create upload dir", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return nil, apperrors.Storage("create upload", err)
	}
	defer os.Remove(tmp.Name())

	src := r
	if u.maxBytes > 0 {
		src = io.LimitReader(r, u.maxBytes+1)
	}
	hash := sha256.New()
	sniff := &sniffer{}
	n, err := io.Copy(io.MultiWriter(tmp, hash, sniff), contextReader{ctx: ctx, r: src})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, apperrors.Storage("write upload", err)
	}
	if u.maxBytes > 0 && n > u.maxBytes {
		return nil, &apperrors.InvalidFieldError{Field: "file", Reason: fmt.Sprintf("exceeds %d bytes", u.maxBytes)}
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return nil, apperrors.Storage("store upload", err)
	}

	return &Object{
		URL:         u.baseURL + PublicPrefix + key,
		Name:        name,
		Size:        n,
		ContentType: resolveContentType(contentType, ext, sniff.buf),
		Key:         key,
		Checksum:    hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

// Handler serves stored objects; mount it under PublicPrefix.
func (u *LocalUploader) Handler() http.Handler {
	return http.StripPrefix(PublicPrefix, http.FileServer(noListing{http.Dir(u.root)}))
}

// resolveContentType: declared type, then extension, then content sniffing.
func resolveContentType(declared, ext string, head []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != defaultContentType {
		return declared
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		return byExt
	}
	if len(head) > 0 {
		return http.DetectContentType(head)
	}
	return defaultContentType
}

// sniffer keeps the first 512 bytes for http.DetectContentType.
type sniffer struct {
	buf []byte
}

func (s *sniffer) Write(p []byte) (int, error) {
	if rest := 512 - len(s.buf); rest > 0 {
		if len(p) < rest {
			rest = len(p)
		}
		s.buf = append(s.buf, p[:rest]...)
	}
	return len(p), nil
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// noListing hides directory indexes.
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
