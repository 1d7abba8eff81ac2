package adminkit

import (
	"embed"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

// assetPrefix is where the embedded admin assets are served.
const assetPrefix = "/_admin/assets/"

//go:embed assets
var embedded embed.FS

var assetFS, _ = fs.Sub(embedded, "assets")

// startTime stands in for the modification time of embedded files, which
// embed.FS reports as zero.
var startTime = time.Now()

// assetRelPath returns a sanitized path inside the asset FS for a request
// path, rejecting traversal and absolute-path tricks.
func assetRelPath(urlPath string) (string, bool) {
	rel, ok := strings.CutPrefix(urlPath, assetPrefix)
	if !ok || rel == "" {
		return "", false
	}

	// Reject NUL early (can appear via %00).
	if strings.IndexByte(rel, 0) != -1 || strings.Contains(rel, "\\") {
		return "", false
	}
	if strings.HasPrefix(rel, "/") {
		return "", false
	}
	// Reject dot-segments before cleaning so traversal is not cleaned away.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if !fs.ValidPath(clean) || clean == "." {
		return "", false
	}
	return clean, true
}

// handleAsset serves an embedded asset.
func (a *App) handleAsset(w http.ResponseWriter, r *http.Request) {
	rel, ok := assetRelPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	f, err := assetFS.Open(rel)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	rs, ok := f.(io.ReadSeeker)
	if !ok {
		http.NotFound(w, r)
		return
	}

	a.applyCacheHeaders(w, rel)
	http.ServeContent(w, r, rel, startTime, rs)
}

// applyCacheHeaders disables caching in development and otherwise caches
// fingerprinted files forever.
func (a *App) applyCacheHeaders(w http.ResponseWriter, filePath string) {
	switch {
	case a.config.PrettyHTML:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	case isFingerprinted(filePath):
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	default:
		w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
	}
}

// isFingerprinted reports whether a file name carries a content hash, e.g.
// "admin.a1b2c3d4.css".
func isFingerprinted(filePath string) bool {
	parts := strings.Split(path.Base(filePath), ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
