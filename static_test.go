package adminkit

import (
	"net/http"
	"strings"
	"testing"
)

func TestAssetRelPath(t *testing.T) {
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"/_admin/assets/admin.css", "admin.css", true},
		{"/_admin/assets/", "", false},
		{"/_admin/assets/../app.go", "", false},
		{"/_admin/assets/./admin.css", "", false},
		{"/_admin/assets//etc/passwd", "", false},
		{"/_admin/assets/a\\b", "", false},
		{"/_admin/assets/a\x00b", "", false},
		{"/static/admin.css", "", false},
	}
	for _, tt := range tests {
		got, ok := assetRelPath(tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("assetRelPath(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestServeAsset(t *testing.T) {
	c := &client{app: newTestApp(t)}

	rr := c.do(http.MethodGet, "/_admin/assets/admin.css", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/css; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cc := rr.Header().Get("Cache-Control"); cc != "public, max-age=3600, must-revalidate" {
		t.Errorf("Cache-Control = %q", cc)
	}

	rr = c.do(http.MethodGet, "/_admin/assets/admin.js", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("admin.js status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/javascript") {
		t.Errorf("admin.js Content-Type = %q", ct)
	}
	for _, want := range []string{"data-drawer-open", "data-drawer-close", "confirm=true"} {
		if !strings.Contains(rr.Body.String(), want) {
			t.Errorf("admin.js missing %q", want)
		}
	}

	if rr := c.do(http.MethodGet, "/_admin/assets/missing.css", ""); rr.Code != http.StatusNotFound {
		t.Errorf("missing asset status = %d", rr.Code)
	}
}

func TestIsFingerprinted(t *testing.T) {
	tests := map[string]bool{
		"admin.css":            false,
		"admin.a1b2c3d4.css":   true,
		"js/app.DEADBEEF00.js": true,
		"admin.min.css":        false,
		"admin.a1b2c3.css":     false,
		"admin.zzzzzzzz.css":   false,
	}
	for name, want := range tests {
		if got := isFingerprinted(name); got != want {
			t.Errorf("isFingerprinted(%q) = %v, want %v", name, got, want)
		}
	}
}
