// Package routepath normalizes admin request paths before they reach the
// module registry and decodes individual percent-escaped segments.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// Path errors.
var (
	ErrBackslash             = errors.New("path contains backslash")
	ErrNullByte              = errors.New("path contains null byte")
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrEscapesRoot           = errors.New("path escapes root via ..")
	ErrEncodedSlashInSegment = errors.New("encoded slash in single-segment value")
)

// Path is a canonical request path split into its parts.
type Path struct {
	// Pathname is the canonical path, always rooted and without a trailing
	// slash (except "/").
	Pathname string

	// Segments are the raw (still escaped) non-empty segments of Pathname.
	// This is the catch-all slug a page receives.
	Segments []string

	// Query is the raw query string without the leading "?".
	Query string

	// Changed reports whether canonicalization rewrote the input path.
	Changed bool
}

// Canonicalize normalizes input:
//   - a missing leading slash is added
//   - repeated slashes collapse
//   - "." segments are dropped and ".." pops the previous segment
//   - the trailing slash is removed
//
// Backslashes, NUL bytes, malformed percent escapes and ".." above the root
// are rejected. A query string, if present, is split off untouched.
func Canonicalize(input string) (Path, error) {
	raw, query, _ := strings.Cut(input, "?")
	if raw == "" {
		return Path{Pathname: "/", Query: query, Changed: input != ""}, nil
	}

	if strings.Contains(raw, "\\") {
		return Path{}, ErrBackslash
	}
	if strings.Contains(raw, "\x00") || strings.Contains(strings.ToUpper(raw), "%00") {
		return Path{}, ErrNullByte
	}
	if strings.Contains(raw, "%") {
		if err := validatePercentEscapes(raw); err != nil {
			return Path{}, err
		}
	}

	var segments []string
	for _, seg := range strings.Split(raw, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segments) == 0 {
				return Path{}, ErrEscapesRoot
			}
			segments = segments[:len(segments)-1]
		default:
			segments = append(segments, seg)
		}
	}

	pathname := Join(segments)
	return Path{
		Pathname: pathname,
		Segments: segments,
		Query:    query,
		Changed:  pathname != raw,
	}, nil
}

// Join builds a rooted pathname from slug segments. Join(nil) is "/".
func Join(segments []string) string {
	return "/" + strings.Join(segments, "/")
}

func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// DecodeSegment percent-decodes a captured value. Unless multi is set, a
// value that decodes to something containing "/" is rejected so an encoded
// slash can never smuggle an extra segment into a single-segment param.
func DecodeSegment(value string, multi bool) (string, error) {
	if multi {
		parts := strings.Split(value, "/")
		for i, p := range parts {
			d, err := url.PathUnescape(p)
			if err != nil {
				return "", ErrInvalidPercentEscape
			}
			parts[i] = d
		}
		return strings.Join(parts, "/"), nil
	}

	decoded, err := url.PathUnescape(value)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	if strings.Contains(decoded, "/") {
		return "", ErrEncodedSlashInSegment
	}
	return decoded, nil
}
