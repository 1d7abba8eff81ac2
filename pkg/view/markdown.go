package view

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(goldmark.WithExtensions(extension.GFM))

	// policy strips anything a user-generated description should not carry.
	policy = bluemonday.UGCPolicy()
)

// Markdown renders src as sanitized HTML. Module and drawer descriptions
// are authored in markdown.
func Markdown(src string) (*Node, error) {
	if src == "" {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return nil, err
	}
	return Raw(string(policy.SanitizeBytes(buf.Bytes()))), nil
}

// MustMarkdown is Markdown for trusted, static sources; conversion errors
// fall back to escaped text.
func MustMarkdown(src string) *Node {
	n, err := Markdown(src)
	if err != nil {
		return Text(src)
	}
	return n
}
