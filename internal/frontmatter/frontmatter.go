// Package frontmatter splits YAML front matter (`---` delimited) from a
// Markdown document and decodes it.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a front matter
// block but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Split separates front matter from the body.
//
// If the document does not start with a `---` line, had is false and body is
// the full input. A leading UTF-8 byte order mark is ignored. The closing
// delimiter is the first subsequent line consisting of exactly `---`.
func Split(content []byte) (front []byte, body []byte, had bool, err error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	nl := detectNewline(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	pos := start
	for pos <= len(content) {
		lineEnd := bytes.IndexByte(content[pos:], '\n')
		var line []byte
		next := len(content)
		if lineEnd < 0 {
			line = content[pos:]
		} else {
			line = content[pos : pos+lineEnd]
			next = pos + lineEnd + 1
		}
		if string(bytes.TrimSuffix(line, []byte("\r"))) == "---" {
			return content[start:pos], content[next:], true, nil
		}
		if lineEnd < 0 {
			break
		}
		pos = next
	}
	return nil, nil, false, ErrMissingClosingDelimiter
}

// Parse decodes raw YAML front matter (without delimiters) into a map.
func Parse(front []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(front)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(front, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
