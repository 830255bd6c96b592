// Package rawhttp is a minimal HTTP/1.x request scanner for listeners that
// read one request into a fixed buffer. It understands a request line,
// headers and an optional Content-Length body. Nothing else.
package rawhttp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrNoSeparator    = errors.New("rawhttp: header/body separator not found")
	ErrRequestLine    = errors.New("rawhttp: malformed request line")
	ErrHeader         = errors.New("rawhttp: malformed header")
	ErrEncoding       = errors.New("rawhttp: request is not valid UTF-8")
	ErrIncompleteBody = errors.New("rawhttp: body shorter than Content-Length")
	ErrContentLength  = errors.New("rawhttp: invalid Content-Length")
)

const _contentLengthName = "content-length"

var separator = []byte("\r\n\r\n")

type Request struct {
	Method  string
	Path    string
	Version string
	// Header keys are lower case.
	Header map[string]string
	Body   []byte
}

// ParseRequest parses one complete request from buf. When buf holds only a
// prefix of a request the error is ErrNoSeparator or ErrIncompleteBody, and
// the caller may read more and try again.
func ParseRequest(buf []byte) (Request, error) {
	end := bytes.Index(buf, separator)

	if !utf8.Valid(buf) {
		if !partialRune(buf) {
			return Request{}, ErrEncoding
		}
		// the last character has not fully arrived
		if end < 0 {
			return Request{}, ErrNoSeparator
		}
		return Request{}, ErrIncompleteBody
	}

	if end < 0 {
		return Request{}, ErrNoSeparator
	}

	lines := strings.Split(string(buf[:end]), "\r\n")

	req, err := parseRequestLine(lines[0])
	if err != nil {
		return Request{}, err
	}

	req.Header = make(map[string]string, len(lines)-1)
	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ":")
		if !ok || name == "" || strings.TrimSpace(name) != name {
			return Request{}, fmt.Errorf("%w: %q", ErrHeader, line)
		}
		req.Header[strings.ToLower(name)] = strings.TrimSpace(value)
	}

	req.Body = buf[end+len(separator):]

	if v, ok := req.Header[_contentLengthName]; ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Request{}, fmt.Errorf("%w: %q", ErrContentLength, v)
		}
		if len(req.Body) < n {
			return Request{}, ErrIncompleteBody
		}
		req.Body = req.Body[:n]
	}

	return req, nil
}

// Incomplete reports whether err means more input could still make a valid request.
func Incomplete(err error) bool {
	return errors.Is(err, ErrNoSeparator) || errors.Is(err, ErrIncompleteBody)
}

// partialRune reports whether buf is valid UTF-8 except for the leading
// bytes of one multi-byte character at its end.
func partialRune(buf []byte) bool {
	start := len(buf) - 1
	for start > 0 && len(buf)-start < utf8.UTFMax && !utf8.RuneStart(buf[start]) {
		start--
	}
	if start < 0 {
		return false
	}

	return !utf8.FullRune(buf[start:]) && utf8.Valid(buf[:start])
}

func parseRequestLine(line string) (Request, error) {
	parts := strings.Split(line, " ")
	if len(parts) != 3 {
		return Request{}, fmt.Errorf("%w: %q", ErrRequestLine, line)
	}

	method, path, version := parts[0], parts[1], parts[2]
	if method == "" || !strings.HasPrefix(path, "/") || !strings.HasPrefix(version, "HTTP/1.") {
		return Request{}, fmt.Errorf("%w: %q", ErrRequestLine, line)
	}

	return Request{Method: method, Path: path, Version: version}, nil
}

// WriteResponse writes a plain text response and asks the peer to close.
func WriteResponse(w io.Writer, code int, body string) error {
	_, err := fmt.Fprintf(w,
		"HTTP/1.1 %d %s\r\nContent-Type: text/plain\r\nContent-Length: %d\r\nConnection: close\r\n\r\n%s",
		code, http.StatusText(code), len(body), body)
	if err != nil {
		return fmt.Errorf("rawhttp - WriteResponse: %w", err)
	}

	return nil
}
