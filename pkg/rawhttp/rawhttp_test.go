package rawhttp

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net/http"
	"testing"
)

func TestParseRequest(t *testing.T) {
	raw := "POST /authorised HTTP/1.1\r\nHost: gateway\r\nContent-Type: application/json\r\nContent-Length: 17\r\n\r\n{\"id\":\"a\",\"x\":1}\n"

	req, err := ParseRequest([]byte(raw))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if req.Method != "POST" || req.Path != "/authorised" || req.Version != "HTTP/1.1" {
		t.Errorf("request line = %s %s %s", req.Method, req.Path, req.Version)
	}
	if req.Header["content-type"] != "application/json" || req.Header["host"] != "gateway" {
		t.Errorf("headers = %v", req.Header)
	}
	if string(req.Body) != "{\"id\":\"a\",\"x\":1}\n" {
		t.Errorf("body = %q", req.Body)
	}
}

func TestParseRequestWithoutContentLength(t *testing.T) {
	req, err := ParseRequest([]byte("POST /authorised HTTP/1.0\r\n\r\n{}"))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if string(req.Body) != "{}" || len(req.Header) != 0 {
		t.Errorf("got %+v", req)
	}
}

func TestParseRequestErrors(t *testing.T) {
	tests := []struct {
		name       string
		raw        []byte
		want       error
		incomplete bool
	}{
		{"no separator", []byte("POST /authorised HTTP/1.1\r\nHost: x\r\n"), ErrNoSeparator, true},
		{"short body", []byte("POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\n{}"), ErrIncompleteBody, true},
		{"bad request line", []byte("POST\r\n\r\n"), ErrRequestLine, false},
		{"relative path", []byte("POST authorised HTTP/1.1\r\n\r\n"), ErrRequestLine, false},
		{"not http", []byte("POST / SPDY/3\r\n\r\n"), ErrRequestLine, false},
		{"header without colon", []byte("GET / HTTP/1.1\r\nbroken\r\n\r\n"), ErrHeader, false},
		{"bad content length", []byte("GET / HTTP/1.1\r\nContent-Length: -1\r\n\r\n"), ErrContentLength, false},
		{"invalid utf8", []byte("POST / HTTP/1.1\r\n\r\n\xff\xfe"), ErrEncoding, false},
		{"invalid utf8 before last character", []byte("POST / HTTP/1.1\r\n\r\n\xffcaf\xc3"), ErrEncoding, false},
		{"split character in headers", []byte("POST / HTTP/1.1\r\nX-Name: caf\xc3"), ErrNoSeparator, true},
		{"split character in body", []byte("POST / HTTP/1.1\r\nContent-Length: 6\r\n\r\n\"caf\xc3"), ErrIncompleteBody, true},
		{"split three byte character", []byte("POST / HTTP/1.1\r\n\r\n\xe2\x82"), ErrIncompleteBody, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest(tt.raw)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if Incomplete(err) != tt.incomplete {
				t.Errorf("Incomplete = %v, want %v", Incomplete(err), tt.incomplete)
			}
		})
	}
}

func TestParseRequestAfterSplitCharacterArrives(t *testing.T) {
	raw := []byte("POST /authorised HTTP/1.1\r\nContent-Length: 7\r\n\r\n\"café\"")
	cut := bytes.IndexByte(raw, 0xc3) + 1

	if _, err := ParseRequest(raw[:cut]); !Incomplete(err) {
		t.Fatalf("prefix err = %v, want incomplete", err)
	}

	req, err := ParseRequest(raw)
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if string(req.Body) != "\"café\"" {
		t.Errorf("body = %q", req.Body)
	}
}

func TestWriteResponseIsValidHTTP(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResponse(&buf, http.StatusBadRequest, "Invalid JSON payload"); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}

	resp, err := http.ReadResponse(bufio.NewReader(&buf), nil)
	if err != nil {
		t.Fatalf("http.ReadResponse: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusBadRequest || string(body) != "Invalid JSON payload" {
		t.Errorf("got %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get("Content-Type") != "text/plain" || !resp.Close {
		t.Errorf("headers = %v close=%v", resp.Header, resp.Close)
	}
}
