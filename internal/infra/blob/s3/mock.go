package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewMockForTests returns a Store backed by an in-memory fake HTTP transport
// speaking the subset of S3 the store uses.
func NewMockForTests() *Store {
	return newMock("mock-bucket", "", 0)
}

func newMock(bucket, prefix string, pageSize int) *Store {
	rt := &mockRoundTripper{state: make(map[string]mockObj), pageSize: pageSize}
	client, _ := NewClient(context.Background(), Config{Region: "us-east-1", AccessKeyID: "AKIA", SecretAccessKey: "SECRET"})
	client = s3.New(client.Options(), func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

// mockRoundTripper handles Head/Get/Put/Delete/ListObjectsV2. List pages are
// pageSize keys long when pageSize > 0.
type mockRoundTripper struct {
	mu       sync.Mutex
	state    map[string]mockObj
	pageSize int
}

type mockObj struct {
	body        []byte
	contentType string
	meta        http.Header
}

func (m *mockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) { //nolint:cyclop
	m.mu.Lock()
	defer m.mu.Unlock()
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	if req.Method == http.MethodGet && strings.Contains(req.URL.RawQuery, "list-type=2") {
		return m.list(req), nil
	}
	switch req.Method {
	case http.MethodHead:
		if st, ok := m.state[key]; ok {
			return respond(http.StatusOK, nil, st.headers()), nil
		}
		return respond(http.StatusNotFound, nil, http.Header{}), nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		meta := http.Header{}
		for h, v := range req.Header {
			if strings.HasPrefix(strings.ToLower(h), "x-amz-meta-") {
				meta[h] = v
			}
		}
		if _, exists := m.state[key]; !exists {
			m.state[key] = mockObj{body: body, contentType: req.Header.Get("Content-Type"), meta: meta}
		}
		return respond(http.StatusOK, nil, http.Header{"ETag": {"\"etag\""}}), nil
	case http.MethodGet:
		if st, ok := m.state[key]; ok {
			return respond(http.StatusOK, st.body, st.headers()), nil
		}
		body := []byte("<?xml version=\"1.0\"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>")
		return respond(http.StatusNotFound, body, http.Header{"Content-Type": {"application/xml"}}), nil
	case http.MethodDelete:
		delete(m.state, key)
		return respond(http.StatusNoContent, nil, http.Header{}), nil
	}
	return respond(http.StatusNotImplemented, nil, http.Header{}), nil
}

func (m *mockRoundTripper) list(req *http.Request) *http.Response {
	prefix := req.URL.Query().Get("prefix")
	start, _ := strconv.Atoi(req.URL.Query().Get("continuation-token"))
	var keys []string
	for k := range m.state {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	end := len(keys)
	if m.pageSize > 0 && start+m.pageSize < end {
		end = start + m.pageSize
	}
	if start > end {
		start = end
	}
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\"?><ListBucketResult>")
	if end < len(keys) {
		fmt.Fprintf(&b, "<IsTruncated>true</IsTruncated><NextContinuationToken>%d</NextContinuationToken>", end)
	} else {
		b.WriteString("<IsTruncated>false</IsTruncated>")
	}
	for _, k := range keys[start:end] {
		fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2024-01-01T00:00:00Z</LastModified></Contents>", k, len(m.state[k].body))
	}
	b.WriteString("</ListBucketResult>")
	return respond(http.StatusOK, []byte(b.String()), http.Header{"Content-Type": {"application/xml"}})
}

func (o mockObj) headers() http.Header {
	h := http.Header{
		"Content-Length": {strconv.Itoa(len(o.body))},
		"Content-Type":   {o.contentType},
		"ETag":           {"\"etag123\""},
		"Last-Modified":  {time.Now().UTC().Format(http.TimeFormat)},
	}
	for k, v := range o.meta {
		h[k] = v
	}
	return h
}

func respond(status int, body []byte, h http.Header) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewReader(body)), Header: h}
}

// decodeChunked decodes a single-chunk aws-chunked payload: <hex>\r\n<body>\r\n0\r\n...
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 {
		return nil, false
	}
	n, err := strconv.ParseInt(strings.SplitN(parts[0], ";", 2)[0], 16, 64)
	if err != nil || n <= 0 || int64(len(parts[1])) != n || parts[2] != "0" && !strings.HasPrefix(parts[2], "0;") {
		return nil, false
	}
	return []byte(parts[1]), true
}
