package taxonomy

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Format is the encoding of a taxonomy document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const (
	acceptHeader    = "application/json, application/yaml;q=0.9"
	contentEncoding = "gzip"
	defaultAgent    = "resume-matcher"
)

// Source supplies the raw taxonomy document.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string
	Read(ctx context.Context) ([]byte, Format, error)
}

// NewSource picks an HTTPSource for http(s) URLs and a FileSource otherwise.
func NewSource(location string) Source {
	location = strings.TrimSpace(location)
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return &HTTPSource{URL: location}
	}
	return &FileSource{Path: location}
}

// FileSource reads a local json or yaml document. The format is taken from
// the file extension; anything but .yaml and .yml is read as json.
type FileSource struct {
	Path string
}

func (s *FileSource) Name() string {
	return s.Path
}

func (s *FileSource) Read(ctx context.Context) ([]byte, Format, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, "", err
	}
	return data, formatFromExt(filepath.Ext(s.Path)), nil
}

// HTTPSource downloads the document with a GET request. Gzip-encoded
// responses are decompressed.
type HTTPSource struct {
	URL       string
	Client    *http.Client
	UserAgent string
	Logger    *zap.Logger
}

func (s *HTTPSource) Name() string {
	return s.URL
}

func (s *HTTPSource) Read(ctx context.Context) ([]byte, Format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, "", err
	}
	s.setHeaders(req)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	if s.Logger != nil {
		s.Logger.Debug("make request", zap.String("url", req.URL.String()))
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("bad status: %s", resp.Status)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, "", err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", err
	}

	return data, s.format(resp), nil
}

func (s *HTTPSource) setHeaders(req *http.Request) {
	agent := s.UserAgent
	if agent == "" {
		agent = defaultAgent
	}
	req.Header.Set("User-Agent", agent)
	req.Header.Set("Accept", acceptHeader)
	// Setting the header by hand turns off transparent decompression in
	// net/http, so the body is unpacked in Read.
	req.Header.Set("Accept-Encoding", contentEncoding)
}

func (s *HTTPSource) format(resp *http.Response) Format {
	if strings.Contains(resp.Header.Get("Content-Type"), "yaml") {
		return FormatYAML
	}
	if u, err := url.Parse(s.URL); err == nil {
		return formatFromExt(path.Ext(u.Path))
	}
	return FormatJSON
}

func formatFromExt(ext string) Format {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
