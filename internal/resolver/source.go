// Package resolver turns a nuclide name and its configured source into dataset
// bytes, downloading remote sources once into the blob cache.
package resolver

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Kind classifies a configured source.
type Kind int

const (
	KindUnknown Kind = iota
	KindPath
	KindURL
	KindKeyword
	KindS3
)

func (k Kind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindURL:
		return "url"
	case KindKeyword:
		return "keyword"
	case KindS3:
		return "s3"
	default:
		return "unknown"
	}
}

// DirectSourceID names the cache directory of sources given as raw URLs.
const DirectSourceID = "direct"

const dataRepo = "https://raw.githubusercontent.com/fusion-neutronics/"

// Keywords maps dataset release names to URL templates. A nuclide URL is the
// template followed by "<name>.json".
var Keywords = map[string]string{
	"tendl-21":   dataRepo + "cross_section_data_tendl_2021/refs/heads/main/tendl_2021/",
	"fendl-3.2c": dataRepo + "cross_section_data_fendl_3.2c/refs/heads/main/fendl_3.2c/",
	"endfb-8.0":  dataRepo + "cross_section_data_endfb_8.0/refs/heads/main/endfb_8.0/",
	"jeff-3.3":   dataRepo + "cross_section_data_jeff_3.3/refs/heads/main/jeff_3.3/",
}

// KeywordNames returns the known keywords, sorted.
func KeywordNames() []string {
	out := make([]string, 0, len(Keywords))
	for k := range Keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsKeyword reports whether source is a known dataset keyword.
func IsKeyword(source string) bool {
	_, ok := Keywords[strings.ToLower(strings.TrimSpace(source))]
	return ok
}

// Expand returns the URL of name within the keyword's dataset.
func Expand(keyword, name string) (string, bool) {
	tmpl, ok := Keywords[strings.ToLower(strings.TrimSpace(keyword))]
	if !ok {
		return "", false
	}
	return tmpl + name + ".json", true
}

// Classify decides how source is fetched. Sources that are neither URLs nor
// keywords count as paths when they exist on disk, contain a path separator
// or end in ".json"; anything else is KindUnknown.
func Classify(source string) Kind {
	s := strings.TrimSpace(source)
	lower := strings.ToLower(s)
	switch {
	case s == "":
		return KindUnknown
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return KindURL
	case strings.HasPrefix(lower, "s3://"):
		return KindS3
	case IsKeyword(s):
		return KindKeyword
	}
	if strings.ContainsAny(s, `/\`) || strings.HasSuffix(lower, ".json") || filepath.IsAbs(s) {
		return KindPath
	}
	if _, err := os.Stat(s); err == nil {
		return KindPath
	}
	return KindUnknown
}

// SourceID is the cache namespace of a remote source: the keyword itself, or
// DirectSourceID for raw URLs.
func SourceID(source string) string {
	if IsKeyword(source) {
		return strings.ToLower(strings.TrimSpace(source))
	}
	return DirectSourceID
}

// CacheKey derives the blob key for name fetched from source.
func CacheKey(name, source string) string {
	return SourceID(source) + "/" + name + ".json"
}

// splitS3 parses s3://bucket/key.
func splitS3(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	key = strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return "", "", fmt.Errorf("s3 source %q needs bucket and key", raw)
	}
	return u.Host, key, nil
}
