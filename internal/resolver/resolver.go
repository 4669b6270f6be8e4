package resolver

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"materialsmc/internal/blob"
	"materialsmc/internal/ledger"
	"materialsmc/internal/observability"
	"materialsmc/pkg/errdefs"
)

// S3Opener returns a store reading the named bucket.
type S3Opener func(ctx context.Context, bucket string) (blob.Store, error)

// Resolved describes where dataset bytes came from.
type Resolved struct {
	Name     string
	Source   string
	Kind     Kind
	Location string // file path or remote URL
	CacheKey string // empty for local paths
	CacheHit bool
}

// Resolver fetches dataset bytes for nuclides. Remote sources are cached in a
// blob.Store and recorded in a ledger. It is safe for concurrent use; callers
// collapse duplicate requests for one nuclide themselves.
type Resolver struct {
	cache  blob.Store
	ledger ledger.Store
	client *http.Client
	s3     S3Opener
	obs    observability.Observer
	now    func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets the client used for http(s) downloads.
func WithHTTPClient(c *http.Client) Option { return func(r *Resolver) { r.client = c } }

// WithLedger records each download in l.
func WithLedger(l ledger.Store) Option { return func(r *Resolver) { r.ledger = l } }

// WithObserver sets logging, metrics and tracing hooks.
func WithObserver(o observability.Observer) Option { return func(r *Resolver) { r.obs = o } }

// WithS3Opener sets how s3:// sources reach their bucket.
func WithS3Opener(fn S3Opener) Option { return func(r *Resolver) { r.s3 = fn } }

// WithS3Config reads s3:// sources with credentials and endpoint from cfg;
// the bucket comes from each source.
func WithS3Config(cfg blob.S3Config) Option {
	return WithS3Opener(func(ctx context.Context, bucket string) (blob.Store, error) {
		c := cfg
		c.Bucket = bucket
		c.Prefix = ""
		return blob.NewS3(ctx, c)
	})
}

// New returns a Resolver caching downloads in cache. A nil cache uses an
// in-memory store.
func New(cache blob.Store, opts ...Option) *Resolver {
	if cache == nil {
		cache = blob.NewMemory()
	}
	r := &Resolver{cache: cache, client: &http.Client{Timeout: 2 * time.Minute}, now: time.Now}
	WithS3Config(blob.S3Config{})(r)
	for _, opt := range opts {
		opt(r)
	}
	r.obs = r.obs.Normalize()
	return r
}

// Cache returns the blob store holding downloads.
func (r *Resolver) Cache() blob.Store { return r.cache }

// Locate classifies source for name and returns the path or URL to read.
func Locate(name, source string) (Kind, string, error) {
	kind := Classify(source)
	src := strings.TrimSpace(source)
	switch kind {
	case KindPath:
		return kind, src, nil
	case KindKeyword:
		u, _ := Expand(src, name)
		return kind, u, nil
	case KindURL, KindS3:
		if strings.HasSuffix(src, "/") {
			return kind, src + name + ".json", nil
		}
		return kind, src, nil
	default:
		return kind, "", errdefs.Resolution(observability.OpResolve, name, "unknown keyword %q (known: %s)", source, strings.Join(KeywordNames(), ", "))
	}
}

// Open returns a reader over the dataset for name. The caller closes it.
func (r *Resolver) Open(ctx context.Context, name, source string) (rc io.ReadCloser, res Resolved, err error) {
	ctx, done := r.obs.Track(ctx, observability.OpResolve)
	defer func() { done(err) }()
	kind, loc, err := Locate(name, source)
	if err != nil {
		return nil, Resolved{}, err
	}
	res = Resolved{Name: name, Source: source, Kind: kind, Location: loc}
	if kind == KindPath {
		f, err := os.Open(loc)
		if err != nil {
			return nil, res, errdefs.IO(observability.OpResolve, name, err)
		}
		return f, res, nil
	}
	res.CacheKey = CacheKey(name, source)
	info, body, err := r.cache.Get(ctx, res.CacheKey)
	switch {
	case err == nil:
		res.CacheHit = true
		r.obs.Logger.Debug("nuclide cache hit", "nuclide", name, "key", res.CacheKey)
		// direct sources share one key per name, so the cached copy may come
		// from another URL; Evict forces a fresh download
		if cached := info.Metadata["url"]; cached != "" && cached != loc {
			r.obs.Logger.Warn("cached nuclide was fetched from a different location",
				"nuclide", name, "key", res.CacheKey, "cached_url", cached, "requested_url", loc)
		}
		return body, res, nil
	case !errors.Is(err, blob.ErrNotFound):
		return nil, res, errdefs.IO(observability.OpResolve, name, err)
	}
	data, err := r.download(ctx, name, kind, loc)
	if err != nil {
		return nil, res, err
	}
	r.store(ctx, res, data)
	return io.NopCloser(bytes.NewReader(data)), res, nil
}

// Fetch is Open followed by a full read.
func (r *Resolver) Fetch(ctx context.Context, name, source string) ([]byte, Resolved, error) {
	rc, res, err := r.Open(ctx, name, source)
	if err != nil {
		return nil, res, err
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, res, errdefs.IO(observability.OpResolve, name, err)
	}
	return data, res, nil
}

// Evict drops the cached copy of name from source and its ledger record, so the
// next Open downloads again. Local paths have nothing to evict.
func (r *Resolver) Evict(ctx context.Context, name, source string) (bool, error) {
	if kind := Classify(source); kind == KindPath || kind == KindUnknown {
		return false, nil
	}
	key := CacheKey(name, source)
	removed, err := r.cache.Delete(ctx, key)
	if err != nil {
		return false, errdefs.IO("evict_nuclide", name, err)
	}
	if r.ledger != nil {
		if _, err := r.ledger.Delete(ctx, key); err != nil {
			r.obs.Logger.Warn("ledger delete failed", "nuclide", name, "key", key, "error", err)
		}
	}
	return removed, nil
}

func (r *Resolver) download(ctx context.Context, name string, kind Kind, loc string) (data []byte, err error) {
	ctx, done := r.obs.Track(ctx, observability.OpDownload)
	defer func() { done(err) }()
	r.obs.Logger.Info("downloading nuclide", "nuclide", name, "url", loc)
	if kind == KindS3 {
		return r.downloadS3(ctx, name, loc)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc, nil)
	if err != nil {
		return nil, errdefs.IO(observability.OpDownload, name, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, errdefs.IO(observability.OpDownload, name, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errdefs.IO(observability.OpDownload, name, fmt.Errorf("GET %s: %s", loc, resp.Status))
	}
	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, errdefs.IO(observability.OpDownload, name, err)
	}
	return data, nil
}

func (r *Resolver) downloadS3(ctx context.Context, name, loc string) ([]byte, error) {
	bucket, key, err := splitS3(loc)
	if err != nil {
		return nil, errdefs.Resolution(observability.OpDownload, name, "%v", err)
	}
	store, err := r.s3(ctx, bucket)
	if err != nil {
		return nil, errdefs.IO(observability.OpDownload, name, err)
	}
	_, body, err := store.Get(ctx, key)
	if err != nil {
		return nil, errdefs.IO(observability.OpDownload, name, err)
	}
	defer func() { _ = body.Close() }()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errdefs.IO(observability.OpDownload, name, err)
	}
	return data, nil
}

// store writes data to the cache and the ledger. Failures only cost a future
// re-download, so they are logged rather than returned.
func (r *Resolver) store(ctx context.Context, res Resolved, data []byte) {
	sum := sha256.Sum256(data)
	_, err := r.cache.Put(ctx, res.CacheKey, bytes.NewReader(data), blob.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"nuclide": res.Name, "source": res.Source, "url": res.Location},
	})
	switch {
	case errors.Is(err, blob.ErrExists):
		// another process cached it first; its copy is equivalent
	case err != nil:
		r.obs.Logger.Warn("caching nuclide failed", "nuclide", res.Name, "key", res.CacheKey, "error", err)
		return
	}
	if r.ledger == nil {
		return
	}
	rec := ledger.Record{
		Key: res.CacheKey, Nuclide: res.Name, Source: res.Source, URL: res.Location,
		SHA256: hex.EncodeToString(sum[:]), Size: int64(len(data)), FetchedAt: r.now().UTC(),
	}
	if err := r.ledger.Put(ctx, rec); err != nil {
		r.obs.Logger.Warn("ledger write failed", "nuclide", res.Name, "key", res.CacheKey, "error", err)
	}
}
