package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/blang/semver/v4"

	"github.com/amykglen/biolink-explorer/pkg/httputil"
)

const (
	// DefaultOwner and DefaultRepo identify the upstream Biolink Model
	// repository on GitHub.
	DefaultOwner = "biolink"
	DefaultRepo  = "biolink-model"

	// VersionMaster selects the repository's development head instead of
	// a released tag.
	VersionMaster = "master"

	// SchemaFile is the LinkML schema document fetched from each tag.
	SchemaFile = "biolink-model.yaml"

	httpTimeout = 10 * time.Second
	tagsPerPage = 100

	defaultTagsTTL   = 5 * time.Minute
	defaultSchemaTTL = 30 * 24 * time.Hour
)

var (
	// ErrNotFound is returned when a version or schema file doesn't exist upstream.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Client fetches Biolink Model release tags and schema documents from GitHub.
// It handles HTTP requests with caching, automatic retries, and optional
// authentication.
type Client struct {
	http        *http.Client
	tagsCache   *httputil.Cache
	schemaCache *httputil.Cache
	headers     map[string]string

	owner   string
	repo    string
	apiBase string
	rawBase string
}

// Options configures a registry Client. The zero value selects the
// upstream biolink/biolink-model repository with default cache TTLs.
type Options struct {
	// Token is an optional GitHub API token. Unauthenticated requests
	// work but hit lower rate limits.
	Token string

	// CacheDir is where HTTP responses are cached. Empty selects the
	// default directory (see httputil.NewCache).
	CacheDir string

	// TagsTTL bounds how stale the release tag listing may be.
	TagsTTL time.Duration

	// SchemaTTL bounds how long a downloaded schema document is kept.
	// Released tags are immutable, so this can be long.
	SchemaTTL time.Duration

	// Owner and Repo override the upstream repository.
	Owner string
	Repo  string

	// APIBaseURL and RawBaseURL override the GitHub endpoints, mainly
	// for tests.
	APIBaseURL string
	RawBaseURL string
}

// New creates a registry Client for the configured repository.
func New(opts Options) (*Client, error) {
	if opts.Owner == "" {
		opts.Owner = DefaultOwner
	}
	if opts.Repo == "" {
		opts.Repo = DefaultRepo
	}
	if opts.APIBaseURL == "" {
		opts.APIBaseURL = "https://api.github.com"
	}
	if opts.RawBaseURL == "" {
		opts.RawBaseURL = "https://raw.githubusercontent.com"
	}
	if opts.TagsTTL == 0 {
		opts.TagsTTL = defaultTagsTTL
	}
	if opts.SchemaTTL == 0 {
		opts.SchemaTTL = defaultSchemaTTL
	}

	tagsCache, err := httputil.NewCache(opts.CacheDir, opts.TagsTTL)
	if err != nil {
		return nil, err
	}
	schemaCache, err := httputil.NewCache(opts.CacheDir, opts.SchemaTTL)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if opts.Token != "" {
		headers["Authorization"] = "Bearer " + opts.Token
	}

	return &Client{
		http:        &http.Client{Timeout: httpTimeout},
		tagsCache:   tagsCache.Namespace("tags:"),
		schemaCache: schemaCache.Namespace("schema:"),
		headers:     headers,
		owner:       opts.Owner,
		repo:        opts.Repo,
		apiBase:     opts.APIBaseURL,
		rawBase:     opts.RawBaseURL,
	}, nil
}

// Tags lists the repository's release tags, newest first. Tags that parse
// as semantic versions sort by version; anything else sorts after them in
// API order. If refresh is true the cached listing is bypassed.
func (c *Client) Tags(ctx context.Context, refresh bool) ([]string, error) {
	key := c.owner + "/" + c.repo

	var tags []string
	err := c.cached(ctx, c.tagsCache, key, refresh, &tags, func() error {
		fetched, err := c.fetchTags(ctx)
		if err != nil {
			return err
		}
		tags = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// Latest returns the newest release tag.
func (c *Client) Latest(ctx context.Context) (string, error) {
	tags, err := c.Tags(ctx, false)
	if err != nil {
		return "", err
	}
	if len(tags) == 0 {
		return "", fmt.Errorf("%w: no release tags in %s/%s", ErrNotFound, c.owner, c.repo)
	}
	return tags[0], nil
}

// Resolve maps a user-supplied version to a concrete git tag. Empty and
// "latest" select the newest release; "master" passes through; otherwise
// the version is matched against the tag list, tolerating a missing or
// extra "v" prefix. An unmatched version is returned unchanged so that
// branches and commit hashes still work.
func (c *Client) Resolve(ctx context.Context, version string) (string, error) {
	version = strings.TrimSpace(version)
	if version == "" || version == "latest" {
		return c.Latest(ctx)
	}
	if version == VersionMaster {
		return VersionMaster, nil
	}

	tags, err := c.Tags(ctx, false)
	if err != nil {
		return "", err
	}
	for _, candidate := range []string{version, "v" + version, strings.TrimPrefix(version, "v")} {
		for _, tag := range tags {
			if tag == candidate {
				return tag, nil
			}
		}
	}
	return version, nil
}

// Schema downloads the schema document for the given version and returns
// its raw YAML along with the resolved tag. Released tags are served from
// cache when possible; "master" is re-fetched once the short tag TTL
// lapses. If refresh is true all caches are bypassed.
func (c *Client) Schema(ctx context.Context, version string, refresh bool) ([]byte, string, error) {
	tag, err := c.Resolve(ctx, version)
	if err != nil {
		return nil, "", err
	}

	// A master checkout changes under us, so it only gets the short TTL.
	cache := c.schemaCache
	if tag == VersionMaster {
		cache = c.tagsCache
	}

	var text string
	err = c.cached(ctx, cache, tag, refresh, &text, func() error {
		fetched, err := c.fetchSchema(ctx, tag)
		if err != nil {
			return err
		}
		text = fetched
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return []byte(text), tag, nil
}

func (c *Client) fetchTags(ctx context.Context) ([]string, error) {
	var names []string
	for page := 1; ; page++ {
		url := fmt.Sprintf("%s/repos/%s/%s/tags?per_page=%d&page=%d",
			c.apiBase, c.owner, c.repo, tagsPerPage, page)

		var batch []tagResponse
		if err := c.getJSON(ctx, url, &batch); err != nil {
			return nil, err
		}
		for _, t := range batch {
			names = append(names, t.Name)
		}
		if len(batch) < tagsPerPage {
			break
		}
	}
	sortTags(names)
	return names, nil
}

func (c *Client) fetchSchema(ctx context.Context, tag string) (string, error) {
	text, err := c.getText(ctx, c.schemaURL(tag))
	if err == nil {
		return text, nil
	}

	// Some Biolink releases tag as "v4.2.1", others as "4.2.1". Retry
	// with the prefix toggled before giving up.
	if errors.Is(err, ErrNotFound) {
		alt := "v" + tag
		if strings.HasPrefix(tag, "v") {
			alt = strings.TrimPrefix(tag, "v")
		}
		if text, altErr := c.getText(ctx, c.schemaURL(alt)); altErr == nil {
			return text, nil
		}
	}
	return "", fmt.Errorf("schema for %q: %w", tag, err)
}

func (c *Client) schemaURL(tag string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", c.rawBase, c.owner, c.repo, tag, SchemaFile)
}

// cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
func (c *Client) cached(ctx context.Context, cache *httputil.Cache, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if ok, _ := cache.Get(key, v); ok {
			return nil
		}
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	_ = cache.Set(key, v)
	return nil
}

func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()
	return json.NewDecoder(body).Decode(v)
}

func (c *Client) getText(ctx context.Context, url string) (string, error) {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	return string(data), err
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// sortTags orders release tags newest first. Tags that parse as semantic
// versions (with or without a "v" prefix) compare by version; the rest
// keep their API order after the parsed ones.
func sortTags(tags []string) {
	parsed := make(map[string]semver.Version, len(tags))
	for _, tag := range tags {
		if v, err := semver.ParseTolerant(strings.TrimPrefix(tag, "v")); err == nil {
			parsed[tag] = v
		}
	}
	sort.SliceStable(tags, func(i, j int) bool {
		vi, oki := parsed[tags[i]]
		vj, okj := parsed[tags[j]]
		if oki && okj {
			return vi.GT(vj)
		}
		return oki && !okj
	})
}

type tagResponse struct {
	Name string `json:"name"`
}
