// internal/words/loader.go
//
// Dictionary acquisition for each word length.
//
// Load order for a length n:
//   1. JSON cache file <CacheDir>/wordle_words_<n>.json (array of strings).
//   2. Every configured source URL; the union of n-letter words is written
//      back to the cache.
//   3. The embedded fallback list, only when AllowFallback is set.
//
// Each failed step is logged and the next one is tried. If nothing yields a
// word, Load returns ErrNoWords.

package words

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"

	"github.com/uliiai/Wordle/assets"
)

// Source tells where a dictionary came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceNetwork  Source = "network"
	SourceFallback Source = "fallback"
)

// ErrNoWords is returned when no step produced a single word.
var ErrNoWords = errors.New("words: no words available")

// maxSourceBytes bounds a single downloaded word list.
const maxSourceBytes = 64 << 20

// DefaultSourceURLs are public Russian word lists.
var DefaultSourceURLs = []string{
	"https://raw.githubusercontent.com/danakt/russian-words/master/russian.txt",
	"https://raw.githubusercontent.com/Harrix/Russian-Nouns/main/dist/russian_nouns.txt",
}

// Config controls the loader.
type Config struct {
	CacheDir      string
	SourceURLs    []string
	FetchTimeout  time.Duration
	AllowFallback bool
}

// Loader builds dictionaries following the cache → network → fallback order.
type Loader struct {
	cfg      Config
	client   *http.Client
	fallback func(length int) ([]string, error)
}

// NewLoader constructs a Loader. A zero FetchTimeout means 3s.
func NewLoader(cfg Config) *Loader {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 3 * time.Second
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = "."
	}
	return &Loader{
		cfg:      cfg,
		client:   &http.Client{},
		fallback: assets.FallbackList,
	}
}

// CachePath is the cache file used for words of the given length.
func CachePath(dir string, length int) string {
	return filepath.Join(dir, fmt.Sprintf("wordle_words_%d.json", length))
}

// Load returns the dictionary for length and where it came from.
func (l *Loader) Load(ctx context.Context, length int) (*Dictionary, Source, error) {
	path := CachePath(l.cfg.CacheDir, length)

	if list, err := readCache(path); err == nil {
		if d := NewDictionary(length, list); d.Len() > 0 {
			return d, SourceCache, nil
		}
		log.Warn().Str("path", path).Msg("word cache has no usable words")
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("path", path).Msg("read word cache")
	}

	var fetched []string
	for _, url := range l.cfg.SourceURLs {
		list, err := l.fetch(ctx, url, length)
		if err != nil {
			log.Warn().Err(err).Str("url", url).Int("length", length).Msg("fetch word list")
			continue
		}
		fetched = append(fetched, list...)
	}
	if d := NewDictionary(length, fetched); d.Len() > 0 {
		if err := writeCache(path, d.Words()); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("write word cache")
		}
		return d, SourceNetwork, nil
	}

	if !l.cfg.AllowFallback {
		return nil, "", fmt.Errorf("%w for length %d", ErrNoWords, length)
	}
	list, err := l.fallback(length)
	if err != nil {
		return nil, "", fmt.Errorf("fallback list for length %d: %w", length, err)
	}
	d := NewDictionary(length, list)
	if d.Len() == 0 {
		return nil, "", fmt.Errorf("%w for length %d", ErrNoWords, length)
	}
	log.Warn().Int("length", length).Int("words", d.Len()).Msg("using built-in fallback word list")
	return d, SourceFallback, nil
}

// LoadAll loads one dictionary per length.
func (l *Loader) LoadAll(ctx context.Context, lengths []int) (Set, error) {
	set := make(Set, len(lengths))
	for _, n := range lengths {
		d, src, err := l.Load(ctx, n)
		if err != nil {
			return nil, err
		}
		log.Info().Int("length", n).Int("words", d.Len()).Str("source", string(src)).Msg("dictionary loaded")
		set[n] = d
	}
	return set, nil
}

// fetch downloads url and extracts the words of the given length.
// Bodies that are not valid UTF-8 are decoded as Windows-1251.
func (l *Loader) fetch(ctx context.Context, url string, length int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if !utf8.Valid(body) {
		if body, err = charmap.Windows1251.NewDecoder().Bytes(body); err != nil {
			return nil, fmt.Errorf("decode cp1251: %w", err)
		}
	}
	return Extract(string(body), length), nil
}

func readCache(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return list, nil
}

// writeCache replaces path atomically.
func writeCache(path string, list []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".wordle_words_*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := json.NewEncoder(tmp).Encode(list); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Set maps a word length to its dictionary.
type Set map[int]*Dictionary

// Get returns the dictionary for length, if loaded.
func (s Set) Get(length int) (*Dictionary, bool) {
	d, ok := s[length]
	return d, ok
}

// Lengths returns the loaded lengths in ascending order.
func (s Set) Lengths() []int {
	out := make([]int, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
