package words

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"golang.org/x/text/encoding/charmap"
)

func wordListServer(t *testing.T, body []byte, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLoadFromCache(t *testing.T) {
	dir := t.TempDir()
	b, _ := json.Marshal([]string{"сокол", "лампа", "ёлочка"})
	if err := os.WriteFile(CachePath(dir, 5), b, 0o644); err != nil {
		t.Fatal(err)
	}

	d, src, err := NewLoader(Config{CacheDir: dir}).Load(context.Background(), 5)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if src != SourceCache {
		t.Fatalf("source = %s, want cache", src)
	}
	if !reflect.DeepEqual(d.Words(), []string{"лампа", "сокол"}) {
		t.Fatalf("words = %v", d.Words())
	}
}

func TestLoadFromNetworkWritesCache(t *testing.T) {
	dir := t.TempDir()
	a := wordListServer(t, []byte("Сокол\nлампа\nёлочка\n"), http.StatusOK)
	b := wordListServer(t, []byte("метро, сокол"), http.StatusOK)

	l := NewLoader(Config{CacheDir: dir, SourceURLs: []string{a.URL, b.URL}})
	d, src, err := l.Load(context.Background(), 5)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if src != SourceNetwork {
		t.Fatalf("source = %s, want network", src)
	}
	want := []string{"лампа", "метро", "сокол"}
	if !reflect.DeepEqual(d.Words(), want) {
		t.Fatalf("words = %v, want %v", d.Words(), want)
	}

	raw, err := os.ReadFile(CachePath(dir, 5))
	if err != nil {
		t.Fatalf("cache not written: %v", err)
	}
	var cached []string
	if err := json.Unmarshal(raw, &cached); err != nil {
		t.Fatalf("cache is not a JSON array: %v", err)
	}
	if !reflect.DeepEqual(cached, want) {
		t.Fatalf("cached = %v, want %v", cached, want)
	}

	// A second load is served from the cache even with no sources.
	_, src, err = NewLoader(Config{CacheDir: dir}).Load(context.Background(), 5)
	if err != nil || src != SourceCache {
		t.Fatalf("second Load = %s, %v; want cache", src, err)
	}
}

func TestLoadDecodesWindows1251(t *testing.T) {
	body, err := charmap.Windows1251.NewEncoder().Bytes([]byte("ракета\nгазета\nкот\n"))
	if err != nil {
		t.Fatal(err)
	}
	srv := wordListServer(t, body, http.StatusOK)

	d, _, err := NewLoader(Config{CacheDir: t.TempDir(), SourceURLs: []string{srv.URL}}).Load(context.Background(), 6)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !reflect.DeepEqual(d.Words(), []string{"газета", "ракета"}) {
		t.Fatalf("words = %v", d.Words())
	}
}

func TestLoadSkipsFailingSources(t *testing.T) {
	bad := wordListServer(t, []byte("сокол"), http.StatusInternalServerError)
	good := wordListServer(t, []byte("лампа"), http.StatusOK)
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(slow.Close)

	l := NewLoader(Config{
		CacheDir:     t.TempDir(),
		SourceURLs:   []string{bad.URL, slow.URL, good.URL},
		FetchTimeout: 100 * time.Millisecond,
	})
	d, src, err := l.Load(context.Background(), 5)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if src != SourceNetwork || !reflect.DeepEqual(d.Words(), []string{"лампа"}) {
		t.Fatalf("got %s %v", src, d.Words())
	}
}

func TestLoadCorruptCacheFallsThrough(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(CachePath(dir, 5), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := wordListServer(t, []byte("сокол"), http.StatusOK)

	_, src, err := NewLoader(Config{CacheDir: dir, SourceURLs: []string{srv.URL}}).Load(context.Background(), 5)
	if err != nil || src != SourceNetwork {
		t.Fatalf("Load = %s, %v; want network", src, err)
	}
}

func TestLoadFallback(t *testing.T) {
	srv := wordListServer(t, nil, http.StatusNotFound)

	t.Run("disabled", func(t *testing.T) {
		l := NewLoader(Config{CacheDir: t.TempDir(), SourceURLs: []string{srv.URL}})
		_, _, err := l.Load(context.Background(), 5)
		if !errors.Is(err, ErrNoWords) {
			t.Fatalf("error = %v, want ErrNoWords", err)
		}
	})

	for _, n := range []int{5, 6} {
		t.Run(fmt.Sprintf("enabled length %d", n), func(t *testing.T) {
			dir := t.TempDir()
			l := NewLoader(Config{CacheDir: dir, SourceURLs: []string{srv.URL}, AllowFallback: true})
			d, src, err := l.Load(context.Background(), n)
			if err != nil {
				t.Fatalf("Load(%d) error: %v", n, err)
			}
			if src != SourceFallback || d.Len() == 0 {
				t.Fatalf("Load(%d) = %s with %d words", n, src, d.Len())
			}
			for _, w := range d.Words() {
				if !IsWord(w, n) {
					t.Fatalf("fallback word %q is not %d letters", w, n)
				}
			}
			if _, err := os.Stat(CachePath(dir, n)); !errors.Is(err, os.ErrNotExist) {
				t.Fatalf("fallback list must not be cached, stat err = %v", err)
			}
		})
	}

	t.Run("unknown length", func(t *testing.T) {
		l := NewLoader(Config{CacheDir: t.TempDir(), AllowFallback: true})
		if _, _, err := l.Load(context.Background(), 7); err == nil {
			t.Fatal("expected error for length without fallback list")
		}
	})
}

func TestLoadAll(t *testing.T) {
	srv := wordListServer(t, []byte("сокол лампа ракета"), http.StatusOK)
	set, err := NewLoader(Config{CacheDir: t.TempDir(), SourceURLs: []string{srv.URL}}).LoadAll(context.Background(), []int{6, 5})
	if err != nil {
		t.Fatalf("LoadAll error: %v", err)
	}
	if !reflect.DeepEqual(set.Lengths(), []int{5, 6}) {
		t.Fatalf("lengths = %v", set.Lengths())
	}
	if d, ok := set.Get(6); !ok || d.Len() != 1 {
		t.Fatalf("length 6 dictionary = %v, %v", d, ok)
	}
	if _, ok := set.Get(7); ok {
		t.Fatal("unexpected dictionary for length 7")
	}

	if _, err := NewLoader(Config{CacheDir: t.TempDir()}).LoadAll(context.Background(), []int{5}); !errors.Is(err, ErrNoWords) {
		t.Fatalf("LoadAll without sources error = %v, want ErrNoWords", err)
	}
}
