package driver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskCacheAt: %v", err)
	}
	key := NewCacheKey("trailing-whitespace;limit=80", "0.1.0", []byte("x = 1\n"))

	var out CachePayload
	hit, err := cache.Get(key, &out)
	if err != nil || hit {
		t.Fatalf("Get on empty cache = %v, %v", hit, err)
	}

	if err := cache.Put(key, &CachePayload{Path: "a.py", Size: 6, Overlong: []int{3}}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	hit, err = cache.Get(key, &out)
	if err != nil || !hit {
		t.Fatalf("Get = %v, %v; want hit", hit, err)
	}
	if out.Path != "a.py" || out.Size != 6 || len(out.Overlong) != 1 || out.Overlong[0] != 3 {
		t.Errorf("payload = %+v", out)
	}

	entries, err := os.ReadDir(filepath.Join(cache.Dir(), "clean"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != key.String()+".mp" {
		t.Errorf("cache dir holds %v", entries)
	}
}

func TestCacheKeyDependsOnInputs(t *testing.T) {
	base := NewCacheKey("fp", "v1", []byte("x"))
	for name, other := range map[string]CacheKey{
		"fingerprint": NewCacheKey("fp2", "v1", []byte("x")),
		"salt":        NewCacheKey("fp", "v2", []byte("x")),
		"content":     NewCacheKey("fp", "v1", []byte("y")),
	} {
		if other == base {
			t.Errorf("key does not change with %s", name)
		}
	}
	if NewCacheKey("fp", "v1", []byte("x")) != base {
		t.Error("key is not deterministic")
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "white"))
	if err != nil {
		t.Fatal(err)
	}
	key := NewCacheKey("fp", "v", nil)
	if err := cache.Put(key, &CachePayload{Path: "a.py"}); err != nil {
		t.Fatal(err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	var out CachePayload
	if hit, err := cache.Get(key, &out); err != nil || hit {
		t.Errorf("Get after DropAll = %v, %v", hit, err)
	}
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(CacheKey{}, &CachePayload{}); err != nil {
		t.Errorf("Put on nil cache: %v", err)
	}
	if hit, err := cache.Get(CacheKey{}, &CachePayload{}); hit || err != nil {
		t.Errorf("Get on nil cache = %v, %v", hit, err)
	}
}
