package embed

import (
	"context"
	"reflect"
	"testing"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(10)
	ctx := context.Background()

	vec := []float32{0.1, -0.2, 0.3}
	if err := c.Put(ctx, "key1", vec); err != nil {
		t.Fatal(err)
	}

	got, ok, err := c.Get(ctx, "key1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || !reflect.DeepEqual(got, vec) {
		t.Errorf("Get() = (%v, %v), want stored vector", got, ok)
	}

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Error("Get(missing) = true, want miss")
	}
}

func TestMemoryCacheCopies(t *testing.T) {
	c := NewMemoryCache(10)
	ctx := context.Background()

	vec := []float32{1, 2}
	c.Put(ctx, "key1", vec)
	vec[0] = 99

	got, _, _ := c.Get(ctx, "key1")
	if got[0] != 1 {
		t.Error("cache shares memory with the caller's slice")
	}

	got[1] = 99
	again, _, _ := c.Get(ctx, "key1")
	if again[1] != 2 {
		t.Error("cache returns its internal slice")
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	c := NewMemoryCache(2)
	ctx := context.Background()

	c.Put(ctx, "a", []float32{1})
	c.Put(ctx, "b", []float32{2})

	// Touch "a" so "b" is the oldest.
	c.Get(ctx, "a")

	c.Put(ctx, "c", []float32{3})

	if _, ok, _ := c.Get(ctx, "b"); ok {
		t.Error("least recently used entry was not evicted")
	}
	if _, ok, _ := c.Get(ctx, "a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}
}

func TestVectorBytesRoundTrip(t *testing.T) {
	vec := []float32{0, 1.5, -2.25, 3.14159}

	got := bytesToVector(vectorToBytes(vec))
	if !reflect.DeepEqual(got, vec) {
		t.Errorf("round trip = %v, want %v", got, vec)
	}

	if len(bytesToVector(nil)) != 0 {
		t.Error("empty bytes should decode to empty vector")
	}
}

func TestKeyIsContentAddressed(t *testing.T) {
	k1 := Key("model-a", "text")
	k2 := Key("model-a", "text")
	if k1 != k2 {
		t.Error("identical inputs produced different keys")
	}

	if Key("model-a", "text") == Key("model-b", "text") {
		t.Error("different models share a key")
	}
	if Key("model-a", "text") == Key("model-a", "other") {
		t.Error("different texts share a key")
	}
}

func TestL2Normalize(t *testing.T) {
	got := l2Normalize([]float32{3, 4})
	if got[0] != 0.6 || got[1] != 0.8 {
		t.Errorf("l2Normalize = %v, want [0.6 0.8]", got)
	}

	zero := l2Normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector changed: %v", zero)
	}
}
