package render

import (
	"image"
	"testing"
)

func countingDraw(calls map[string]int) func(string, float64) image.Image {
	return func(text string, size float64) image.Image {
		calls[text]++
		return image.NewRGBA(image.Rect(0, 0, len(text)+1, int(size)))
	}
}

func TestLabelCacheHit(t *testing.T) {
	calls := map[string]int{}
	c := NewLabelCache(4, countingDraw(calls))

	a := c.Get("3", 18)
	b := c.Get("3", 18)
	if a != b {
		t.Error("Expected the cached image on the second Get")
	}
	if calls["3"] != 1 {
		t.Errorf("Expected one draw, got %d", calls["3"])
	}

	// Size is part of the key
	c.Get("3", 24)
	if calls["3"] != 2 {
		t.Errorf("Expected a second draw for a new size, got %d", calls["3"])
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("Expected 1 hit and 2 misses, got %d/%d", hits, misses)
	}
}

func TestLabelCacheEvictsLeastRecentlyUsed(t *testing.T) {
	calls := map[string]int{}
	c := NewLabelCache(2, countingDraw(calls))

	c.Get("a", 10)
	c.Get("b", 10)
	c.Get("a", 10) // a is now most recent
	c.Get("c", 10) // evicts b

	if c.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", c.Len())
	}

	c.Get("a", 10)
	if calls["a"] != 1 {
		t.Errorf("a should still be cached, drawn %d times", calls["a"])
	}
	c.Get("b", 10)
	if calls["b"] != 2 {
		t.Errorf("b should have been evicted, drawn %d times", calls["b"])
	}
}

func TestLabelCacheDefaultSize(t *testing.T) {
	c := NewLabelCache(0, countingDraw(map[string]int{}))
	if c.maxSize != DefaultMaxLabels {
		t.Errorf("Expected default size %d, got %d", DefaultMaxLabels, c.maxSize)
	}
}
