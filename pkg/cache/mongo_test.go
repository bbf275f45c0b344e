package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

// mongoURI returns the server used by the live tests. They are skipped
// without one.
func mongoURI(t *testing.T) string {
	t.Helper()
	uri := os.Getenv("MINDMAP_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("MINDMAP_TEST_MONGO_URI not set")
	}
	return uri
}

func TestMongoCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewMongoCache(ctx, mongoURI(t), "mindmap_test", "cache_"+time.Now().Format("150405.000000"))
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	t.Cleanup(func() {
		_ = c.collection.Drop(context.Background())
		c.Close()
	})

	if _, hit, err := c.Get(ctx, "layout:abc"); err != nil || hit {
		t.Fatalf("Get on empty = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "layout:abc", []byte(`{"nodes":[]}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:abc")
	if err != nil || !hit || string(data) != `{"nodes":[]}` {
		t.Fatalf("Get = %q, hit %v, err %v", data, hit, err)
	}

	if err := c.Set(ctx, "layout:abc", []byte("v2"), 0); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if data, _, _ := c.Get(ctx, "layout:abc"); string(data) != "v2" {
		t.Errorf("overwrite: got %q", data)
	}

	if err := c.Delete(ctx, "layout:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:abc"); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestMongoCacheExpired(t *testing.T) {
	ctx := context.Background()
	c, err := NewMongoCache(ctx, mongoURI(t), "mindmap_test", "expiry_"+time.Now().Format("150405.000000"))
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	t.Cleanup(func() {
		_ = c.collection.Drop(context.Background())
		c.Close()
	})

	if err := c.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss before the TTL monitor runs")
	}
	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
}

func TestMongoCacheUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewMongoCache(ctx, "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200", "mindmap", "")
	if err == nil {
		t.Fatal("expected an error for an unreachable server")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("error %v should wrap ErrUnavailable", err)
	}
	if !IsRetryable(err) {
		t.Error("connection failure should be retryable")
	}
}
