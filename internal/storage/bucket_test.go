// bucket_test.go - Tests for bucket store key mapping and URL building
package storage

import (
	"testing"
)

func createTestBucketStore(t *testing.T, prefix, publicBase string) *BucketStore {
	t.Helper()
	client, err := NewBucketClient("localhost:9000", "access", "secret", false)
	if err != nil {
		t.Fatalf("Failed to create bucket client: %v", err)
	}
	return NewBucketStore(client, "buddies", prefix, publicBase)
}

func TestBucketStoreURL(t *testing.T) {
	t.Run("public base with prefix", func(t *testing.T) {
		s := createTestBucketStore(t, "/art/", "https://cdn.example.com/")

		got := s.URL("images/1.png")
		want := "https://cdn.example.com/art/images/1.png"
		if got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	})

	t.Run("leading slash in key is dropped", func(t *testing.T) {
		s := createTestBucketStore(t, "art", "https://cdn.example.com")

		got := s.URL("/images/1.png")
		want := "https://cdn.example.com/art/images/1.png"
		if got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	})

	t.Run("empty prefix", func(t *testing.T) {
		s := createTestBucketStore(t, "", "https://cdn.example.com")

		got := s.URL("metadata/7.json")
		want := "https://cdn.example.com/metadata/7.json"
		if got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	})

	t.Run("falls back to endpoint URL", func(t *testing.T) {
		s := createTestBucketStore(t, "art", "")

		got := s.URL("images/1.png")
		want := "http://localhost:9000/buddies/art/images/1.png"
		if got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	})
}

func TestNewBucketClientRejectsBadEndpoint(t *testing.T) {
	if _, err := NewBucketClient("http://bad endpoint", "a", "s", false); err == nil {
		t.Error("Expected error for malformed endpoint")
	}
}
