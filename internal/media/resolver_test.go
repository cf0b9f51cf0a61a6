package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStoreAndDeleteMedia(t *testing.T) {
	ctx := context.Background()
	store, err := NewDiskStore(filepath.Join(t.TempDir(), "images"))
	if err != nil {
		t.Fatal(err)
	}
	r := NewResolver(store, "http://localhost:4000/media/")

	urls, err := r.StoreMedia(ctx, []Upload{
		{Filename: "a.PNG", Data: []byte("a")},
		{Filename: "b.jpg", Data: []byte("b")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 2 {
		t.Fatalf("urls = %v", urls)
	}
	for _, u := range urls {
		if !strings.HasPrefix(u, "http://localhost:4000/media/") {
			t.Fatalf("url %q has wrong base", u)
		}
		if _, err := os.Stat(filepath.Join(store.Dir(), r.ObjectName(u))); err != nil {
			t.Fatalf("object for %q missing: %v", u, err)
		}
	}
	if !strings.HasSuffix(urls[0], ".png") {
		t.Fatalf("extension not kept: %q", urls[0])
	}

	warnings := r.DeleteMedia(ctx, append(urls, "https://elsewhere.example/x.png"))
	if len(warnings) != 1 || warnings[0].Reference != "https://elsewhere.example/x.png" {
		t.Fatalf("warnings = %+v", warnings)
	}
	for _, u := range urls {
		if _, err := os.Stat(filepath.Join(store.Dir(), r.ObjectName(u))); !os.IsNotExist(err) {
			t.Fatalf("object for %q still present", u)
		}
	}
}

func TestObjectNameRejectsForeignPaths(t *testing.T) {
	r := NewResolver(nil, "http://h/media")
	cases := map[string]string{
		"http://h/media/x.png":       "x.png",
		"http://h/media/../etc/pass": "",
		"http://h/other/x.png":       "",
		"http://h/media/":            "",
	}
	for in, want := range cases {
		if got := r.ObjectName(in); got != want {
			t.Errorf("ObjectName(%q) = %q, want %q", in, got, want)
		}
	}
}

type failingStore struct {
	failOn  int
	saves   int
	removed []string
}

func (s *failingStore) Save(_ context.Context, name string, _ Upload) error {
	s.saves++
	if s.saves == s.failOn {
		return errors.New("disk full")
	}
	return nil
}

func (s *failingStore) Remove(_ context.Context, name string) error {
	s.removed = append(s.removed, name)
	return nil
}

func TestStoreMediaRollsBackOnFailure(t *testing.T) {
	store := &failingStore{failOn: 2}
	r := NewResolver(store, "http://h/media")

	_, err := r.StoreMedia(context.Background(), []Upload{{Filename: "a.png"}, {Filename: "b.png"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(store.removed) != 1 {
		t.Fatalf("removed = %v, want the first object cleaned up", store.removed)
	}
}
