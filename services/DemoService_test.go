package services

import (
	"errors"
	"testing"
)

func TestDemoLifecycle(t *testing.T) {
	f := newFixture(t)
	alice := f.repos.SeedUser(t, "alice")
	bob := f.repos.SeedUser(t, "bob")

	if _, err := f.demos.Upload(ctx, alice.ID, "untitled", nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("missing file = %v, want ErrInvalidInput", err)
	}
	file := textUpload("demo.wav", "audio/wav", "riff")
	demo, err := f.demos.Upload(ctx, alice.ID, " sketch ", &file)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if demo.Title != "sketch" || !f.repos.Files.Has(demo.FileID) {
		t.Errorf("demo = %+v", demo)
	}

	list, err := f.demos.ListByUsername(ctx, "alice")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListByUsername = %v, %v", list, err)
	}

	if err := f.demos.Delete(ctx, bob.ID, demo.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("delete by other = %v, want ErrForbidden", err)
	}
	if err := f.demos.Delete(ctx, alice.ID, demo.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if f.repos.Files.Has(demo.FileID) {
		t.Error("demo file still stored")
	}
}
