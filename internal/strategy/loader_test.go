package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

type countingSource struct {
	calls int
	doc   *CaseStrategy
}

func (s *countingSource) Fetch(ctx context.Context, profileID string) (*CaseStrategy, error) {
	s.calls++
	if s.doc == nil {
		return nil, ErrNotFound
	}
	return s.doc, nil
}

func TestLoaderFirstLoadWins(t *testing.T) {
	repo := NewMemoryRepo()
	source := &countingSource{doc: testStrategy()}
	loader := &Loader{Repo: repo, Source: source}
	ctx := context.Background()

	first, err := loader.Load(ctx, "startup-founder")
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected 1 fetch, got %d", source.calls)
	}

	// Mutate the record, then change the source; the cached copy must win.
	first.ApplicantName = "changed"
	if err := repo.Save(ctx, "startup-founder", first); err != nil {
		t.Fatalf("save: %v", err)
	}
	source.doc = &CaseStrategy{ApplicantName: "Someone Else"}

	second, err := loader.Load(ctx, "startup-founder")
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected no refetch, got %d calls", source.calls)
	}
	if second.ApplicantName != "changed" {
		t.Fatalf("expected cached copy, got %q", second.ApplicantName)
	}
}

type wrappingMissRepo struct {
	Repo
}

func (r *wrappingMissRepo) Get(ctx context.Context, profileID string) (*CaseStrategy, error) {
	s, err := r.Repo.Get(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("decorated: %w", err)
	}
	return s, nil
}

func TestLoaderHandlesWrappedNotFound(t *testing.T) {
	source := &countingSource{doc: testStrategy()}
	loader := &Loader{Repo: &wrappingMissRepo{Repo: NewMemoryRepo()}, Source: source}

	got, err := loader.Load(context.Background(), "startup-founder")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || source.calls != 1 {
		t.Fatalf("expected one source fetch on wrapped miss, got %d", source.calls)
	}
}

func TestLoaderInvalidateForcesRefetch(t *testing.T) {
	repo := NewMemoryRepo()
	source := &countingSource{doc: testStrategy()}
	loader := &Loader{Repo: repo, Source: source}
	ctx := context.Background()

	if _, err := loader.Load(ctx, "startup-founder"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := loader.Invalidate(ctx, "startup-founder"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := loader.Load(ctx, "startup-founder"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if source.calls != 2 {
		t.Fatalf("expected refetch after invalidate, got %d calls", source.calls)
	}
}

func TestLoaderUnknownProfile(t *testing.T) {
	loader := &Loader{Repo: NewMemoryRepo(), Source: &countingSource{}}
	_, err := loader.Load(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoaderRoundTripPreservesDocument(t *testing.T) {
	repo := NewMemoryRepo()
	source := &countingSource{doc: testStrategy()}
	loader := &Loader{Repo: repo, Source: source}
	ctx := context.Background()

	loaded, err := loader.Load(ctx, "startup-founder")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want, _ := json.Marshal(source.doc)
	got, _ := json.Marshal(loaded)
	if string(want) != string(got) {
		t.Fatalf("document changed across load:\nwant %s\ngot  %s", want, got)
	}
}
