package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Source supplies the initial document for a profile id, e.g. a bundled
// fixture or a static JSON resource over HTTP.
type Source interface {
	Fetch(ctx context.Context, profileID string) (*CaseStrategy, error)
}

// Loader is a write-through cache over a Repo: the first load for a profile
// id consults the Source and stores the result; every later load is served
// from the Repo, even if the Source changes. Staleness is resolved only by
// an explicit Invalidate.
type Loader struct {
	Repo   Repo
	Source Source
}

// Load returns the strategy for a profile id, fetching and caching it from
// the Source on first access.
func (l *Loader) Load(ctx context.Context, profileID string) (*CaseStrategy, error) {
	s, err := l.Repo.Get(ctx, profileID)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	s, err = l.Source.Fetch(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if err := l.Repo.Save(ctx, profileID, s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return s, nil
}

// Invalidate drops the cached record so the next Load refetches from the
// Source.
func (l *Loader) Invalidate(ctx context.Context, profileID string) error {
	return l.Repo.Clear(ctx, profileID)
}

// HTTPSource fetches fixture documents from a base URL, one JSON file per
// profile id.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// Fetch downloads and decodes <BaseURL>/<profileID>.json.
func (h *HTTPSource) Fetch(ctx context.Context, profileID string) (*CaseStrategy, error) {
	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	url := h.BaseURL + "/" + profileID + ".json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var s CaseStrategy
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	return &s, nil
}
