package strategy

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed fixtures/*.json
var fixtureFiles embed.FS

// Profile identifies a selectable demo profile.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
}

// BuiltinProfiles lists the demo profiles bundled with the binary, in the
// order they should be offered.
func BuiltinProfiles() []Profile {
	return []Profile{
		{ID: "startup-founder", Name: "Sarah Chen - Startup Founder"},
		{ID: "research-scientist", Name: "Dr. James Rodriguez - Research Scientist"},
	}
}

// FixtureSource serves the embedded demo profiles.
type FixtureSource struct{}

// Fetch decodes the bundled fixture for a profile id, or ErrNotFound if no
// fixture with that id is bundled.
func (FixtureSource) Fetch(ctx context.Context, profileID string) (*CaseStrategy, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	blob, err := fixtureFiles.ReadFile("fixtures/" + profileID + ".json")
	if err != nil {
		return nil, ErrNotFound
	}
	var s CaseStrategy
	if err := json.Unmarshal(blob, &s); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", profileID, err)
	}
	return &s, nil
}
