package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/roadwork/pkg/model"
)

// LoadYAML reads a roadmap document from a YAML file. This is the
// primary human-editable on-disk format; dates use RFC 3339 or plain
// "2006-01-02" (yaml.v3 parses both into time.Time).
func LoadYAML(path string) (model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("reading roadmap: %w", err)
	}

	var snap model.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("parsing roadmap: %w", err)
	}

	// Parent ids are implied by nesting in YAML; fill them in so the
	// flattened items carry correct links.
	for i := range snap.Themes {
		for j := range snap.Themes[i].Products {
			p := &snap.Themes[i].Products[j]
			p.ParentID = snap.Themes[i].ID
			for k := range p.Features {
				p.Features[k].ParentID = p.ID
			}
		}
	}

	if err := snap.Validate(); err != nil {
		return model.Snapshot{}, fmt.Errorf("roadmap invalid: %w", err)
	}
	return snap, nil
}

// SaveYAML writes the snapshot as a YAML roadmap document.
func SaveYAML(path string, snap model.Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling roadmap: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing roadmap: %w", err)
	}
	return nil
}
