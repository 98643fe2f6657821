// Package catalog holds the demo reference data: personas, videos and the collections
// that group videos into learning paths.
package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
)

//go:embed catalog.yaml
var seedYAML []byte

// Reader is the read-only view of reference data the conversation flow needs.
type Reader interface {
	ListPersonas(ctx context.Context) ([]intakev1.Persona, error)
	// CollectionForPersona returns the active collection targeting the persona, or nil
	// when there is none.
	CollectionForPersona(ctx context.Context, personaID string) (*intakev1.Collection, error)
}

// SeedVideo is a video as written in catalog.yaml.
type SeedVideo struct {
	VideoID         string   `yaml:"video_id"`
	Title           string   `yaml:"title"`
	DurationMinutes int      `yaml:"duration_minutes"`
	Difficulty      string   `yaml:"difficulty"`
	Topic           string   `yaml:"topic"`
	Features        []string `yaml:"features"`
}

// Description and YoutubeURL are placeholders for the demo library.
func (v SeedVideo) Description() string {
	return fmt.Sprintf("Demo description for %s", v.Title)
}

func (v SeedVideo) YoutubeURL() string {
	return fmt.Sprintf("https://youtube.com/watch?v=demo_%s", v.VideoID)
}

// Feature returns the i'th feature tag, or empty.
func (v SeedVideo) Feature(i int) string {
	if i < len(v.Features) {
		return v.Features[i]
	}
	return ""
}

// SeedCollection lists its videos by id in sequence order.
type SeedCollection struct {
	CollectionID     string   `yaml:"collection_id"`
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description"`
	TargetPersonaID  string   `yaml:"target_persona_id"`
	LearningPathType string   `yaml:"learning_path_type"`
	Videos           []string `yaml:"videos"`
}

type Seed struct {
	Personas    []intakev1.Persona `yaml:"personas"`
	Videos      []SeedVideo        `yaml:"videos"`
	Collections []SeedCollection   `yaml:"collections"`
}

// LoadSeed parses the embedded catalog and checks that every reference resolves.
func LoadSeed() (*Seed, error) {
	return ParseSeed(seedYAML)
}

func ParseSeed(data []byte) (*Seed, error) {
	seed := &Seed{}
	if err := yaml.Unmarshal(data, seed); err != nil {
		return nil, errors.Wrap(err, "error parsing catalog")
	}
	return seed, seed.Validate()
}

func (s *Seed) Validate() error {
	personas := map[string]bool{}
	for _, p := range s.Personas {
		if p.PersonaID == "" {
			return fmt.Errorf("persona %q has no id", p.Name)
		}
		personas[p.PersonaID] = true
	}
	videos := map[string]bool{}
	for _, v := range s.Videos {
		if videos[v.VideoID] {
			return fmt.Errorf("duplicate video %s", v.VideoID)
		}
		videos[v.VideoID] = true
	}
	for _, c := range s.Collections {
		if !personas[c.TargetPersonaID] {
			return fmt.Errorf("collection %s targets unknown persona %s", c.CollectionID, c.TargetPersonaID)
		}
		for _, vid := range c.Videos {
			if !videos[vid] {
				return fmt.Errorf("collection %s references unknown video %s", c.CollectionID, vid)
			}
		}
	}
	return nil
}
