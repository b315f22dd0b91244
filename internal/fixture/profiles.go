// Package fixture holds embedded static assets, currently the default
// profile images assigned to members whose identity provider supplied none.
package fixture

import (
	"embed"
	"fmt"
	"hash/fnv"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// profileImages is the default-avatar catalog loaded from the embedded YAML.
type profileImages struct {
	Images []string `yaml:"images"`
}

// Profiles provides default member profile images.
type Profiles struct {
	images []string
}

// NewProfiles loads the embedded default-avatar catalog.
func NewProfiles() (*Profiles, error) {
	data, err := configFiles.ReadFile("config/profile_images.yaml")
	if err != nil {
		return nil, fmt.Errorf("read profile images: %w", err)
	}

	var catalog profileImages
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("unmarshal profile images: %w", err)
	}
	if len(catalog.Images) == 0 {
		return nil, fmt.Errorf("profile image catalog is empty")
	}

	return &Profiles{images: catalog.Images}, nil
}

// ImageFor picks a stable default image for a member id, so the same member
// always renders with the same placeholder avatar.
func (p *Profiles) ImageFor(memberID string) string {
	h := fnv.New32a()
	h.Write([]byte(memberID))
	return p.images[int(h.Sum32())%len(p.images)]
}
