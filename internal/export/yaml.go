package export

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nhle/roadmap-builder/internal/model"
)

// document is the YAML export layout: the roadmap plus its summary figures.
type document struct {
	Roadmap model.Roadmap `yaml:"roadmap"`
	Summary summary       `yaml:"summary"`
}

type summary struct {
	OverallProgress     int `yaml:"overall_progress"`
	CompletedMilestones int `yaml:"completed_milestones"`
	TotalMilestones     int `yaml:"total_milestones"`
}

// YAML renders r as a YAML document.
func YAML(r model.Roadmap) ([]byte, error) {
	doc := document{
		Roadmap: r,
		Summary: summary{
			OverallProgress:     r.OverallProgress(),
			CompletedMilestones: r.CompletedMilestones(),
			TotalMilestones:     r.TotalMilestones(),
		},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshaling roadmap %s: %w", r.ID, err)
	}
	return out, nil
}
