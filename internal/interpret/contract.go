package interpret

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed contract.yaml
var contractYAML []byte

// Contract is the versioned translation contract: the instruction block
// sent to the interpretation service, as structured data.
type Contract struct {
	Version   int           `yaml:"version"`
	Preamble  string        `yaml:"preamble"`
	Commands  []CommandSpec `yaml:"commands"`
	Materials []string      `yaml:"materials"`
	Meshes    []string      `yaml:"meshes"`
	Limits    []string      `yaml:"limits"`
	Guidance  []string      `yaml:"guidance"`
	ReplyRule string        `yaml:"reply_rule"`
}

// CommandSpec documents one command kind for the interpretation service.
type CommandSpec struct {
	Name    string `yaml:"name"`
	Summary string `yaml:"summary"`
	Example string `yaml:"example"`
}

// LoadContract parses the embedded contract artifact.
func LoadContract() (*Contract, error) {
	var c Contract
	if err := yaml.Unmarshal(contractYAML, &c); err != nil {
		return nil, errors.Wrap(err, "failed to parse translation contract")
	}
	if c.Version <= 0 {
		return nil, errors.New("translation contract missing version")
	}
	if len(c.Commands) == 0 {
		return nil, errors.New("translation contract defines no commands")
	}
	if strings.TrimSpace(c.ReplyRule) == "" {
		return nil, errors.New("translation contract missing reply rule")
	}
	return &c, nil
}

// SystemPrompt renders the contract into the instruction block for the
// interpretation service.
func (c *Contract) SystemPrompt() string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(c.Preamble))
	b.WriteString("\n\nAvailable commands:\n")
	for i, cmd := range c.Commands {
		fmt.Fprintf(&b, "\n%d. %s — %s\n   %s\n", i+1, cmd.Name, cmd.Summary, strings.TrimSpace(cmd.Example))
	}

	if len(c.Materials) > 0 {
		fmt.Fprintf(&b, "\nAvailable materials: %s.\n", strings.Join(c.Materials, ", "))
	}
	if len(c.Meshes) > 0 {
		fmt.Fprintf(&b, "Meshes: %s.\n", strings.Join(c.Meshes, ", "))
	}
	for _, limit := range c.Limits {
		b.WriteString(limit)
		b.WriteString("\n")
	}

	if len(c.Guidance) > 0 {
		b.WriteString("\n")
		for _, g := range c.Guidance {
			b.WriteString(g)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(c.ReplyRule))
	b.WriteString("\n\nCurrent entities in the scene (provided per-message).")

	return b.String()
}
