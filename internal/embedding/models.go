package embedding

import (
	_ "embed"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphy/qs/internal/qserr"
)

//go:embed models.yaml
var modelsYAML []byte

// ModelInfo describes one supported embedding model.
type ModelInfo struct {
	Name      string `yaml:"name"`
	Dimension int    `yaml:"dimension"`
}

type catalog struct {
	Models []ModelInfo `yaml:"models"`
}

var registry = mustLoadRegistry()

func mustLoadRegistry() map[string]ModelInfo {
	var c catalog
	if err := yaml.Unmarshal(modelsYAML, &c); err != nil {
		panic("embedding: invalid embedded model catalog: " + err.Error())
	}

	m := make(map[string]ModelInfo, len(c.Models))
	for _, mi := range c.Models {
		m[mi.Name] = mi
	}
	return m
}

// DimensionFor returns the vector width for a known model name.
func DimensionFor(model string) (int, error) {
	mi, ok := registry[model]
	if !ok {
		return 0, qserr.New(qserr.Embedding,
			"unsupported embedding model %q: supported models are %s",
			model, strings.Join(supportedModelNames(), ", "))
	}
	return mi.Dimension, nil
}

func supportedModelNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
