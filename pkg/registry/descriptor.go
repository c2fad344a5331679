package registry

// Capability scores a model across task dimensions, 0-10 each.
type Capability struct {
	General   int `yaml:"general" json:"general"`
	Coding    int `yaml:"coding" json:"coding"`
	Reasoning int `yaml:"reasoning" json:"reasoning"`
	Vision    int `yaml:"vision" json:"vision"`
}

// DefaultCapability is assumed for (provider, model) pairs the catalog
// does not know about.
var DefaultCapability = Capability{General: 5, Coding: 5, Reasoning: 5, Vision: 5}

// ModelKey identifies a model within the registry.
type ModelKey struct {
	Provider string
	ModelID  string
}

// ModelDescriptor describes one routable model. Descriptors are read-only
// outside the registry; reload replaces the whole table.
type ModelDescriptor struct {
	Provider        string     `yaml:"provider" json:"provider"`
	ModelID         string     `yaml:"model_id" json:"model_id"`
	Capability      Capability `yaml:"capability" json:"capability"`
	InputCostPer1K  float64    `yaml:"input_cost_per_1k" json:"input_cost_per_1k"`
	OutputCostPer1K float64    `yaml:"output_cost_per_1k" json:"output_cost_per_1k"`
	IsFree          bool       `yaml:"is_free" json:"is_free"`
	IsSelfHosted    bool       `yaml:"is_self_hosted" json:"is_self_hosted"`
	PriorityOrder   int        `yaml:"priority_order" json:"priority_order"`
	Endpoint        string     `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
}

// Key returns the descriptor's registry key.
func (d ModelDescriptor) Key() ModelKey {
	return ModelKey{Provider: d.Provider, ModelID: d.ModelID}
}
