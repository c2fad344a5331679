package registry

// BuiltinCatalog returns the default model catalog. Self-hosted entries
// match the models served by the H100 inference endpoint; cloud entries
// mirror the provider adapters.
func BuiltinCatalog() StaticSource {
	return StaticSource{
		{
			Provider:      "h100",
			ModelID:       "mythomax-l2-13b",
			Capability:    Capability{General: 7, Coding: 4, Reasoning: 5, Vision: 0},
			IsFree:        true,
			IsSelfHosted:  true,
			PriorityOrder: 1,
		},
		{
			Provider:      "h100",
			ModelID:       "openhermes-2.5",
			Capability:    Capability{General: 7, Coding: 6, Reasoning: 6, Vision: 0},
			IsFree:        true,
			IsSelfHosted:  true,
			PriorityOrder: 2,
		},
		{
			Provider:      "h100",
			ModelID:       "pygmalion-7b",
			Capability:    Capability{General: 6, Coding: 2, Reasoning: 3, Vision: 0},
			IsFree:        true,
			IsSelfHosted:  true,
			PriorityOrder: 3,
		},
		{
			Provider:        "deepseek",
			ModelID:         "deepseek-chat",
			Capability:      Capability{General: 8, Coding: 7, Reasoning: 7, Vision: 0},
			InputCostPer1K:  0.00027,
			OutputCostPer1K: 0.0011,
			PriorityOrder:   4,
		},
		{
			Provider:        "deepseek",
			ModelID:         "deepseek-coder",
			Capability:      Capability{General: 6, Coding: 9, Reasoning: 7, Vision: 0},
			InputCostPer1K:  0.00027,
			OutputCostPer1K: 0.0011,
			PriorityOrder:   5,
		},
		{
			Provider:        "deepseek",
			ModelID:         "deepseek-reasoner",
			Capability:      Capability{General: 7, Coding: 7, Reasoning: 9, Vision: 0},
			InputCostPer1K:  0.00055,
			OutputCostPer1K: 0.00219,
			PriorityOrder:   6,
		},
		{
			Provider:        "openai",
			ModelID:         "gpt-5.2-instant",
			Capability:      Capability{General: 8, Coding: 7, Reasoning: 7, Vision: 8},
			InputCostPer1K:  0.0005,
			OutputCostPer1K: 0.0015,
			PriorityOrder:   7,
		},
		{
			Provider:        "openai",
			ModelID:         "gpt-5.2-codex",
			Capability:      Capability{General: 7, Coding: 9, Reasoning: 8, Vision: 6},
			InputCostPer1K:  0.0015,
			OutputCostPer1K: 0.006,
			PriorityOrder:   8,
		},
		{
			Provider:        "openai",
			ModelID:         "gpt-5.2-pro",
			Capability:      Capability{General: 9, Coding: 8, Reasoning: 9, Vision: 8},
			InputCostPer1K:  0.01,
			OutputCostPer1K: 0.03,
			PriorityOrder:   9,
		},
		{
			Provider:        "google",
			ModelID:         "gemini-2.0-pro",
			Capability:      Capability{General: 8, Coding: 7, Reasoning: 8, Vision: 9},
			InputCostPer1K:  0.00125,
			OutputCostPer1K: 0.005,
			PriorityOrder:   10,
		},
		{
			Provider:        "anthropic",
			ModelID:         "claude-sonnet-4-20250514",
			Capability:      Capability{General: 9, Coding: 9, Reasoning: 9, Vision: 7},
			InputCostPer1K:  0.003,
			OutputCostPer1K: 0.015,
			PriorityOrder:   11,
		},
		{
			Provider:        "anthropic",
			ModelID:         "claude-opus-4-20250514",
			Capability:      Capability{General: 10, Coding: 10, Reasoning: 10, Vision: 7},
			InputCostPer1K:  0.015,
			OutputCostPer1K: 0.075,
			PriorityOrder:   12,
		},
	}
}
