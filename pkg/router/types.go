package router

// TaskType categorizes a request for routing purposes.
type TaskType string

const (
	TaskGeneral   TaskType = "general"
	TaskChat      TaskType = "chat"
	TaskCode      TaskType = "code"
	TaskReasoning TaskType = "reasoning"
	TaskCreative  TaskType = "creative"
	TaskFinancial TaskType = "financial"
	TaskImage     TaskType = "image"
	TaskVoice     TaskType = "voice"
	TaskNSFW      TaskType = "nsfw"
)

// Complexity grades how demanding a request is.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Quality is the caller's quality preference.
type Quality string

const (
	QualityBasic    Quality = "basic"
	QualityStandard Quality = "standard"
	QualityPremium  Quality = "premium"
)

// Classification is the structured interpretation of a request.
// Produced fresh per request and never mutated afterwards.
type Classification struct {
	TaskType           TaskType   `json:"task_type"`
	Complexity         Complexity `json:"complexity"`
	RequiresContext    bool       `json:"requires_context"`
	RequiresCreativity bool       `json:"requires_creativity"`
	RequiresAccuracy   bool       `json:"requires_accuracy"`
	IsConversational   bool       `json:"is_conversational"`
	EstimatedTokens    int        `json:"estimated_tokens"`
	RecommendedModel   string     `json:"recommended_model,omitempty"`
	Confidence         float64    `json:"confidence"`
}

// TaskRequirements captures caller intent for one routing decision.
// Immutable once constructed.
type TaskRequirements struct {
	Type       TaskType
	Complexity Complexity
	Quality    Quality
	// MaxCost caps the estimated per-call spend in USD. Nil means no cap.
	MaxCost *float64
	// PreferSelfHosted narrows selection to self-hosted models when any
	// qualify. Nil means prefer; only an explicit false disables it.
	PreferSelfHosted *bool
}

// SelectedModel is the outcome of one selection call. The reason string
// is a human-readable justification kept for observability.
type SelectedModel struct {
	Provider      string  `json:"provider"`
	Model         string  `json:"model"`
	EstimatedCost float64 `json:"estimated_cost"`
	Reason        string  `json:"reason"`
	IsSelfHosted  bool    `json:"is_self_hosted"`
	Endpoint      string  `json:"endpoint,omitempty"`
}

func validTaskType(t TaskType) bool {
	switch t {
	case TaskGeneral, TaskChat, TaskCode, TaskReasoning, TaskCreative,
		TaskFinancial, TaskImage, TaskVoice, TaskNSFW:
		return true
	}
	return false
}

func validComplexity(c Complexity) bool {
	switch c {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return true
	}
	return false
}
