package router

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/lexos-ai/lexroute/pkg/adapter"
	"github.com/lexos-ai/lexroute/pkg/config"
)

// Classifier turns free text into a Classification. The primary path asks
// an LLM adapter; every failure there falls through to the deterministic
// keyword fallback, so Classify always returns a usable value.
type Classifier struct {
	adapters    map[string]adapter.Adapter
	adapterName string
	model       string
	rules       []fallbackRule
	debug       bool
}

// NewClassifier creates a classifier with adapters and routing config.
// Configured trigger keywords extend the built-in fallback rules.
func NewClassifier(adapters map[string]adapter.Adapter, cfg *config.RoutingConfig) *Classifier {
	c := &Classifier{adapters: adapters, rules: fallbackRules}
	if cfg != nil {
		c.adapterName = strings.TrimSpace(cfg.ClassifierAdapter)
		c.model = strings.TrimSpace(cfg.ClassifierModel)
		c.rules = mergedRules(cfg.Triggers)
	}
	return c
}

// Classify determines task type and complexity for a prompt. It never
// returns an error; a degraded primary path only lowers confidence.
func (c *Classifier) Classify(ctx context.Context, prompt string) Classification {
	if cls, ok := c.classifyWithLLM(ctx, prompt); ok {
		return cls
	}
	return classifyWithRules(c.rules, prompt)
}

func (c *Classifier) classifyWithLLM(ctx context.Context, prompt string) (Classification, bool) {
	if c.adapterName == "" || c.model == "" {
		return Classification{}, false
	}
	adapterImpl, ok := c.adapters[c.adapterName]
	if !ok || adapterImpl == nil {
		return Classification{}, false
	}

	resp, err := adapterImpl.Generate(ctx, c.model, buildClassifierPrompt(prompt))
	if err != nil {
		if c.debug {
			log.Printf("[classifier] llm path failed, using fallback: %v", err)
		}
		return Classification{}, false
	}
	if resp == nil || resp.Content == "" {
		return Classification{}, false
	}

	cls, err := parseClassification(resp.Content)
	if err != nil {
		if c.debug {
			log.Printf("[classifier] unparseable response, using fallback: %v", err)
		}
		return Classification{}, false
	}

	if cls.EstimatedTokens <= 0 {
		cls.EstimatedTokens = estimateTokens(prompt)
	}
	return *cls, true
}

func buildClassifierPrompt(userPrompt string) string {
	var sb strings.Builder
	sb.WriteString("You are a request classifier for a model router.\n")
	sb.WriteString("Return ONLY JSON with these fields:\n")
	sb.WriteString(`{"task_type":"general|chat|code|reasoning|creative|financial|image|nsfw",` + "\n")
	sb.WriteString(`"complexity":"low|medium|high","requires_context":bool,"requires_creativity":bool,` + "\n")
	sb.WriteString(`"requires_accuracy":bool,"is_conversational":bool,"estimated_tokens":int,` + "\n")
	sb.WriteString(`"recommended_model":"...","confidence":0-1}` + "\n\n")
	sb.WriteString("Request:\n")
	sb.WriteString(userPrompt)
	return sb.String()
}

// parseClassification extracts and validates the first JSON object in an
// LLM reply. An unvalidated structure is never trusted.
func parseClassification(content string) (*Classification, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var cls Classification
	if err := json.Unmarshal([]byte(content[start:end+1]), &cls); err != nil {
		return nil, err
	}
	if !validTaskType(cls.TaskType) {
		return nil, fmt.Errorf("invalid task_type %q", cls.TaskType)
	}
	if !validComplexity(cls.Complexity) {
		return nil, fmt.Errorf("invalid complexity %q", cls.Complexity)
	}
	if cls.Confidence < 0 || cls.Confidence > 1 {
		return nil, fmt.Errorf("confidence out of range")
	}
	if cls.EstimatedTokens < 0 {
		return nil, fmt.Errorf("negative token estimate")
	}
	return &cls, nil
}

// fallbackConfidence marks fallback results as lower-trust than the LLM
// path. Callers treat it as informational, never as a gate.
const fallbackConfidence = 0.6

type fallbackRule struct {
	task               TaskType
	complexity         Complexity
	requiresContext    bool
	requiresCreativity bool
	requiresAccuracy   bool
	isConversational   bool
	recommendedModel   string
	keywords           []string
}

// fallbackRules is an ordered priority list: the first matching rule
// wins. Order matters and must stay fixed for reproducible routing.
var fallbackRules = []fallbackRule{
	{
		task: TaskImage, complexity: ComplexityMedium, requiresCreativity: true,
		recommendedModel: "gemini-2.0-pro",
		keywords: []string{
			"image", "picture", "draw", "photo", "painting", "illustration", "sketch",
		},
	},
	{
		task: TaskCode, complexity: ComplexityHigh, requiresAccuracy: true,
		recommendedModel: "deepseek-coder",
		keywords: []string{
			"code", "function", "debug", "program", "script", "bug", "compile",
			"refactor", "api",
		},
	},
	{
		task: TaskReasoning, complexity: ComplexityHigh, requiresAccuracy: true,
		recommendedModel: "deepseek-reasoner",
		keywords: []string{
			"analyze", "explain why", "reason", "logic", "solve", "calculate",
			"deduce", "step by step", "prove",
		},
	},
	{
		task: TaskCreative, complexity: ComplexityMedium, requiresCreativity: true,
		recommendedModel: "mythomax-l2-13b",
		keywords: []string{
			"story", "poem", "roleplay", "imagine", "fiction", "character", "creative",
		},
	},
	{
		task: TaskFinancial, complexity: ComplexityHigh, requiresAccuracy: true, requiresContext: true,
		recommendedModel: "gpt-5.2-pro",
		keywords: []string{
			"stock", "invest", "market", "trading", "crypto", "portfolio", "finance",
		},
	},
	{
		task: TaskNSFW, complexity: ComplexityMedium, requiresCreativity: true,
		recommendedModel: "mythomax-l2-13b",
		keywords: []string{
			"nsfw", "erotic", "adult content",
		},
	},
	{
		task: TaskChat, complexity: ComplexityLow, isConversational: true,
		recommendedModel: "openhermes-2.5",
		keywords: []string{
			"hello", "hi", "hey", "how are you", "good morning", "good evening",
			"thanks", "thank you",
		},
	},
}

// mergedRules extends the built-in rules with configured trigger
// keywords. Rule order and built-in keywords are never changed.
func mergedRules(triggers map[string][]string) []fallbackRule {
	if len(triggers) == 0 {
		return fallbackRules
	}
	rules := make([]fallbackRule, len(fallbackRules))
	copy(rules, fallbackRules)
	for i := range rules {
		extra, ok := triggers[string(rules[i].task)]
		if !ok {
			continue
		}
		kws := make([]string, 0, len(rules[i].keywords)+len(extra))
		kws = append(kws, rules[i].keywords...)
		for _, kw := range extra {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		rules[i].keywords = kws
	}
	return rules
}

// FallbackClassify classifies a prompt with the built-in ordered keyword
// rules. It is deterministic and cannot fail.
func FallbackClassify(prompt string) Classification {
	return classifyWithRules(fallbackRules, prompt)
}

func classifyWithRules(rules []fallbackRule, prompt string) Classification {
	promptLower := strings.ToLower(prompt)

	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if containsKeyword(promptLower, kw) {
				return Classification{
					TaskType:           rule.task,
					Complexity:         rule.complexity,
					RequiresContext:    rule.requiresContext,
					RequiresCreativity: rule.requiresCreativity,
					RequiresAccuracy:   rule.requiresAccuracy,
					IsConversational:   rule.isConversational,
					EstimatedTokens:    estimateTokens(prompt),
					RecommendedModel:   rule.recommendedModel,
					Confidence:         fallbackConfidence,
				}
			}
		}
	}

	return Classification{
		TaskType:        TaskGeneral,
		Complexity:      ComplexityMedium,
		EstimatedTokens: estimateTokens(prompt),
		Confidence:      fallbackConfidence,
	}
}

// estimateTokens is the ceil(len/4)*2 heuristic: roughly four characters
// per token, doubled to cover the reply.
func estimateTokens(prompt string) int {
	return ((len(prompt) + 3) / 4) * 2
}

// containsKeyword checks for the keyword at word boundaries.
func containsKeyword(prompt, keyword string) bool {
	idx := strings.Index(prompt, keyword)
	if idx == -1 {
		return false
	}

	if idx > 0 && isWordChar(prompt[idx-1]) {
		return false
	}
	endIdx := idx + len(keyword)
	if endIdx < len(prompt) && isWordChar(prompt[endIdx]) {
		return false
	}
	return true
}

func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_'
}
