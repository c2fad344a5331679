package router

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/lexos-ai/lexroute/pkg/budget"
	"github.com/lexos-ai/lexroute/pkg/registry"
)

// ErrNoSuitableModel is returned when no registered model satisfies the
// capability requirements.
var ErrNoSuitableModel = errors.New("no suitable model for requirements")

// visionProviders and voiceProviders gate task types that are matched by
// provider identity rather than a numeric capability threshold.
var (
	visionProviders = map[string]bool{"openai": true, "google": true, "h100": true}
	voiceProviders  = map[string]bool{"elevenlabs": true}
)

// Selector picks a model for a set of requirements from the registry,
// consulting the budget tracker for affordability.
type Selector struct {
	registry *registry.Registry
	budget   budget.Tracker
	debug    bool
}

// NewSelector creates a selector over the given registry and budget.
func NewSelector(reg *registry.Registry, tracker budget.Tracker) *Selector {
	if tracker == nil {
		tracker = budget.Unlimited{}
	}
	return &Selector{registry: reg, budget: tracker}
}

// complexityThreshold maps complexity to the minimum capability score a
// candidate must have on the requirement's dimension.
func complexityThreshold(c Complexity) int {
	switch c {
	case ComplexityLow:
		return 6
	case ComplexityHigh:
		return 9
	default:
		return 7
	}
}

// Select picks the best model for the requirements. Selection degrades
// to the most cost-effective candidate rather than failing when every
// capability-suitable model busts the budget; it fails only when the
// candidate set is empty.
func (s *Selector) Select(req TaskRequirements, estimatedTokens int) (*SelectedModel, error) {
	return s.selectFiltered(req, estimatedTokens, false)
}

// selectFiltered is Select with an extra failover knob: cloudOnly drops
// self-hosted candidates entirely, used when the endpoint is down.
func (s *Selector) selectFiltered(req TaskRequirements, estimatedTokens int, cloudOnly bool) (*SelectedModel, error) {
	candidates := s.filterCandidates(req)
	if cloudOnly {
		var cloud []registry.ModelDescriptor
		for _, d := range candidates {
			if !d.IsSelfHosted {
				cloud = append(cloud, d)
			}
		}
		candidates = cloud
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: task=%s complexity=%s", ErrNoSuitableModel, req.Type, req.Complexity)
	}

	// Narrow to self-hosted unless the caller explicitly opted out, but
	// never narrow to an empty set.
	if !cloudOnly && (req.PreferSelfHosted == nil || *req.PreferSelfHosted) {
		var selfHosted []registry.ModelDescriptor
		for _, d := range candidates {
			if d.IsSelfHosted {
				selfHosted = append(selfHosted, d)
			}
		}
		if len(selfHosted) > 0 {
			candidates = selfHosted
		}
	}

	// Stable sort: self-hosted first, then free, then priority order.
	// Remaining ties keep registry order.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.IsSelfHosted != b.IsSelfHosted {
			return a.IsSelfHosted
		}
		if a.IsFree != b.IsFree {
			return a.IsFree
		}
		return a.PriorityOrder < b.PriorityOrder
	})

	for _, d := range candidates {
		cost := EstimateCost(d, estimatedTokens)
		if req.MaxCost != nil && cost > *req.MaxCost {
			continue
		}
		if !s.budget.CanAfford(cost) {
			if s.debug {
				log.Printf("[selector] budget denied %s/%s (est $%.4f)", d.Provider, d.ModelID, cost)
			}
			continue
		}
		return selected(d, cost, selectionReason(d, req)), nil
	}

	// Every candidate was skipped on cost. Degrade gracefully to the
	// cheapest-priority candidate instead of failing the request.
	d := candidates[0]
	if s.debug {
		log.Printf("[selector] budget exceeded, degrading to %s/%s", d.Provider, d.ModelID)
	}
	return selected(d, EstimateCost(d, estimatedTokens), "budget exceeded; most cost-effective option"), nil
}

func (s *Selector) filterCandidates(req TaskRequirements) []registry.ModelDescriptor {
	threshold := complexityThreshold(req.Complexity)
	var out []registry.ModelDescriptor
	for _, d := range s.registry.Snapshot() {
		if suitable(d, req.Type, threshold) {
			out = append(out, d)
		}
	}
	return out
}

// suitable checks the candidate's capability score on the requirement's
// dimension. Vision and voice tasks gate on provider identity instead.
func suitable(d registry.ModelDescriptor, task TaskType, threshold int) bool {
	switch task {
	case TaskImage:
		return visionProviders[d.Provider]
	case TaskVoice:
		return voiceProviders[d.Provider]
	case TaskCode:
		return d.Capability.Coding >= threshold
	case TaskReasoning, TaskFinancial:
		return d.Capability.Reasoning >= threshold
	default:
		return d.Capability.General >= threshold
	}
}

func selected(d registry.ModelDescriptor, cost float64, reason string) *SelectedModel {
	return &SelectedModel{
		Provider:      d.Provider,
		Model:         d.ModelID,
		EstimatedCost: cost,
		Reason:        reason,
		IsSelfHosted:  d.IsSelfHosted,
		Endpoint:      d.Endpoint,
	}
}

func selectionReason(d registry.ModelDescriptor, req TaskRequirements) string {
	switch {
	case d.IsSelfHosted:
		return "self-hosted, zero marginal cost"
	case d.IsFree:
		return "free model"
	default:
		quality := req.Quality
		if quality == "" {
			quality = QualityStandard
		}
		return fmt.Sprintf("%s quality tier within budget", quality)
	}
}

// EstimateCost estimates the USD cost of one call against a descriptor,
// assuming a fixed 70/30 input/output token split. Free and self-hosted
// models always cost zero.
func EstimateCost(d registry.ModelDescriptor, estimatedTokens int) float64 {
	if d.IsFree || d.IsSelfHosted {
		return 0
	}
	tokens := float64(estimatedTokens)
	input := (0.7 * tokens / 1000.0) * d.InputCostPer1K
	output := (0.3 * tokens / 1000.0) * d.OutputCostPer1K
	return input + output
}
