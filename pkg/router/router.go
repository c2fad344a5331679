package router

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lexos-ai/lexroute/pkg/adapter"
	"github.com/lexos-ai/lexroute/pkg/budget"
	"github.com/lexos-ai/lexroute/pkg/config"
	"github.com/lexos-ai/lexroute/pkg/endpoint"
	"github.com/lexos-ai/lexroute/pkg/registry"
)

// Engine wires the classifier, selector, provider adapters and the
// self-hosted endpoint into one routing surface.
type Engine struct {
	adapters   map[string]adapter.Adapter
	classifier *Classifier
	selector   *Selector
	registry   *registry.Registry
	budget     budget.Tracker
	endpoint   *endpoint.Client
	monitor    *endpoint.Monitor
	cfg        *config.RoutingConfig
	debug      bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEndpoint attaches a self-hosted endpoint client and its monitor.
func WithEndpoint(client *endpoint.Client, monitor *endpoint.Monitor) EngineOption {
	return func(e *Engine) {
		e.endpoint = client
		e.monitor = monitor
	}
}

// WithDebug enables debug logging.
func WithDebug(debug bool) EngineOption {
	return func(e *Engine) {
		e.debug = debug
		e.classifier.debug = debug
		e.selector.debug = debug
	}
}

// NewEngine creates a routing engine. The registry and budget tracker
// are owned by the caller and injected here, never ambient globals.
func NewEngine(
	adapters map[string]adapter.Adapter,
	cfg *config.RoutingConfig,
	reg *registry.Registry,
	tracker budget.Tracker,
	opts ...EngineOption,
) *Engine {
	if tracker == nil {
		tracker = budget.Unlimited{}
	}
	e := &Engine{
		adapters:   adapters,
		classifier: NewClassifier(adapters, cfg),
		selector:   NewSelector(reg, tracker),
		registry:   reg,
		budget:     tracker,
		cfg:        cfg,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Classify exposes the classifier.
func (e *Engine) Classify(ctx context.Context, text string) Classification {
	return e.classifier.Classify(ctx, text)
}

// Select exposes the model selector.
func (e *Engine) Select(req TaskRequirements, estimatedTokens int) (*SelectedModel, error) {
	return e.selector.Select(req, estimatedTokens)
}

// Health returns the last completed health snapshot, or nil when no
// endpoint monitor is attached.
func (e *Engine) Health() *endpoint.HealthSnapshot {
	if e.monitor == nil {
		return nil
	}
	return e.monitor.Snapshot()
}

// RouteResult carries the response plus the routing metadata that
// produced it.
type RouteResult struct {
	Classification Classification `json:"classification"`
	Selected       *SelectedModel `json:"selected"`
	Content        string         `json:"content"`
	Provider       string         `json:"provider"`
	ModelUsed      string         `json:"model_used"`
	FailedOver     bool           `json:"failed_over"`
	Elapsed        time.Duration  `json:"elapsed"`
	Usage          *adapter.Usage `json:"usage,omitempty"`
}

// Route classifies the text, selects a model and dispatches the call.
// A non-empty preferredModel overrides selection when the model is
// registered; unknown overrides are ignored with a log line.
func (e *Engine) Route(ctx context.Context, text, preferredModel string) (*RouteResult, error) {
	start := time.Now()

	cls := e.classifier.Classify(ctx, text)
	req := requirementsFrom(cls)

	sel, err := e.resolveTarget(req, cls, preferredModel)
	if err != nil {
		return nil, err
	}

	result := &RouteResult{Classification: cls, Selected: sel}
	if err := e.dispatch(ctx, req, cls, sel, text, result); err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(start)
	return result, nil
}

// InvokeModel dispatches a call to a specific model, resolving it
// against the registry for provider and hosting. Unregistered models go
// to the default cloud adapter.
func (e *Engine) InvokeModel(ctx context.Context, model, prompt string) (*adapter.Response, error) {
	if d, ok := e.lookupByModelID(model); ok {
		if d.IsSelfHosted {
			if e.endpoint == nil {
				return nil, fmt.Errorf("model %s is self-hosted but no endpoint is configured", model)
			}
			resp, useCloud, err := e.endpoint.Generate(ctx, model, prompt)
			if err != nil {
				return nil, err
			}
			if !useCloud {
				return e.record(selfHostedResponse(d.Provider, resp)), nil
			}
			// fall through to the default cloud target
		} else if a, ok := e.adapters[d.Provider]; ok {
			resp, err := a.Generate(ctx, model, prompt)
			if err != nil {
				return nil, err
			}
			return e.record(resp), nil
		}
	}

	a, ok := e.adapters[e.cfg.Default.Adapter]
	if !ok {
		return nil, fmt.Errorf("default adapter %q not available", e.cfg.Default.Adapter)
	}
	resp, err := a.Generate(ctx, e.cfg.Default.Model, prompt)
	if err != nil {
		return nil, err
	}
	return e.record(resp), nil
}

func (e *Engine) resolveTarget(req TaskRequirements, cls Classification, preferredModel string) (*SelectedModel, error) {
	if preferredModel != "" {
		if d, ok := e.lookupByModelID(preferredModel); ok {
			return selected(d, EstimateCost(d, cls.EstimatedTokens), "caller override"), nil
		}
		if e.debug {
			log.Printf("[router] ignoring unknown preferred model %q", preferredModel)
		}
	}
	return e.selector.Select(req, cls.EstimatedTokens)
}

func (e *Engine) dispatch(
	ctx context.Context,
	req TaskRequirements,
	cls Classification,
	sel *SelectedModel,
	text string,
	result *RouteResult,
) error {
	if sel.IsSelfHosted {
		if e.endpoint != nil {
			resp, useCloud, err := e.endpoint.Generate(ctx, sel.Model, text)
			if err != nil {
				return err
			}
			if !useCloud {
				result.Content = resp.Text
				result.Provider = sel.Provider
				result.ModelUsed = resp.Model
				result.Usage = &adapter.Usage{TotalTokens: resp.TokensUsed}
				e.recordSpend(sel.Provider, resp.Model, result.Usage)
				return nil
			}
		}

		// Endpoint exhausted or not configured: re-route to the cloud.
		cloudSel, err := e.selector.selectFiltered(req, cls.EstimatedTokens, true)
		if err != nil {
			return err
		}
		result.FailedOver = true
		result.Selected = cloudSel
		sel = cloudSel
	}

	a, ok := e.adapters[sel.Provider]
	if !ok {
		a, ok = e.adapters[e.cfg.Default.Adapter]
		if !ok {
			return fmt.Errorf("no adapter available for provider %q", sel.Provider)
		}
		sel.Model = e.cfg.Default.Model
	}

	resp, err := a.Generate(ctx, sel.Model, text)
	if err != nil {
		return err
	}

	result.Content = resp.Content
	result.Provider = resp.Adapter
	result.ModelUsed = resp.Model
	result.Usage = resp.Usage
	e.recordSpend(resp.Adapter, resp.Model, resp.Usage)
	return nil
}

func (e *Engine) lookupByModelID(model string) (registry.ModelDescriptor, bool) {
	for _, d := range e.registry.Snapshot() {
		if d.ModelID == model {
			return d, true
		}
	}
	return registry.ModelDescriptor{}, false
}

func (e *Engine) record(resp *adapter.Response) *adapter.Response {
	e.recordSpend(resp.Adapter, resp.Model, resp.Usage)
	return resp
}

// recordSpend feeds actual call cost back to the budget tracker when it
// keeps a ledger.
func (e *Engine) recordSpend(provider, model string, usage *adapter.Usage) {
	rec, ok := e.budget.(budget.Recorder)
	if !ok {
		return
	}
	report := adapter.CallReport{Adapter: provider, Model: model}
	if usage != nil {
		report.Usage = *usage
	}
	if d, ok := e.registry.Lookup(provider, model); ok && usage != nil {
		amount := (float64(usage.PromptTokens)/1000.0)*d.InputCostPer1K +
			(float64(usage.CompletionTokens)/1000.0)*d.OutputCostPer1K
		if d.IsFree || d.IsSelfHosted {
			amount = 0
		}
		report.Cost = adapter.Cost{Currency: "USD", Amount: amount, IsEstimate: true}
	}
	rec.Record(report)
}

func selfHostedResponse(provider string, resp *endpoint.GenerateResponse) *adapter.Response {
	return &adapter.Response{
		Content: resp.Text,
		Adapter: provider,
		Model:   resp.Model,
		Usage:   &adapter.Usage{TotalTokens: resp.TokensUsed},
	}
}

func requirementsFrom(cls Classification) TaskRequirements {
	return TaskRequirements{
		Type:       cls.TaskType,
		Complexity: cls.Complexity,
		Quality:    QualityStandard,
	}
}
