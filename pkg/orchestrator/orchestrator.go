// Package orchestrator drives multi-agent pipelines: a fixed sequence of
// named stages where each stage's prompt embeds the outputs of the
// stages before it.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lexos-ai/lexroute/pkg/adapter"
	"github.com/lexos-ai/lexroute/pkg/config"
)

// conventionOrder fixes stage sequencing. Requested agents run in this
// order; names outside it are ignored.
var conventionOrder = []string{"planning", "reasoning", "coding", "execution"}

// defaultAgentModels maps each agent to its candidate models, first
// entry preferred. A routing config can override the table.
var defaultAgentModels = map[string][]string{
	"planning":  {"claude-sonnet-4-20250514", "gpt-5.2-thinking"},
	"reasoning": {"deepseek-reasoner", "gpt-5.2-pro"},
	"coding":    {"deepseek-coder", "claude-sonnet-4-20250514"},
	"execution": {"gpt-5.2-instant", "claude-sonnet-4-20250514"},
}

// Backend dispatches one inference call. The routing engine satisfies
// this with registry-aware model resolution.
type Backend interface {
	Invoke(ctx context.Context, model, prompt string) (*adapter.Response, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, model, prompt string) (*adapter.Response, error)

// Invoke calls the function.
func (f BackendFunc) Invoke(ctx context.Context, model, prompt string) (*adapter.Response, error) {
	return f(ctx, model, prompt)
}

// RunRequest describes one orchestration run.
type RunRequest struct {
	Task string
	// Agents to run, filtered to the convention order. Unknown names
	// are skipped, not errors.
	Agents []string
	// MaxSteps bounds the number of stages; <= 0 uses the configured
	// default.
	MaxSteps int
	// PreferredModel overrides the agent table for every stage.
	PreferredModel string
}

// Orchestrator runs staged pipelines and records their task states.
type Orchestrator struct {
	backend  Backend
	store    *Store
	agents   map[string][]string
	maxSteps int
	debug    bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithDebug enables debug logging.
func WithDebug(debug bool) Option {
	return func(o *Orchestrator) { o.debug = debug }
}

// New creates an orchestrator over the given backend and store.
func New(backend Backend, store *Store, cfg *config.RoutingConfig, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		backend:  backend,
		store:    store,
		agents:   defaultAgentModels,
		maxSteps: 4,
	}
	if cfg != nil {
		if len(cfg.Agents) > 0 {
			o.agents = cfg.Agents
		}
		if cfg.MaxSteps > 0 {
			o.maxSteps = cfg.MaxSteps
		}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes the requested stages sequentially. Stage failures mark
// the task Failed and abandon the remaining stages; the failure is
// captured in the returned TaskState, not as a Go error.
func (o *Orchestrator) Run(ctx context.Context, req RunRequest) (*TaskState, error) {
	if strings.TrimSpace(req.Task) == "" {
		return nil, fmt.Errorf("task text is required")
	}

	state := &TaskState{
		ID:        uuid.NewString(),
		Status:    StatusRunning,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	o.store.Put(state)

	stages := o.activeStages(req.Agents, req.MaxSteps)
	if len(stages) == 0 {
		state.Status = StatusFailed
		state.Error = "no recognized agents requested"
		state.UpdatedAt = time.Now().UTC()
		o.store.Put(state)
		return state.Clone(), nil
	}

	for _, agent := range stages {
		model := o.modelFor(agent, req.PreferredModel)
		prompt := buildStagePrompt(agent, req.Task, state.Steps)

		if o.debug {
			log.Printf("[orchestrator] task %s stage %s model %s", state.ID, agent, model)
		}

		resp, err := o.backend.Invoke(ctx, model, prompt)
		if err != nil {
			state.Status = StatusFailed
			state.Error = fmt.Sprintf("stage %s: %v", agent, err)
			state.UpdatedAt = time.Now().UTC()
			o.store.Put(state)
			return state.Clone(), nil
		}

		modelUsed := model
		if resp.Model != "" {
			modelUsed = resp.Model
		}
		state.Steps = append(state.Steps, StepRecord{
			Agent:     agent,
			Model:     modelUsed,
			Input:     prompt,
			Output:    resp.Content,
			Timestamp: time.Now().UTC(),
		})
		state.UpdatedAt = time.Now().UTC()
		o.store.Put(state)
	}

	final := state.Steps[len(state.Steps)-1].Output
	if final != "" {
		state.Status = StatusCompleted
		state.Result = final
	} else {
		state.Status = StatusFailed
		state.Error = "final stage produced empty output"
	}
	state.UpdatedAt = time.Now().UTC()
	o.store.Put(state)
	return state.Clone(), nil
}

// GetTask returns the stored state for a task id.
func (o *Orchestrator) GetTask(id string) (*TaskState, error) {
	return o.store.Get(id)
}

// activeStages intersects the requested agents with the convention
// order, bounded by maxSteps.
func (o *Orchestrator) activeStages(requested []string, maxSteps int) []string {
	if maxSteps <= 0 {
		maxSteps = o.maxSteps
	}

	want := make(map[string]bool, len(requested))
	for _, a := range requested {
		want[strings.ToLower(strings.TrimSpace(a))] = true
	}

	var stages []string
	for _, agent := range conventionOrder {
		if !want[agent] {
			continue
		}
		stages = append(stages, agent)
		if len(stages) >= maxSteps {
			break
		}
	}
	return stages
}

// modelFor resolves a stage's model: caller override first, then the
// agent table's first candidate.
func (o *Orchestrator) modelFor(agent, preferred string) string {
	if preferred != "" {
		return preferred
	}
	if models, ok := o.agents[agent]; ok && len(models) > 0 {
		return models[0]
	}
	return ""
}

// buildStagePrompt embeds the original task and all prior stage outputs
// as context for the next stage.
func buildStagePrompt(agent, task string, steps []StepRecord) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are the %s agent in a multi-stage pipeline.\n\n", agent))
	sb.WriteString("Task:\n")
	sb.WriteString(task)
	sb.WriteString("\n")

	if len(steps) > 0 {
		sb.WriteString("\nOutput from previous stages:\n")
		for _, step := range steps {
			sb.WriteString(fmt.Sprintf("\n[%s]\n%s\n", step.Agent, step.Output))
		}
	}

	switch agent {
	case "planning":
		sb.WriteString("\nProduce a concise plan for completing the task.")
	case "reasoning":
		sb.WriteString("\nReason through the plan and resolve open questions.")
	case "coding":
		sb.WriteString("\nWrite the code required by the task and plan.")
	case "execution":
		sb.WriteString("\nProduce the final deliverable for the task.")
	}
	return sb.String()
}
