package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexos-ai/lexroute/pkg/adapter"
	"github.com/lexos-ai/lexroute/pkg/budget"
	"github.com/lexos-ai/lexroute/pkg/config"
	"github.com/lexos-ai/lexroute/pkg/endpoint"
	"github.com/lexos-ai/lexroute/pkg/orchestrator"
	"github.com/lexos-ai/lexroute/pkg/registry"
	"github.com/lexos-ai/lexroute/pkg/router"
)

var (
	configFile string
	debugFlag  bool
	budgetFlag float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lexroute",
		Short: "Request routing and task orchestration for LexOS",
		Long: `lexroute classifies incoming requests, selects an inference backend
	under cost and capability constraints, dispatches with retry and
	failover against the self-hosted endpoint, and runs multi-agent
	orchestration pipelines.`,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to routing config file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Float64Var(&budgetFlag, "budget", 0, "max spend in USD (0 = unlimited)")

	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(classifyCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(orchestrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func askCmd() *cobra.Command {
	var modelFlag string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Route a prompt to the best inference backend",
		Long: `Classifies the prompt, selects a model under budget and capability
	constraints (self-hosted models preferred when suitable), and prints
	the response. Use --model to pin a registered model.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cleanup, err := buildEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := engine.Route(cmd.Context(), args[0], modelFlag)
			if err != nil {
				return err
			}

			if jsonFlag {
				return printJSON(result)
			}

			fmt.Println(result.Content)
			fmt.Fprintf(os.Stderr, "\n[%s/%s] %s (est $%.4f, %s)\n",
				result.Provider, result.ModelUsed, result.Selected.Reason,
				result.Selected.EstimatedCost, result.Elapsed.Round(time.Millisecond))
			if result.FailedOver {
				fmt.Fprintln(os.Stderr, "note: self-hosted endpoint unavailable, used cloud fallback")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "pin a specific registered model")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print the full routing result as JSON")
	return cmd
}

func classifyCmd() *cobra.Command {
	var offlineFlag bool

	cmd := &cobra.Command{
		Use:   "classify [prompt]",
		Short: "Classify a prompt without dispatching it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if offlineFlag {
				return printJSON(router.FallbackClassify(args[0]))
			}

			engine, cleanup, err := buildEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			return printJSON(engine.Classify(cmd.Context(), args[0]))
		},
	}

	cmd.Flags().BoolVar(&offlineFlag, "offline", false, "use only the deterministic keyword classifier")
	return cmd
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List registered models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			reg, err := buildRegistry(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tMODEL\tGEN\tCODE\tREASON\tVISION\tHOSTING\tIN $/1K\tOUT $/1K")
			for _, d := range reg.Snapshot() {
				hosting := "cloud"
				if d.IsSelfHosted {
					hosting = "self-hosted"
				} else if d.IsFree {
					hosting = "free"
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\t%.4f\t%.4f\n",
					d.Provider, d.ModelID,
					d.Capability.General, d.Capability.Coding, d.Capability.Reasoning, d.Capability.Vision,
					hosting, d.InputCostPer1K, d.OutputCostPer1K)
			}
			return w.Flush()
		},
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the self-hosted endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.RoutingConfig.Endpoint.URL == "" {
				return fmt.Errorf("no self-hosted endpoint configured")
			}

			monitor := endpoint.NewMonitor(endpointConfig(cfg))
			snap := monitor.ProbeOnce(cmd.Context())
			return printJSON(snap)
		},
	}
}

func orchestrateCmd() *cobra.Command {
	var agentsFlag string
	var maxStepsFlag int
	var modelFlag string

	cmd := &cobra.Command{
		Use:   "orchestrate [task]",
		Short: "Run a multi-agent pipeline over a task",
		Long: `Runs the requested agents in convention order (planning, reasoning,
	coding, execution), each stage consuming the output of the stages
	before it. Prints the resulting task state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, cleanup, err := buildEngine()
			if err != nil {
				return err
			}
			defer cleanup()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store := orchestrator.NewStore(0)
			orch := orchestrator.New(
				orchestrator.BackendFunc(engine.InvokeModel),
				store,
				cfg.RoutingConfig,
				orchestrator.WithDebug(debugFlag),
			)

			state, err := orch.Run(cmd.Context(), orchestrator.RunRequest{
				Task:           args[0],
				Agents:         splitAgents(agentsFlag),
				MaxSteps:       maxStepsFlag,
				PreferredModel: modelFlag,
			})
			if err != nil {
				return err
			}
			return printJSON(state)
		},
	}

	cmd.Flags().StringVar(&agentsFlag, "agents", "planning,reasoning,execution", "comma-separated agents to run")
	cmd.Flags().IntVar(&maxStepsFlag, "max-steps", 0, "bound on pipeline stages (0 = configured default)")
	cmd.Flags().StringVar(&modelFlag, "model", "", "override the model for every stage")
	return cmd
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadWithRoutingFile(configFile)
	}
	return config.Load()
}

func buildRegistry(cfg *config.Config) (*registry.Registry, error) {
	var src registry.Source = registry.BuiltinCatalog()
	if cfg.RoutingConfig.CatalogPath != "" {
		src = registry.FileSource{Path: cfg.RoutingConfig.CatalogPath}
	}
	return registry.New(src)
}

func buildEngine() (*router.Engine, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	adapters, err := createAdapters(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create adapters: %w", err)
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load model catalog: %w", err)
	}

	var tracker budget.Tracker = budget.Unlimited{}
	if budgetFlag > 0 {
		tracker = budget.NewLedger(budgetFlag)
	}

	opts := []router.EngineOption{router.WithDebug(debugFlag)}
	cleanup := func() {}
	if cfg.RoutingConfig.Endpoint.URL != "" {
		epCfg := endpointConfig(cfg)
		client := endpoint.NewClient(epCfg)
		monitor := endpoint.NewMonitor(epCfg)
		monitor.Start()
		cleanup = monitor.Stop
		opts = append(opts, router.WithEndpoint(client, monitor))
	}

	return router.NewEngine(adapters, cfg.RoutingConfig, reg, tracker, opts...), cleanup, nil
}

func endpointConfig(cfg *config.Config) endpoint.Config {
	ep := cfg.RoutingConfig.Endpoint
	return endpoint.Config{
		BaseURL:         ep.URL,
		MaxRetries:      ep.MaxRetries,
		Timeout:         time.Duration(ep.TimeoutSeconds) * time.Second,
		AutoFailover:    ep.AutoFailover,
		FallbackToCloud: ep.FallbackToCloud,
		HealthInterval:  time.Duration(ep.HealthIntervalSeconds) * time.Second,
		ProbeTimeout:    time.Duration(ep.ProbeTimeoutSeconds) * time.Second,
	}
}

func createAdapters(cfg *config.Config) (map[string]adapter.Adapter, error) {
	adapters := make(map[string]adapter.Adapter)

	if cfg.AnthropicAPIKey != "" {
		a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, err
		}
		adapters["anthropic"] = a
	}
	if cfg.OpenAIAPIKey != "" {
		a, err := adapter.NewOpenAIAdapter(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, err
		}
		adapters["openai"] = a
	}
	if cfg.GoogleAPIKey != "" {
		a, err := adapter.NewGoogleAdapter(cfg.GoogleAPIKey)
		if err != nil {
			return nil, err
		}
		adapters["google"] = a
	}
	if cfg.DeepSeekAPIKey != "" {
		a, err := adapter.NewDeepSeekAdapter(cfg.DeepSeekAPIKey)
		if err != nil {
			return nil, err
		}
		adapters["deepseek"] = a
	}

	if len(adapters) == 0 {
		adapters["mock"] = adapter.NewMockAdapter()
	}
	return adapters, nil
}

func splitAgents(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
