package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kontor/internal/chat"
	"kontor/internal/config"
	"kontor/internal/corp"
	"kontor/internal/host"
	"kontor/internal/llm/openai"
	"kontor/internal/logger"
	"kontor/internal/mcpclient"
	"kontor/internal/tool"
)

var (
	configPath   string
	apiBaseURL   string
	apiKey       string
	model        string
	temperature  float32
	toolCallMode string
	verbose      bool
	noColor      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kontor",
		Short: "Kontor corporate assistant",
		Long:  "An educational tool-calling assistant: a corporate tool host and the chat client that orchestrates it",
	}

	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the corporate assistant",
		RunE:  runChat,
	}

	chatCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: search standard locations)")
	chatCmd.Flags().StringVar(&apiBaseURL, "api-base-url", os.Getenv("OPENAI_API_BASE_URL"), "OpenAI-compatible API base URL")
	chatCmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("OPENAI_API_KEY"), "API key")
	chatCmd.Flags().StringVar(&model, "model", "", "Model to use")
	chatCmd.Flags().Float32Var(&temperature, "temperature", 0, "Sampling temperature")
	chatCmd.Flags().StringVar(&toolCallMode, "tool-call-mode", "", "Tool calling convention: structured or inline")
	chatCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose output (debug mode)")
	chatCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the corporate tool host on stdio",
		RunE:  runServe,
	}
	serveCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose output (debug mode)")
	serveCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)

	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("API key required (set OPENAI_API_KEY, use --api-key, or configure llm.api_key)")
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4-turbo"
	}

	log := newLogger(os.Stdout)
	// Timestamps are noise on the interactive console; the serve side
	// keeps them.
	log.SetShowTime(false)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The tool host runs as a child process. Default: this same binary
	// with the serve subcommand.
	command := cfg.Host.Command
	hostArgs := cfg.Host.Args
	if command == "" {
		self, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to locate own executable: %w", err)
		}
		command = self
		hostArgs = []string{"serve"}
	}

	log.Debug("spawning tool host: %s %v", command, hostArgs)
	client, err := mcpclient.NewStdio(ctx, command, hostArgs, config.ExpandEnvMap(cfg.Host.Env), log)
	if err != nil {
		return err
	}
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to tool host: %w", err)
	}
	defer client.Close()

	log.Info("connected to %s with %d tools", client.ServerInfo().Name, len(client.Tools()))

	llmClient := openai.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
	log.Debug("model endpoint: %s (%s)", llmClient.Model(), llmClient.Provider())

	orch := chat.NewOrchestrator(llmClient, client, log, chat.Config{
		Mode:          chat.Mode(cfg.LLM.ToolCallMode),
		ContextWindow: cfg.LLM.ContextWindow,
		Temperature:   cfg.LLM.Temperature,
		MaxTokens:     cfg.LLM.MaxTokens,
	})

	mode := cfg.LLM.ToolCallMode
	if mode == "" {
		mode = string(chat.ModeStructured)
	}
	log.SessionStart(fmt.Sprintf("model: %s | tool-call mode: %s", cfg.LLM.Model, mode))

	repl := chat.NewREPL(orch, client, log, os.Stdin, os.Stdout)
	started := time.Now()
	runErr := repl.Run(ctx)
	log.SessionEnd(time.Since(started), orch.ToolCallCount())
	return runErr
}

func runServe(cmd *cobra.Command, args []string) error {
	// The wire rides on stdout; all diagnostics go to stderr
	log := newLogger(os.Stderr)

	store := corp.NewCalendarStore()
	registry := tool.NewRegistry()
	if err := corp.RegisterAll(registry, store); err != nil {
		return err
	}

	log.Info("tool host starting with %d tools", len(registry.List()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := host.New(registry, log,
		host.WithResources(corp.NewResourceCatalog(store)),
		host.WithPrompts(corp.NewPromptCatalog()),
	)
	return h.Run(ctx, os.Stdin, os.Stdout)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.LoadWithDefaults()
}

// applyFlags lets command line flags override config file values
func applyFlags(cfg *config.Config) {
	if apiBaseURL != "" {
		cfg.LLM.BaseURL = apiBaseURL
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if model != "" {
		cfg.LLM.Model = model
	}
	if temperature != 0 {
		cfg.LLM.Temperature = temperature
	}
	if toolCallMode != "" {
		cfg.LLM.ToolCallMode = toolCallMode
	}
	cfg.LLM.APIKey = config.ExpandEnv(cfg.LLM.APIKey)
	cfg.LLM.BaseURL = config.ExpandEnv(cfg.LLM.BaseURL)
}

func newLogger(w *os.File) *logger.Logger {
	level := logger.LevelInfo
	if verbose {
		level = logger.LevelDebug
	}
	log := logger.NewLogger(w, level)
	if noColor {
		log.SetColorMode(false)
	}
	return log
}
