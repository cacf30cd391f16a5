// cmd/studio-cli/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"costume-studio/internal/common/camunda"
	"costume-studio/internal/common/config"
	"costume-studio/internal/common/gemini"
	commonhttp "costume-studio/internal/common/http"
	"costume-studio/internal/common/logger"
	"costume-studio/internal/models"
	"costume-studio/internal/studio/pipeline"
	"costume-studio/internal/workers/jobkit"
)

// studio is the set of generation operations the CLI drives.
type studio interface {
	GenerateDesign(ctx context.Context, brief models.DesignBrief) (*models.StructuredDesignResult, error)
	GenerateGarmentAsset(ctx context.Context, description, sizeTier string) (string, error)
	EditGarmentImage(ctx context.Context, image []byte, mediaType, directive string) (string, error)
	GenerateVirtualFit(ctx context.Context, req pipeline.VirtualFitRequest) (string, error)
	AnalyzeFitCompatibility(ctx context.Context, imageLocator, constraints string) (*models.FitAnalysisResult, error)
	GenerateStressTestVideo(ctx context.Context, imageLocator, actionLabel string) (string, error)
	TranscribeAudio(ctx context.Context, audio []byte, mediaType string) (string, error)
	AnalyzeVideo(ctx context.Context, video []byte, mediaType string) (string, error)
}

type workflowStarter interface {
	CreateInstance(ctx context.Context, processID string, vars map[string]interface{}) (int64, error)
	Close() error
}

type session struct {
	studio     studio
	downloader jobkit.Downloader
}

type cli struct {
	configPath string
	format     string
	outDir     string
	verbose    bool
	timeout    time.Duration

	log logger.Logger

	openSession  func(ctx context.Context, c *cli) (*session, error)
	openWorkflow func(address string) (workflowStarter, error)
}

func newCLI() *cli {
	return &cli{
		log:         logger.NewNoOpLogger(),
		openSession: openPipelineSession,
		openWorkflow: func(address string) (workflowStarter, error) {
			client, err := camunda.NewClient(address)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "studio",
		Short: "Generate costume designs, garment assets, fittings and stress tests",
		Long: `studio runs the costume generation pipeline from the command line.

Generated images and videos are written to --out; structured results are
printed as JSON or YAML.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.format != "json" && c.format != "yaml" {
				return fmt.Errorf("--format must be json or yaml, got %q", c.format)
			}
			level := "info"
			if c.verbose {
				level = "debug"
			}
			c.log = logger.NewStructured(level, "console")
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ./configs/config.yaml)")
	flags.StringVar(&c.format, "format", "json", "result format: json or yaml")
	flags.StringVar(&c.outDir, "out", ".", "directory for generated media")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")
	flags.DurationVar(&c.timeout, "timeout", 20*time.Minute, "overall deadline for one command")

	root.AddCommand(
		c.designCmd(),
		c.garmentCmd(),
		c.editCmd(),
		c.fitCmd(),
		c.analyzeCmd(),
		c.stressTestCmd(),
		c.transcribeCmd(),
		c.analyzeVideoCmd(),
		c.submitCmd(),
		c.registryCmd(),
	)
	return root
}

// openPipelineSession builds the credentialed pipeline from config.
func openPipelineSession(ctx context.Context, c *cli) (*session, error) {
	cfg, err := config.LoadStudio(c.configPath)
	if err != nil {
		return nil, err
	}

	httpClient := commonhttp.NewClient(config.GetDuration(cfg.GenAI.Timeout))
	client, err := gemini.New(ctx, gemini.Config{
		APIKey:     cfg.GenAI.APIKey,
		Profile:    cfg.GenAI.Profile,
		Overrides:  cfg.GenAI.Models,
		HTTPClient: httpClient.HTTPClient(),
	})
	if err != nil {
		return nil, err
	}

	opts, err := pipeline.ConfigOptions(cfg.Pipeline)
	if err != nil {
		return nil, err
	}
	return &session{
		studio:     pipeline.New(client, c.log, opts...),
		downloader: httpClient,
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCLI().rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
