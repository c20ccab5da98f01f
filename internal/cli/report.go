package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vbascerano/dossier/internal/model"
	"github.com/vbascerano/dossier/internal/pipeline"
	"github.com/vbascerano/dossier/internal/render"
)

var (
	fromDate   string
	toDate     string
	outputDir  string
	searxURL   string
	reliefweb  bool
	runTimeout time.Duration
	userAgent  string
	noCache    bool
	noRobots   bool
	workers    int
	llmEnabled bool
	llmModel   string
	llmBaseURL string
	topK       int
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <query>",
	Short: "Research a query and generate a citation-backed report",
	Long: `Report runs the full pipeline for one query:
- Plan sub-queries (LLM planner, with a static fallback)
- Collect seeds from SearXNG and optionally ReliefWeb
- Fetch and extract pages concurrently, honoring robots.txt
- Collapse near-duplicates and rank by freshness/authority/completeness
- Extract a timeline and corroborate claims across independent domains
- Validate and write <slug>.json and <slug>.md

Example:
  dossier report "dazi acciaio UE"
  dossier report "flood response Emilia-Romagna" --reliefweb --from 2025-09-01
  dossier report "steel tariffs" --llm --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&fromDate, "from", "", "window start (YYYY-MM-DD, default: planner freshness)")
	reportCmd.Flags().StringVar(&toDate, "to", "", "window end (YYYY-MM-DD, default: today)")
	reportCmd.Flags().StringVarP(&outputDir, "out", "o", "./out", "output directory")
	reportCmd.Flags().StringVar(&searxURL, "searx", "", "SearXNG endpoint (overrides config)")
	reportCmd.Flags().BoolVar(&reliefweb, "reliefweb", false, "also collect from the ReliefWeb reports API")
	reportCmd.Flags().DurationVar(&runTimeout, "timeout", 5*time.Minute, "overall run timeout")
	reportCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent (overrides config)")
	reportCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fetch cache")
	reportCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	reportCmd.Flags().IntVar(&workers, "workers", 0, "fetch workers (0 = config default)")

	reportCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the LLM stages (planner, summary, fact-check, NER)")
	reportCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (overrides config)")
	reportCmd.Flags().StringVar(&llmBaseURL, "llm-base-url", "", "OpenAI-compatible base URL (overrides config)")
	reportCmd.Flags().IntVar(&topK, "topk", 0, "documents passed to the LLM stages (0 = config default)")
}

// buildConfig layers config file values and flags over the defaults.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	// Config file / environment overrides for the stable settings.
	if v := viper.GetString("search.searx_url"); v != "" {
		cfg.Search.SearxURL = v
	}
	if v := viper.GetString("search.language"); v != "" {
		cfg.Search.Language = v
	}
	if v := viper.GetString("llm.base_url"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := viper.GetString("llm.model"); v != "" {
		cfg.LLM.Model = v
	}
	if v := viper.GetString("output.analyst"); v != "" {
		cfg.Output.Analyst = v
	}

	// Flags win over everything.
	if searxURL != "" {
		cfg.Search.SearxURL = searxURL
	}
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if workers > 0 {
		cfg.Concurrency.FetchWorkers = workers
	}
	if topK > 0 {
		cfg.LLM.TopK = topK
	}
	cfg.Search.ReliefWebOn = reliefweb
	cfg.Cache.Enabled = !noCache
	cfg.HTTP.RespectRobots = !noRobots
	cfg.Output.Dir = outputDir
	cfg.Output.Verbose = verbose

	if llmEnabled {
		cfg.LLM.Enabled = true
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
		if llmBaseURL != "" {
			cfg.LLM.BaseURL = llmBaseURL
		}
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			cfg.LLM.APIKey = key
		}
	}
	return cfg
}

func runReport(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg := buildConfig()

	if verbose {
		fmt.Fprintf(os.Stderr, "Query:   %s\n", query)
		fmt.Fprintf(os.Stderr, "SearXNG: %s\n", cfg.Search.SearxURL)
		fmt.Fprintf(os.Stderr, "LLM:     %v\n", cfg.LLM.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p := pipeline.New(cfg)
	report, err := p.Run(ctx, query, model.TimeWindow{From: fromDate, To: toDate})
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	jsonPath, mdPath, err := render.WriteFiles(report, cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ %s: %d sources, %d findings, %d events\n",
		report.Metadata.ReportID, len(report.Sources), len(report.Findings), len(report.Timeline))
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", jsonPath)
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", mdPath)
	return nil
}
