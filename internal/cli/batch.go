package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vbascerano/dossier/internal/model"
	"github.com/vbascerano/dossier/internal/pipeline"
	"github.com/vbascerano/dossier/internal/render"
	"github.com/vbascerano/dossier/internal/worker"
)

var batchTimeout time.Duration

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Generate reports for multiple queries from a file",
	Long: `Batch runs the pipeline once per query:
- Read queries from the input file (one per line, # comments skipped)
- Run each query through the full pipeline
- A failed query is reported and skipped, the rest continue
- Write <slug>.json and <slug>.md per query

Each run already fetches pages concurrently, so queries are processed
one at a time to keep the search instance and target sites within the
per-domain rate limits.

Example:
  dossier batch queries.txt
  dossier batch queries.txt --out ./reports --llm
  dossier batch queries.txt --timeout 30m --reliefweb`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for the batch")
	batchCmd.Flags().StringVarP(&outputDir, "out", "o", "./out", "output directory")
	batchCmd.Flags().StringVar(&searxURL, "searx", "", "SearXNG endpoint (overrides config)")
	batchCmd.Flags().BoolVar(&reliefweb, "reliefweb", false, "also collect from the ReliefWeb reports API")
	batchCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent (overrides config)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fetch cache")
	batchCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")

	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable the LLM stages")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name (overrides config)")
	batchCmd.Flags().StringVar(&llmBaseURL, "llm-base-url", "", "OpenAI-compatible base URL (overrides config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	queries, err := worker.ReadLines(file)
	if err != nil {
		return fmt.Errorf("read queries: %w", err)
	}
	if len(queries) == 0 {
		return fmt.Errorf("no queries in %s", file)
	}

	cfg := buildConfig()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Dossier Batch\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:  %s\n", file)
	fmt.Fprintf(os.Stderr, "  Queries:     %d\n", len(queries))
	fmt.Fprintf(os.Stderr, "  Output dir:  %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "  Timeout:     %v\n", batchTimeout)
	if cfg.LLM.Enabled {
		fmt.Fprintf(os.Stderr, "  LLM:         %s\n", cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	p := pipeline.New(cfg)

	successCount := 0
	failureCount := 0
	for _, query := range queries {
		if ctx.Err() != nil {
			fmt.Fprintf(os.Stderr, "✗ batch timeout, %d queries skipped\n", len(queries)-successCount-failureCount)
			break
		}

		report, err := p.Run(ctx, query, model.TimeWindow{})
		if err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", query, err)
			continue
		}
		jsonPath, _, err := render.WriteFiles(report, cfg.Output.Dir)
		if err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", query, err)
			continue
		}
		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s → %s (%d sources, %d findings)\n",
			query, jsonPath, len(report.Sources), len(report.Findings))
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d queries\n", len(queries))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", cfg.Output.Dir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
