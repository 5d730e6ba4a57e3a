package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmfuertes/coursegen/internal/generator"
	"github.com/jmfuertes/coursegen/internal/metrics"
	"github.com/jmfuertes/coursegen/internal/models"
	"github.com/jmfuertes/coursegen/internal/service"
)

var (
	generateConcurrency int
	generateNoReview    bool
	generateNoReport    bool
	generatePlain       bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <outline-doc-id> <root-folder-id>",
	Short: "Generate the full course tree from an outline document",
	Long: `Generate reads the outline document from the store, parses it into
modules and topics, materializes the folder tree under the root folder,
and generates the three artifacts of every topic.

Reruns against the same root reuse the existing folders and documents.
Exit code is non-zero when any topic fails.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		sourceID, rootID := args[0], args[1]

		st, err := getStore(ctx)
		if err != nil {
			exitWithError("%v", err)
		}
		client, err := getLLM()
		if err != nil {
			exitWithError("%v", err)
		}

		collector := metrics.NewCollector()
		gen := generator.New(client, generator.Options{
			Review:  cfg.ReviewPass && !generateNoReview,
			Metrics: collector,
		})

		concurrency := cfg.Concurrency
		if generateConcurrency > 0 {
			concurrency = generateConcurrency
		}

		pipelineCfg := service.PipelineConfig{
			Concurrency:   concurrency,
			PersistReport: !generateNoReport,
			Metrics:       collector,
		}

		var report *models.RunReport
		if generatePlain || !stdoutIsTTY() {
			pipelineCfg.Sink = service.LogSink{}
			pipeline := service.NewPipeline(st, gen, pipelineCfg)
			report, err = pipeline.Run(ctx, sourceID, rootID)
			if report != nil {
				printSummary(report)
			}
		} else {
			report, err = runGenerateTUI(func(sink service.ProgressSink) (*models.RunReport, error) {
				pipelineCfg.Sink = sink
				pipeline := service.NewPipeline(st, gen, pipelineCfg)
				return pipeline.Run(ctx, sourceID, rootID)
			})
		}

		if err != nil {
			exitWithError("%v", err)
		}
		if report != nil && report.FailedTopics > 0 {
			os.Exit(1)
		}
	},
}

func stdoutIsTTY() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func printSummary(report *models.RunReport) {
	fmt.Printf("\nRun %s\n", report.RunID)
	fmt.Printf("  Course:    %s\n", report.CourseName)
	fmt.Printf("  Completed: %d/%d topics\n", report.CompletedTopics, report.TotalTopics)
	if report.FailedTopics > 0 {
		fmt.Printf("  Failed:    %d\n", report.FailedTopics)
		for _, r := range report.TopicResults {
			if r.Status == models.TopicFailed {
				fmt.Printf("    • %s %s: %s\n", r.TopicNumber, r.TopicName, r.Error)
			}
		}
	}
	for _, e := range report.Errors {
		fmt.Printf("  Error: %s\n", e)
	}
}

func init() {
	generateCmd.Flags().IntVarP(&generateConcurrency, "concurrency", "c", 0, "parallel topic generations (default from config)")
	generateCmd.Flags().BoolVar(&generateNoReview, "no-review", false, "skip the review passes")
	generateCmd.Flags().BoolVar(&generateNoReport, "no-report", false, "do not write the run report document")
	generateCmd.Flags().BoolVar(&generatePlain, "plain", false, "plain log output instead of the progress UI")
}
