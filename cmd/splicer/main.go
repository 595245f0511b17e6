// Command splicer appends a fixed endcard clip to every video in a batch.
// It reads pid/url rows from a text or CSV file, downloads each source,
// splices the endcard with ffmpeg, and packages the outputs plus a result
// report into a single deliverable.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/backmassage/splicer/internal/artifact"
	"github.com/backmassage/splicer/internal/check"
	"github.com/backmassage/splicer/internal/config"
	"github.com/backmassage/splicer/internal/display"
	"github.com/backmassage/splicer/internal/input"
	"github.com/backmassage/splicer/internal/logging"
	"github.com/backmassage/splicer/internal/pipeline"
)

// CLI flags
var (
	inputFlag   string
	pidsFlag    string
	urlsFlag    string
	csvFlag     string
	configFlag  string
	endcardFlag string
	outFlag     string
	checkFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "splicer",
	Short: "Batch endcard splicing for short videos",
	Long: `Splicer downloads each source video of a batch, appends the configured
endcard clip with ffmpeg, and packages the results for delivery.

Rows come from one of three input forms:
  --input   text file of "pid,video_url" lines
  --pids    pid lines, paired positionally with --urls url lines
  --csv     CSV file with pid and video_url headers

Examples:
  splicer --input batch.txt --out ./dist
  splicer --pids pids.txt --urls urls.txt
  splicer --csv batch.csv --endcard assets/video/endcard.mp4
  splicer --check`,
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringVarP(&inputFlag, "input", "i", "", `Text file of "pid,video_url" lines`)
	rootCmd.Flags().StringVar(&pidsFlag, "pids", "", "Text file of pid lines (requires --urls)")
	rootCmd.Flags().StringVar(&urlsFlag, "urls", "", "Text file of video url lines (requires --pids)")
	rootCmd.Flags().StringVar(&csvFlag, "csv", "", "CSV file with pid and video_url headers")
	rootCmd.Flags().StringVar(&configFlag, "config", "", "YAML config file (default $SP_CONFIG)")
	rootCmd.Flags().StringVar(&endcardFlag, "endcard", "", "Endcard video path (overrides config)")
	rootCmd.Flags().StringVarP(&outFlag, "out", "o", ".", "Directory the deliverable is written to")
	rootCmd.Flags().BoolVar(&checkFlag, "check", false, "Run system diagnostics and exit")

	rootCmd.MarkFlagsMutuallyExclusive("input", "pids", "csv")
	rootCmd.MarkFlagsMutuallyExclusive("input", "urls", "csv")
	rootCmd.MarkFlagsRequiredTogether("pids", "urls")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "splicer: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logging.Init()

	cfg, err := config.Load(configFlag)
	if err != nil {
		return fmt.Errorf("无法读取配置文件: %w", err)
	}
	if endcardFlag != "" {
		cfg.EndcardPath = endcardFlag
	}

	display.PrintBanner()

	if checkFlag {
		if !check.RunCheck(&cfg) {
			os.Exit(1)
		}
		return nil
	}

	rows, parseFailures, err := loadRows()
	if err != nil {
		return err
	}
	if len(rows) == 0 && len(parseFailures) == 0 {
		return fmt.Errorf("没有可处理的输入行")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.New(&cfg, pipeline.Options{})
	results, ws, err := runner.Run(ctx, rows)
	if err != nil {
		return err
	}
	if ws != nil {
		defer ws.Cleanup()
	}

	merged := mergeParseFailures(results, parseFailures)

	art, err := artifact.BuildDownloadArtifact(merged)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outFlag, 0o755); err != nil {
		return fmt.Errorf("无法创建输出目录: %w", err)
	}
	dest := filepath.Join(outFlag, art.Filename)
	if err := os.WriteFile(dest, art.Data, 0o644); err != nil {
		return fmt.Errorf("无法写入结果文件: %w", err)
	}

	succeeded := 0
	for _, res := range merged {
		if res.Status == pipeline.StatusSuccess {
			succeeded++
		}
	}
	log.Info().
		Int("success", succeeded).
		Int("failed", len(merged)-succeeded).
		Str("artifact", dest).
		Str("size", display.FormatBytes(int64(len(art.Data)))).
		Msg("batch complete")
	fmt.Printf("成功 %d 条，失败 %d 条，结果已写入: %s\n", succeeded, len(merged)-succeeded, dest)

	return nil
}

// loadRows reads and parses whichever input form was selected. Exactly one
// form must be given; the flag definitions enforce mutual exclusion.
func loadRows() ([]input.Row, []input.ParseFailure, error) {
	switch {
	case inputFlag != "":
		data, err := os.ReadFile(inputFlag)
		if err != nil {
			return nil, nil, fmt.Errorf("无法读取输入文件: %w", err)
		}
		rows, failures := input.ParseCombined(string(data))
		return rows, failures, nil

	case pidsFlag != "":
		pids, err := os.ReadFile(pidsFlag)
		if err != nil {
			return nil, nil, fmt.Errorf("无法读取 pid 文件: %w", err)
		}
		urls, err := os.ReadFile(urlsFlag)
		if err != nil {
			return nil, nil, fmt.Errorf("无法读取 url 文件: %w", err)
		}
		rows, failures := input.ParseSplit(string(pids), string(urls))
		return rows, failures, nil

	case csvFlag != "":
		f, err := os.Open(csvFlag)
		if err != nil {
			return nil, nil, fmt.Errorf("无法读取 CSV 文件: %w", err)
		}
		defer f.Close()
		rows, failures := input.ParseCSV(f)
		return rows, failures, nil
	}

	return nil, nil, fmt.Errorf("需要 --input、--pids/--urls 或 --csv 之一")
}

// mergeParseFailures folds row-level parse failures into the result set as
// FAILED rows so the report covers every line the user submitted. Parse
// failures share the row index space with parsed rows, so the merged set
// sorts cleanly by index.
func mergeParseFailures(results []pipeline.TaskResult, failures []input.ParseFailure) []pipeline.TaskResult {
	merged := make([]pipeline.TaskResult, 0, len(results)+len(failures))
	merged = append(merged, results...)
	for _, f := range failures {
		merged = append(merged, pipeline.TaskResult{
			Index:  f.Index,
			PID:    f.PIDRaw,
			Status: pipeline.StatusFailed,
			Error:  f.Error,
		})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Index < merged[j].Index })
	return merged
}
