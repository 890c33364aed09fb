package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/qaforge/internal/generate"
	"github.com/dgallion1/qaforge/internal/parser"
	"github.com/dgallion1/qaforge/internal/pipeline"
	"github.com/dgallion1/qaforge/internal/qastore"
	"github.com/spf13/cobra"
)

func processCmd() *cobra.Command {
	var endpoint string
	var model string
	var dataDir string
	var retryDelay time.Duration
	var pdfFallback bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "process <file>...",
		Short: "Generate Q&A pairs for documents and write JSONL files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelInfo
			}
			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			gen := generate.NewClient(endpoint, model, log)
			gen.SetRetryDelay(retryDelay)
			defer gen.Close()
			store := qastore.New(dataDir, log)
			worker := pipeline.NewWorker(gen, store, log, pdfFallback)

			type result struct {
				File   string `json:"file"`
				Status string `json:"status"`
				Items  int    `json:"items"`
				Output string `json:"output,omitempty"`
			}
			var results []result
			failed := 0

			for _, path := range args {
				name := filepath.Base(path)
				if !parser.IsSupportedExtension(name) {
					results = append(results, result{File: path, Status: "unsupported"})
					failed++
					continue
				}
				data, err := os.ReadFile(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "read %s: %v\n", path, err)
					results = append(results, result{File: path, Status: "read_error"})
					failed++
					continue
				}

				job := pipeline.NewJob(name, "", data)
				worker.Process(cmd.Context(), job)

				snap := job.Snapshot()
				r := result{
					File:   path,
					Status: string(snap.Status),
					Items:  snap.Progress.ItemsGenerated,
				}
				switch snap.Status {
				case pipeline.StatusCompleted, pipeline.StatusPartial, pipeline.StatusCached:
					r.Output = store.Path(name)
				default:
					failed++
				}
				results = append(results, r)
			}

			b, _ := json.MarshalIndent(results, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "http://localhost:11434", "Ollama endpoint URL")
	cmd.Flags().StringVar(&model, "model", "llama3.1", "model to use for generation")
	cmd.Flags().StringVarP(&dataDir, "data-dir", "d", "./data", "directory for generated JSONL files")
	cmd.Flags().DurationVar(&retryDelay, "retry-delay", time.Second, "delay between generation retries")
	cmd.Flags().BoolVar(&pdfFallback, "pdf-fallback", true, "fall back to pdftotext when PDF extraction fails")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")

	return cmd
}
