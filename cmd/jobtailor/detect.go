package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-tailor/internal/detect"
	"github.com/jonathan/job-tailor/internal/fetch"
	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/observability"
	"github.com/jonathan/job-tailor/internal/page"
	"github.com/jonathan/job-tailor/internal/types"
)

var detectCmd = &cobra.Command{
	Use:   "detect [url]",
	Short: "Detect a job posting on a page",
	Long:  "Detect and extract the job description from a URL or saved HTML file, printing the detection result as JSON.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDetect,
}

var (
	detectHTMLFile string
	detectURLsFile string
	detectWorkers  int
	detectUseLLM   bool
)

func init() {
	detectCmd.Flags().StringVar(&detectHTMLFile, "html-file", "", "Path to a saved HTML file instead of fetching a URL")
	detectCmd.Flags().StringVar(&detectURLsFile, "urls-file", "", "Path to a file with one URL per line for batch detection")
	detectCmd.Flags().IntVar(&detectWorkers, "workers", 4, "Concurrent fetches for batch detection")
	detectCmd.Flags().BoolVar(&detectUseLLM, "llm", false, "Fall back to LLM extraction when the heuristic chain finds nothing")

	rootCmd.AddCommand(detectCmd)
}

// detectionOutput is one line of detect output.
type detectionOutput struct {
	URL       string                 `json:"url,omitempty"`
	Platform  string                 `json:"platform"`
	Found     bool                   `json:"found"`
	Detection *types.DetectionResult `json:"detection,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	var client llm.Client
	if detectUseLLM {
		client, err = newLLMClient(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
	}

	budget := cfg.TruncationBudget
	if budget <= 0 {
		budget = llm.DefaultTruncationBudget
	}

	if detectURLsFile != "" {
		return runDetectBatch(cmd.Context(), cfg.UseBrowser, cfg.Verbose, client, budget)
	}

	var p *page.Page
	var pageURL string
	switch {
	case detectHTMLFile != "":
		data, err := os.ReadFile(detectHTMLFile)
		if err != nil {
			return fmt.Errorf("failed to read HTML file: %w", err)
		}
		if len(args) == 1 {
			pageURL = args[0]
		}
		p, err = page.New(string(data), pageURL)
		if err != nil {
			return err
		}
	case len(args) == 1:
		pageURL = args[0]
		p, err = fetch.Page(cmd.Context(), pageURL, &fetch.Options{
			Timeout:    fetch.DefaultTimeout,
			UserAgent:  fetch.DefaultUserAgent,
			UseBrowser: cfg.UseBrowser,
			Verbose:    cfg.Verbose,
		})
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("either a url argument or --html-file is required")
	}

	out := detectOne(cmd.Context(), p, pageURL, client, budget)
	if cfg.Verbose && out.Found {
		observability.NewPrinter(os.Stderr).PrintDetection(out.Detection, out.Platform)
	}
	return printJSON(out)
}

// runDetectBatch detects every URL in the list concurrently. Individual
// failures are reported per URL, not as a batch failure.
func runDetectBatch(ctx context.Context, useBrowser, verbose bool, client llm.Client, budget int) error {
	data, err := os.ReadFile(detectURLsFile)
	if err != nil {
		return fmt.Errorf("failed to read URLs file: %w", err)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			urls = append(urls, line)
		}
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", detectURLsFile)
	}

	opts := &fetch.Options{
		Timeout:    fetch.DefaultTimeout,
		UserAgent:  fetch.DefaultUserAgent,
		UseBrowser: useBrowser,
		Verbose:    verbose,
	}

	results := make([]detectionOutput, len(urls))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detectWorkers)
	for i, url := range urls {
		g.Go(func() error {
			out := detectionOutput{URL: url, Platform: string(fetch.DetectPlatform(url))}
			p, err := fetch.Page(gctx, url, opts)
			if err != nil {
				out.Error = err.Error()
			} else {
				out = detectOne(gctx, p, url, client, budget)
			}
			mu.Lock()
			results[i] = out
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, out := range results {
		if err := printJSON(out); err != nil {
			return err
		}
	}
	return nil
}

func detectOne(ctx context.Context, p *page.Page, url string, client llm.Client, budget int) detectionOutput {
	out := detectionOutput{URL: url, Platform: string(fetch.DetectPlatform(url))}

	result := detect.Detect(p)
	if result.JD == "" && client != nil {
		pageText := p.VisibleText(fetch.NoiseSelectors(fetch.DetectPlatform(url))...)
		record, ok, err := llm.ExtractJob(ctx, client, pageText, budget)
		if err != nil {
			out.Error = err.Error()
			return out
		}
		if ok && record.Description != "" {
			result = types.DetectionResult{
				JD:       record.Description,
				JobTitle: record.Title,
				Company:  record.Company,
				Method:   types.MethodLLM,
			}
		}
	}

	out.Found = result.JD != ""
	out.Detection = &result
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
