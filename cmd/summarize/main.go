// Package main provides a CLI command for summarizing a single document
// without going through the API server or the database.
// Usage: docsum-summarize --file doc.txt [--template key] [--prompt text] [--output json]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docsum/internal/chunker"
	"docsum/internal/config"
	"docsum/internal/infra/extractor"
	"docsum/internal/infra/generation"
	"docsum/internal/tokenizer"
	"docsum/internal/usecase/summarize"
)

// SummaryOutput represents the JSON output format for summarization results.
type SummaryOutput struct {
	Filename       string   `json:"filename"`
	Template       string   `json:"template"`
	Summary        string   `json:"summary"`
	Insights       []string `json:"insights"`
	ChunksCount    int      `json:"chunks_count"`
	ProcessingTime string   `json:"processing_time"`
}

func main() {
	var (
		filePath     string
		templateKey  string
		customPrompt string
		contentType  string
		outputFormat string
	)

	flag.StringVar(&filePath, "file", "", "Path to the document to summarize (required)")
	flag.StringVar(&templateKey, "template", "general", "Prompt template key (see --list-templates)")
	flag.StringVar(&customPrompt, "prompt", "", "Custom prompt overriding the template; must contain {text}")
	flag.StringVar(&contentType, "content-type", "", "Override content type detection (text/plain or text/html)")
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	listTemplates := flag.Bool("list-templates", false, "List available templates and exit")
	flag.Parse()

	logger := initLogger()

	registry, err := config.LoadTemplateRegistry(os.Getenv("TEMPLATES_FILE"))
	if err != nil {
		fail(logger, "failed to load template registry", err)
	}

	if *listTemplates {
		printTemplates(registry)
		return
	}

	if filePath == "" {
		fmt.Fprintln(os.Stderr, "Error: --file is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage: docsum-summarize --file doc.txt [--template key] [--prompt text] [--output json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Examples:")
		fmt.Fprintln(os.Stderr, "  docsum-summarize --file report.txt")
		fmt.Fprintln(os.Stderr, "  docsum-summarize --file page.html --template contract_analysis")
		fmt.Fprintln(os.Stderr, "  docsum-summarize --file notes.txt --prompt 'List action items in {text}'")
		fmt.Fprintln(os.Stderr, "  docsum-summarize --file report.txt --output json")
		os.Exit(1)
	}

	tmpl, err := registry.Resolve(templateKey, customPrompt)
	if err != nil {
		fail(logger, "failed to resolve template", err)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- path supplied by the operator running the CLI
	if err != nil {
		fail(logger, "failed to read file", err)
	}

	if contentType == "" {
		contentType = detectContentType(filePath)
	}

	docsCfg, err := config.LoadDocumentsConfig()
	if err != nil {
		fail(logger, "failed to load documents configuration", err)
	}

	genCfg, err := generation.LoadConfig()
	if err != nil {
		fail(logger, "failed to load generation configuration", err)
	}

	provider, err := generation.New(genCfg)
	if err != nil {
		fail(logger, "failed to create generation provider", err)
	}

	logger.Info("summarizing document",
		slog.String("file", filePath),
		slog.String("content_type", contentType),
		slog.String("template", tmpl.Key),
		slog.String("provider", provider.Name()))

	timeout := 10 * time.Minute
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	text, err := extractor.NewDocument().Extract(ctx, contentType, data)
	if err != nil {
		fail(logger, "extraction failed", err)
	}

	chunks, err := chunker.Split(text, docsCfg.Budget(), tokenizer.Select())
	if err != nil {
		fail(logger, "chunking failed", err)
	}
	if len(chunks) == 0 {
		fail(logger, "document contains no summarizable text", nil)
	}

	svc := summarize.NewService(provider, summarize.DefaultConfig())
	result, err := svc.Summarize(ctx, chunks, tmpl)
	if err != nil {
		fail(logger, "summarization failed", err)
	}

	if outputFormat == "json" {
		outputJSON(filepath.Base(filePath), tmpl.Key, result)
	} else {
		outputText(filepath.Base(filePath), tmpl.Key, result)
	}
}

// detectContentType maps the file extension to one of the supported types.
func detectContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return "text/html"
	default:
		return "text/plain"
	}
}

// printTemplates lists the registered templates on stdout.
func printTemplates(registry *config.TemplateRegistry) {
	for _, tmpl := range registry.List() {
		fmt.Printf("%-20s %s\n", tmpl.Key, tmpl.Description)
	}
}

// outputText prints the result in human-readable format.
func outputText(filename, template string, result *summarize.Result) {
	fmt.Printf("Summary of %s (template: %s, %d chunk(s), %s)\n\n",
		filename, template, result.ChunksProcessed, result.ProcessingTime.Round(time.Millisecond))
	fmt.Println(result.Summary)

	if len(result.Insights) > 0 {
		fmt.Printf("\nKey Insights:\n")
		for i, insight := range result.Insights {
			fmt.Printf("%d. %s\n", i+1, insight)
		}
	}
}

// outputJSON prints the result in JSON format.
func outputJSON(filename, template string, result *summarize.Result) {
	output := SummaryOutput{
		Filename:       filename,
		Template:       template,
		Summary:        result.Summary,
		Insights:       result.Insights,
		ChunksCount:    result.ChunksProcessed,
		ProcessingTime: result.ProcessingTime.String(),
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to encode JSON: %v\n", err)
		os.Exit(1)
	}
}

// fail logs the error and exits with a non-zero status.
func fail(logger *slog.Logger, msg string, err error) {
	if err != nil {
		logger.Error(msg, slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		logger.Error(msg)
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}

// initLogger initializes and returns a structured logger writing to stderr
// so stdout stays clean for the summary output.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}
