// cmd/tools/extract-transcript/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"transcript-extractor/internal/common/config"
	"transcript-extractor/internal/common/logger"
	"transcript-extractor/internal/common/nlp"
	"transcript-extractor/internal/extractor"
	"transcript-extractor/internal/models"
)

func main() {
	strategy := flag.String("strategy", "lexical", "Extraction strategy (lexical, assisted, hybrid)")
	annotationFile := flag.String("annotation-file", "", "Saved annotation service response; runs the assisted strategy offline")
	configPath := flag.String("config", "", "Config file for entity labels, person types and the annotation service")
	now := flag.String("now", "", "Reference date for year-less phrases (2006-01-02), defaults to today")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Usage = help
	flag.Parse()

	transcript, err := readTranscript(flag.Args())
	if err != nil {
		fail("Error reading transcript: %v", err)
	}

	log := logger.NewStructured(*logLevel, "console")
	defer log.Sync()

	opts := []extractor.Option{extractor.WithLogger(log)}
	if *now != "" {
		ref, err := time.Parse("2006-01-02", *now)
		if err != nil {
			fail("Error: -now must look like 2006-01-02: %v", err)
		}
		opts = append(opts, extractor.WithClock(func() time.Time { return ref }))
	}

	var cfg *config.Config
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
		if err != nil {
			fail("Error loading config: %v", err)
		}
		cfgOpts, err := extractor.OptionsFromConfig(cfg.Extraction)
		if err != nil {
			fail("Error in extraction config: %v", err)
		}
		opts = append(opts, cfgOpts...)
		if cfg.Annotation.Endpoint != "" {
			opts = append(opts, extractor.WithAnnotator(nlp.NewClient(cfg.Annotation, nlp.WithLogger(log))))
		}
	}

	ex := extractor.New(opts...)

	var result *models.ExtractionResult
	if *annotationFile != "" {
		result, err = extractFromFile(ex, transcript, *annotationFile)
	} else {
		var s extractor.Strategy
		s, err = extractor.ParseStrategy(*strategy)
		if err == nil {
			timeout := 30 * time.Second
			if cfg != nil && cfg.Annotation.Timeout > 0 {
				timeout = 2 * config.GetDuration(cfg.Annotation.Timeout)
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			result, err = ex.Extract(ctx, transcript, s)
			cancel()
		}
	}
	if err != nil {
		fail("Error: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fail("Error writing result: %v", err)
	}
}

func extractFromFile(ex *extractor.Extractor, transcript, path string) (*models.ExtractionResult, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	resp, err := nlp.Decode(body)
	if err != nil {
		return nil, err
	}
	if transcript == "" {
		transcript = resp.Query
	}
	return ex.ExtractAnnotated(transcript, resp)
}

// readTranscript joins the arguments, or reads stdin when there are none.
func readTranscript(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", err
	}
	if stat.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func help() {
	fmt.Fprintln(os.Stderr, "Usage: extract-transcript [flags] [transcript words...]")
	fmt.Fprintln(os.Stderr, "Reads the transcript from the arguments or stdin and prints the extraction result as JSON.")
	fmt.Fprintln(os.Stderr)
	flag.PrintDefaults()
}
