// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"piiscan/internal/config"
	"piiscan/internal/detector"
	"piiscan/internal/extractor"
	"piiscan/internal/help"
	"piiscan/internal/observability"
	"piiscan/internal/scanner"
	"piiscan/internal/version"

	"piiscan/internal/formatters"
	_ "piiscan/internal/formatters/csv"
	_ "piiscan/internal/formatters/json"
	_ "piiscan/internal/formatters/text"

	"piiscan/internal/validators/creditcard"
	"piiscan/internal/validators/ssn"

	"golang.org/x/term"
)

// configFlags holds command line flag values
type configFlags struct {
	outputFormat  string
	minConfidence float64
	checksToRun   string
	verbose       bool
	debug         bool
	noColor       bool
	quiet         bool
	showMatch     bool
	noService     bool
	extractorURL  string
	extractorCmd  string
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	format         string
	minConfidence  float64
	checksToRun    string
	verbose        bool
	debug          bool
	noColor        bool
	quiet          bool
	showMatch      bool
	serviceEnabled bool
	serviceURL     string
	serviceCommand string
	serviceArgs    []string
}

// resolveConfiguration resolves final configuration values from the config file
// and command line flags; flags win when explicitly set
func resolveConfiguration(cfg *config.Config, flags *configFlags) *finalConfiguration {
	final := &finalConfiguration{}

	final.format = cfg.Defaults.Format
	if isFlagSet("format") && flags.outputFormat != "" {
		final.format = flags.outputFormat
	}

	final.minConfidence = cfg.Defaults.MinConfidence
	if isFlagSet("confidence") {
		final.minConfidence = flags.minConfidence
	}

	final.checksToRun = cfg.Defaults.Checks
	if isFlagSet("checks") && flags.checksToRun != "" {
		final.checksToRun = flags.checksToRun
	}

	final.verbose = cfg.Defaults.Verbose
	if isFlagSet("verbose") {
		final.verbose = flags.verbose
	}

	final.debug = cfg.Defaults.Debug
	if isFlagSet("debug") {
		final.debug = flags.debug
	}

	final.noColor = cfg.Defaults.NoColor
	if isFlagSet("no-color") {
		final.noColor = flags.noColor
	}

	final.quiet = cfg.Defaults.Quiet
	if isFlagSet("quiet") {
		final.quiet = flags.quiet
	}

	final.showMatch = cfg.Defaults.ShowMatch
	if isFlagSet("show-match") {
		final.showMatch = flags.showMatch
	}

	final.serviceEnabled = cfg.Extractor.ServiceEnabled
	if isFlagSet("no-service") {
		final.serviceEnabled = !flags.noService
	}

	final.serviceURL = cfg.Extractor.ServiceURL
	if isFlagSet("extractor-url") && flags.extractorURL != "" {
		final.serviceURL = flags.extractorURL
	}

	final.serviceCommand = cfg.Extractor.ServiceCommand
	final.serviceArgs = cfg.Extractor.ServiceArgs
	if isFlagSet("extractor-cmd") && flags.extractorCmd != "" {
		parts := strings.Fields(flags.extractorCmd)
		final.serviceCommand = parts[0]
		final.serviceArgs = parts[1:]
	}

	return final
}

// validateConfiguration checks resolved values before any work starts
func validateConfiguration(final *finalConfiguration) error {
	if _, ok := formatters.Get(final.format); !ok {
		return fmt.Errorf("invalid format %q (available: %s)",
			final.format, strings.Join(formatters.List(), ", "))
	}

	if final.minConfidence < 0 || final.minConfidence > 100 {
		return fmt.Errorf("confidence %g out of range 0-100", final.minConfidence)
	}

	if final.checksToRun != "" && !strings.EqualFold(final.checksToRun, "all") {
		for _, check := range strings.Split(final.checksToRun, ",") {
			switch strings.ToUpper(strings.TrimSpace(check)) {
			case "CREDIT_CARD", "SSN":
			default:
				return fmt.Errorf("unknown check %q (available: CREDIT_CARD, SSN, all)", strings.TrimSpace(check))
			}
		}
	}

	return nil
}

// buildManager assembles the extractor chain; the service extractor is
// registered first so supported document formats prefer it, with the built-in
// extractors as fallback
func buildManager(final *finalConfiguration, observer *observability.StandardObserver) (*extractor.Manager, *extractor.ServiceExtractor) {
	manager := extractor.NewManager()

	var service *extractor.ServiceExtractor
	if final.serviceEnabled {
		opts := []extractor.ServiceOption{extractor.WithEndpoint(final.serviceURL)}
		if final.serviceCommand != "" {
			opts = append(opts, extractor.WithManagedProcess(final.serviceCommand, final.serviceArgs...))
		}
		service = extractor.NewServiceExtractor(opts...)
		manager.Register(service)
	}

	manager.Register(extractor.NewPlainTextExtractor())
	manager.Register(extractor.NewPDFExtractor())
	manager.Register(extractor.NewImageMetaExtractor())

	if observer != nil {
		for _, e := range manager.Extractors() {
			e.SetObserver(observer)
		}
	}

	return manager, service
}

func main() {
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	outputFormat := flag.String("format", "", "Output format: text, json, csv (default: text)")
	minConfidence := flag.Float64("confidence", 0, "Minimum confidence to display, 0-100 (default: 0)")
	checksToRun := flag.String("checks", "", "Specific checks to run: CREDIT_CARD, SSN, or 'all'")
	outputFile := flag.String("output", "", "Write a JSON report to this file in addition to stdout output")
	showMatch := flag.Bool("show-match", false, "Display the actual matched text in findings")
	verbose := flag.Bool("verbose", false, "Display detailed information for each finding")
	debug := flag.Bool("debug", false, "Enable debug logging of extraction and validation flow")
	quiet := flag.Bool("quiet", false, "Suppress the summary line (useful for scripts and CI/CD)")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	extractorURL := flag.String("extractor-url", "", "Document extraction service endpoint")
	extractorCmd := flag.String("extractor-cmd", "", "Command to launch the extraction service")
	noService := flag.Bool("no-service", false, "Disable the extraction service, use built-in extractors only")
	showHelp := flag.Bool("help", false, "Show help information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	flags := &configFlags{
		outputFormat:  *outputFormat,
		minConfidence: *minConfidence,
		checksToRun:   *checksToRun,
		verbose:       *verbose,
		debug:         *debug,
		noColor:       *noColor,
		quiet:         *quiet,
		showMatch:     *showMatch,
		noService:     *noService,
		extractorURL:  *extractorURL,
		extractorCmd:  *extractorCmd,
	}

	cfg := config.LoadConfigOrDefault(*configFile)
	finalConfig := resolveConfiguration(cfg, flags)

	// Auto-disable color in non-interactive environments
	if !isTerminal(os.Stdout) || finalConfig.quiet || os.Getenv("CI") != "" {
		finalConfig.noColor = true
	}

	var observer *observability.StandardObserver
	if finalConfig.debug {
		observer = observability.NewStandardObserver(observability.ObservabilityDebug, os.Stderr)
		observer.LogDetail("main", fmt.Sprintf("Command line arguments: %v", os.Args))
	}

	validators := []detector.Validator{
		creditcard.NewValidator(),
		ssn.NewValidator(),
	}

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	if *showHelp {
		helpSystem := help.NewSystem(finalConfig.noColor)
		for _, v := range validators {
			if provider, ok := v.(help.Provider); ok {
				helpSystem.RegisterProvider(provider)
			}
		}

		args := flag.Args()
		switch {
		case len(args) == 0:
			helpSystem.ShowGeneralHelp()
			return
		case len(args) == 1 && strings.EqualFold(args[0], "checks"):
			helpSystem.ShowChecksHelp()
			return
		case len(args) == 1:
			if helpSystem.ShowCheckHelp(args[0]) {
				return
			}
			fmt.Fprintf(os.Stderr, "Error: Unknown check %q\n", args[0])
			os.Exit(1)
		default:
			fmt.Fprintln(os.Stderr, "Error: Too many arguments for help command")
			fmt.Fprintln(os.Stderr, "Use 'piiscan --help', 'piiscan --help checks', or 'piiscan --help <check>'")
			os.Exit(1)
		}
	}

	if err := validateConfiguration(finalConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Error: A directory path to scan is required")
		fmt.Fprintln(os.Stderr, "Usage: piiscan [options] <directory>")
		os.Exit(1)
	}
	scanRoot := args[0]

	if observer != nil {
		observer.LogDetail("main", fmt.Sprintf("Scanning %s with checks=%s confidence>=%g",
			scanRoot, finalConfig.checksToRun, finalConfig.minConfidence))
	}

	// runScan owns the managed service lifecycle so os.Exit in main
	// never skips Stop
	if err := runScan(scanRoot, finalConfig, validators, observer, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var unavailable *extractor.ServiceUnavailableError
		if errors.As(err, &unavailable) {
			fmt.Fprintln(os.Stderr, "Start the extraction service, or run with --no-service to use built-in extractors only")
		}
		os.Exit(1)
	}
}

func runScan(scanRoot string, finalConfig *finalConfiguration, validators []detector.Validator,
	observer *observability.StandardObserver, outputFile string) error {
	manager, service := buildManager(finalConfig, observer)

	if service != nil {
		if err := service.Ensure(context.Background()); err != nil {
			return err
		}
		defer service.Stop()
	}

	scan := scanner.New(manager, validators,
		scanner.WithChecks(finalConfig.checksToRun),
		scanner.WithObserver(observer))

	result, err := scan.Scan(scanRoot)
	if err != nil {
		var unavailable *extractor.ServiceUnavailableError
		if errors.As(err, &unavailable) {
			return fmt.Errorf("scan aborted: %w", err)
		}
		return err
	}

	options := formatters.FormatterOptions{
		MinConfidence: finalConfig.minConfidence,
		Verbose:       finalConfig.verbose,
		NoColor:       finalConfig.noColor,
		ShowMatch:     finalConfig.showMatch,
		Quiet:         finalConfig.quiet,
	}

	output, err := formatters.Export(finalConfig.format, result, options)
	if err != nil {
		return err
	}
	fmt.Print(output)

	if outputFile != "" {
		reportOptions := options
		reportOptions.NoColor = true
		report, err := formatters.Export("json", result, reportOptions)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outputFile, []byte(report), 0600); err != nil {
			return fmt.Errorf("failed to write report to %s: %w", outputFile, err)
		}
		if !finalConfig.quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", outputFile)
		}
	}

	if !finalConfig.quiet {
		fmt.Fprintf(os.Stderr, "Scan of %s completed at %s\n", scanRoot, time.Now().Format(time.RFC3339))
	}

	return nil
}

// isFlagSet checks whether a flag was explicitly provided on the command line
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isTerminal checks if the given file is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
