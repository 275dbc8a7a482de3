package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	// Global flags
	configFile string
	verbose    bool

	// Plan/report flags
	profileFile  string
	languages    []string
	responseFile string
	outputDir    string
	writePDF     bool
	writeHTML    bool
	reportLang   string
	datedOutput  bool

	// Serve flags
	serveAddr       string
	openBrowserFlag bool

	logger *zap.Logger
	appFs  afero.Fs = afero.NewOsFs()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "financebuddy",
	Short: "FinanceBuddyGPT - personalised financial plans for Indian users",
	Long: `FinanceBuddyGPT collects a financial profile, asks a generative model for a
personalised plan (English and Hindi), and renders it as console output, an
HTML report or a paginated PDF.

The Gemini API key is read from GEMINI_API_KEY (or FINBUDDY_GENERATOR_API_KEY).
A .env file in the working directory is loaded if present.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(verbose, cmd.Name() != "serve")
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a plan and print it",
	Long: `Generates a plan for every configured language and prints it to the console.
Without --profile the profile is collected interactively.

Examples:
  financebuddy plan --profile me.yaml
  financebuddy plan --profile me.yaml --lang English --pdf --html
  financebuddy plan --profile me.yaml --response-file saved-{lang}.md`,
	RunE: runPlan,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a plan and write the PDF report",
	RunE:  runReport,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI and JSON API",
	RunE:  runServe,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a profile interactively and write a default config",
	RunE:  runInit,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "config.yaml", "Path to YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	for _, cmd := range []*cobra.Command{planCmd, reportCmd} {
		cmd.Flags().StringVarP(&profileFile, "profile", "p", "", "Profile file (YAML, or JSON with .json extension)")
		cmd.Flags().StringSliceVar(&languages, "lang", nil, "Response languages (default from config)")
		cmd.Flags().StringVar(&responseFile, "response-file", "", "Replay saved responses instead of calling the model ({lang} is replaced per language)")
		cmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory (default from config)")
		cmd.Flags().StringVar(&reportLang, "report-lang", "", "Language of the PDF/HTML report (default: first language)")
		cmd.Flags().BoolVar(&datedOutput, "dated", false, "Write reports into a dated sub-folder")
	}
	planCmd.Flags().BoolVar(&writePDF, "pdf", false, "Also write the PDF report")
	planCmd.Flags().BoolVar(&writeHTML, "html", false, "Also write the HTML report")
	reportCmd.Flags().BoolVar(&writeHTML, "html", false, "Also write the HTML report")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, use :0 for auto port)")
	serveCmd.Flags().BoolVar(&openBrowserFlag, "open", false, "Open the web UI in the default browser")

	initCmd.Flags().StringVarP(&profileFile, "profile", "p", "profile.yaml", "Where to write the profile")

	rootCmd.AddCommand(planCmd, reportCmd, serveCmd, initCmd, configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadAppConfig loads the config file, falling back to defaults when it is missing
func loadAppConfig() (*Config, error) {
	config, err := LoadConfig(configFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || config == nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
		logger.Debug("config file not found, using defaults", zap.String("path", configFile))
	}
	ApplyEnvironment(config)
	return config, nil
}

// resolveLanguages applies --lang over the configured languages
func resolveLanguages(config *Config) ([]Language, error) {
	if len(languages) > 0 {
		config.Planning.Languages = languages
	}
	return config.Languages()
}

// loadOrBuildProfile reads --profile or asks for the profile on the terminal
func loadOrBuildProfile() (*FinancialProfile, error) {
	if profileFile != "" {
		return LoadProfile(appFs, profileFile)
	}
	builder := NewProfileBuilder(os.Stdin, os.Stdout)
	return builder.Build(), nil
}

func buildGenerator(ctx context.Context, config *Config) (Generator, error) {
	if responseFile != "" {
		config.Generator.Provider = "replay"
		config.Generator.ReplayFile = responseFile
	}
	return NewGenerator(ctx, config.Generator, appFs)
}

// userError replaces a pipeline error with its short user message; details go to the log
func userError(err error) error {
	var planErr *PlanError
	if errors.As(err, &planErr) {
		logger.Debug("pipeline error", zap.String("kind", planErr.Kind.String()), zap.Error(err))
		return errors.New(planErr.UserMessage())
	}
	return err
}

// reportDir is the output directory, optionally with a dated sub-folder
func reportDir(config *Config) string {
	dir := outputDir
	if dir == "" {
		dir = config.Report.OutputDir
	}
	if datedOutput {
		dir = filepath.Join(dir, reportTimestamp())
	}
	return dir
}

// generate runs the shared plan pipeline for plan and report
func generate(cmd *cobra.Command) (*Config, *FinancialProfile, *PlanSet, []Language, error) {
	config, err := loadAppConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	langs, err := resolveLanguages(config)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	profile, err := loadOrBuildProfile()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	gen, err := buildGenerator(cmd.Context(), config)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	planner := NewPlanner(gen, config, logger)
	set, err := planner.GeneratePlans(cmd.Context(), profile, langs)
	if err != nil {
		return nil, nil, nil, nil, userError(err)
	}
	return config, profile, set, langs, nil
}

func selectReportLanguage(langs []Language) (Language, error) {
	if reportLang == "" {
		return langs[0], nil
	}
	lang, err := ParseLanguage(reportLang)
	if err != nil {
		return English, err
	}
	for _, l := range langs {
		if l == lang {
			return lang, nil
		}
	}
	return English, fmt.Errorf("--report-lang %s was not generated (languages: %v)", lang, langs)
}

func runPlan(cmd *cobra.Command, args []string) error {
	config, profile, set, langs, err := generate(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	PrintProfileHeader(out, profile, set.Directive)
	for _, lang := range langs {
		if err := PrintPlan(out, lang, set.Plans[lang], 100); err != nil {
			return err
		}
	}

	if writeHTML || writePDF {
		return writeReports(cmd, config, profile, set, langs, writePDF)
	}
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	config, profile, set, langs, err := generate(cmd)
	if err != nil {
		return err
	}
	return writeReports(cmd, config, profile, set, langs, true)
}

func writeReports(cmd *cobra.Command, config *Config, profile *FinancialProfile, set *PlanSet, langs []Language, pdf bool) error {
	lang, err := selectReportLanguage(langs)
	if err != nil {
		return err
	}
	dir := reportDir(config)

	if writeHTML {
		path, err := SaveHTMLReport(appFs, dir, profile, set, lang)
		if err != nil {
			return fmt.Errorf("failed to write HTML report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "HTML report: %s\n", path)
	}

	if pdf {
		raster := NewRodRasterizer(config.Report.ChromeBin, logger)
		defer raster.Close()

		builder := NewReportBuilder(NewCompositor(raster, config.Report, logger), logger)
		path, err := builder.Save(cmd.Context(), appFs, dir, profile, set.Plans[lang], lang)
		if err != nil {
			return userError(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "PDF report: %s\n", path)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	config, err := loadAppConfig()
	if err != nil {
		return err
	}
	gen, err := NewGenerator(cmd.Context(), config.Generator, appFs)
	if err != nil {
		return err
	}

	raster := NewRodRasterizer(config.Report.ChromeBin, logger)
	defer raster.Close()

	addr := serveAddr
	if addr == "" {
		addr = config.Server.Addr
	}

	server := NewWebServer(config, addr,
		NewPlanner(gen, config, logger),
		NewReportBuilder(NewCompositor(raster, config.Report, logger), logger),
		logger)
	return server.Start(cmd.Context(), openBrowserFlag)
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if _, err := appFs.Stat(configFile); errors.Is(err, os.ErrNotExist) {
		config, err := LoadDefaultConfig()
		if err != nil {
			return err
		}
		if err := SaveConfig(config, configFile); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Fprintf(out, "Wrote default configuration to %s\n", configFile)
	}

	builder := NewProfileBuilder(cmd.InOrStdin(), out)
	profile := builder.Build()
	if err := ValidateProfile(profile, English); err != nil {
		fmt.Fprintf(out, "  ✗ %s\n", userError(err))
	}
	if err := SaveProfile(appFs, profile, profileFile); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	fmt.Fprintf(out, "Wrote profile to %s\nRun: financebuddy plan --profile %s\n", profileFile, profileFile)
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	config, err := loadAppConfig()
	if err != nil {
		return err
	}
	// The API key is never printed
	redacted := *config
	if redacted.Generator.APIKey != "" {
		redacted.Generator.APIKey = "(set)"
	}
	data, err := yaml.Marshal(&redacted)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// openBrowser opens a URL in the default browser
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		fmt.Fprintf(os.Stderr, "Cannot open browser on %s\n", runtime.GOOS)
		return
	}

	err := cmd.Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening browser: %v\n", err)
	}
}
