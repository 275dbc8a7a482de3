package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

//go:embed default-config.yaml
var defaultConfigYAML string

const envPrefix = "FINBUDDY"

// PlanningConfig holds the assumptions used to derive request directives.
// None of these are validated economic data; they are tunable defaults.
type PlanningConfig struct {
	InflationRate float64  `yaml:"inflation_rate" json:"inflation_rate"`     // Annual rate used for goal projection (0.06 = 6%)
	YoungBelow    int      `yaml:"young_below" json:"young_below"`           // Ages below this are Young
	MidCareerUpTo int      `yaml:"mid_career_up_to" json:"mid_career_up_to"` // Ages up to and including this are MidCareer
	Directives    bool     `yaml:"directives" json:"directives"`             // Embed age and inflation directives in the prompt
	Languages     []string `yaml:"languages" json:"languages"`               // Response languages generated per request
}

// GeneratorConfig configures the external text generator
type GeneratorConfig struct {
	Provider    string        `yaml:"provider" json:"provider"` // "gemini" or "replay"
	Model       string        `yaml:"model" json:"model"`
	APIKey      string        `yaml:"api_key,omitempty" json:"-"`
	Temperature float64       `yaml:"temperature" json:"temperature"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"` // Applies to the whole fan-out
	ReplayFile  string        `yaml:"replay_file,omitempty" json:"replay_file,omitempty"`
}

// ReportConfig holds page geometry (mm) and rasterization settings
type ReportConfig struct {
	PageWidth    float64 `yaml:"page_width" json:"page_width"`
	PageHeight   float64 `yaml:"page_height" json:"page_height"`
	MarginTop    float64 `yaml:"margin_top" json:"margin_top"`
	MarginBottom float64 `yaml:"margin_bottom" json:"margin_bottom"`
	MarginLeft   float64 `yaml:"margin_left" json:"margin_left"`
	MarginRight  float64 `yaml:"margin_right" json:"margin_right"`
	BlockGap     float64 `yaml:"block_gap" json:"block_gap"`
	RenderWidth  int     `yaml:"render_width" json:"render_width"` // Virtual CSS width blocks are laid out at (px)
	RenderScale  float64 `yaml:"render_scale" json:"render_scale"` // Device scale factor for print sharpness
	ChromeBin    string  `yaml:"chrome_bin,omitempty" json:"chrome_bin,omitempty"`
	OutputDir    string  `yaml:"output_dir" json:"output_dir"`
}

// ContentWidth is the printable width between the side margins
func (rc *ReportConfig) ContentWidth() float64 {
	return rc.PageWidth - rc.MarginLeft - rc.MarginRight
}

// ContentHeight is the printable height between the top and bottom margins
func (rc *ReportConfig) ContentHeight() float64 {
	return rc.PageHeight - rc.MarginTop - rc.MarginBottom
}

// ServerConfig configures the web API
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Config is the top-level application configuration
type Config struct {
	Planning  PlanningConfig  `yaml:"planning" json:"planning"`
	Generator GeneratorConfig `yaml:"generator" json:"generator"`
	Report    ReportConfig    `yaml:"report" json:"report"`
	Server    ServerConfig    `yaml:"server" json:"server"`
}

// PromptOptions derives the Request Assembler options for a language
func (c *Config) PromptOptions(lang Language) PromptOptions {
	opts := PromptOptions{
		Language:   lang,
		Directives: c.Planning.Directives,
		Sections:   BasicSections,
	}
	if c.Planning.Directives {
		opts.Sections = RichSections
	}
	return opts
}

// Languages returns the configured response languages, defaulting to English
func (c *Config) Languages() ([]Language, error) {
	if len(c.Planning.Languages) == 0 {
		return []Language{English}, nil
	}
	var langs []Language
	seen := make(map[Language]bool)
	for _, name := range c.Planning.Languages {
		lang, err := ParseLanguage(name)
		if err != nil {
			return nil, err
		}
		if !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	return langs, nil
}

// LoadConfig loads configuration from a YAML file on top of the embedded defaults
func LoadConfig(filename string) (*Config, error) {
	config, err := LoadDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}

	if err := yaml.Unmarshal([]byte(preprocessPercentages(string(data))), config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	return config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	header := []byte(`# FinanceBuddy Configuration
#
# Percentages may be written as decimals (0.06) or with a percent sign (6%).
# Page geometry is in millimetres; render_width is CSS pixels.
# The generator API key is read from GEMINI_API_KEY (or FINBUDDY_GENERATOR_API_KEY)
# and is never written to this file.

`)
	content := append(header, data...)
	return os.WriteFile(filename, content, 0644)
}

// LoadDefaultConfig loads the default configuration from embedded default-config.yaml
// It handles percentage format (e.g., "6%" -> 0.06)
func LoadDefaultConfig() (*Config, error) {
	content := preprocessPercentages(defaultConfigYAML)

	var config Config
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// preprocessPercentages converts percentage values like "6%" to decimal "0.06"
func preprocessPercentages(content string) string {
	re := regexp.MustCompile(`(:\s*)(\d+\.?\d*)%`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) >= 3 {
			num, err := strconv.ParseFloat(parts[2], 64)
			if err == nil {
				return parts[1] + strconv.FormatFloat(num/100.0, 'f', -1, 64)
			}
		}
		return match
	})
}

// ApplyEnvironment overlays .env and FINBUDDY_* environment variables onto the config.
// Nested keys use underscores: FINBUDDY_GENERATOR_MODEL, FINBUDDY_SERVER_ADDR.
func ApplyEnvironment(config *Config) {
	// A missing .env file is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("generator.api_key", envPrefix+"_GENERATOR_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY")

	if v.IsSet("generator.api_key") {
		config.Generator.APIKey = v.GetString("generator.api_key")
	}
	if v.IsSet("generator.model") {
		config.Generator.Model = v.GetString("generator.model")
	}
	if v.IsSet("generator.provider") {
		config.Generator.Provider = v.GetString("generator.provider")
	}
	if v.IsSet("generator.timeout") {
		config.Generator.Timeout = v.GetDuration("generator.timeout")
	}
	if v.IsSet("planning.inflation_rate") {
		config.Planning.InflationRate = v.GetFloat64("planning.inflation_rate")
	}
	if v.IsSet("report.chrome_bin") {
		config.Report.ChromeBin = v.GetString("report.chrome_bin")
	}
	if v.IsSet("server.addr") {
		config.Server.Addr = v.GetString("server.addr")
	}
}

// LoadProfile reads a financial profile from YAML, or JSON when the file ends in .json
func LoadProfile(fs afero.Fs, filename string) (*FinancialProfile, error) {
	data, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, err
	}

	var profile FinancialProfile
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		err = json.Unmarshal(data, &profile)
	} else {
		err = yaml.Unmarshal(data, &profile)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return &profile, nil
}

// SaveProfile writes a financial profile as YAML
func SaveProfile(fs afero.Fs, profile *FinancialProfile, filename string) error {
	data, err := yaml.Marshal(profile)
	if err != nil {
		return err
	}
	header := []byte("# FinanceBuddy profile\n# Amounts are monthly rupees unless noted; interest_rate is annual percent.\n\n")
	return afero.WriteFile(fs, filename, append(header, data...), 0644)
}
