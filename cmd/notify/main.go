// notify renders stored notification templates from the command line:
// preview a template against a variables file, list the template
// library, or lint templates for unmatched block directives.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fleetdesk/notify/pkg/config"
	"github.com/fleetdesk/notify/pkg/logging"
	"github.com/fleetdesk/notify/pkg/notification"
	"github.com/fleetdesk/notify/pkg/store"
	"github.com/fleetdesk/notify/pkg/template"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath   string
	templatesDir string
	settingsFile string
	logLevel     string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "notify",
		Short:         "Render and inspect notification templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().StringVar(&flags.templatesDir, "templates", "", "templates directory (overrides config)")
	root.PersistentFlags().StringVar(&flags.settingsFile, "settings", "", "settings file (overrides config)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newRenderCmd(flags))
	root.AddCommand(newListCmd(flags))
	root.AddCommand(newValidateCmd(flags))
	return root
}

// loadConfig resolves the effective configuration from file and flags.
func (f *rootFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.templatesDir != "" {
		cfg.TemplatesDir = f.templatesDir
	}
	if f.settingsFile != "" {
		cfg.SettingsFile = f.settingsFile
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	return cfg, nil
}

// loadStore builds the template/settings store from the configuration.
func loadStore(cfg *config.Config) (*store.MemoryStore, error) {
	s, err := store.LoadDirectory(cfg.TemplatesDir)
	if err != nil {
		return nil, err
	}
	settings, err := store.LoadSettings(cfg.SettingsFile)
	if err != nil {
		return nil, err
	}
	s.SetSettings(settings)
	return s, nil
}

func newRenderCmd(flags *rootFlags) *cobra.Command {
	var (
		name     string
		varsFile string
		team     string
		language string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a template against a variables file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			s, err := loadStore(cfg)
			if err != nil {
				return err
			}

			vars, err := loadVariables(varsFile)
			if err != nil {
				return err
			}
			if team == "" {
				team = cfg.Team
			}
			if language == "" {
				language = cfg.Language
			}

			logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
			svc := notification.NewService(s, s, logger)
			result, err := svc.RenderTemplate(cmd.Context(), name, vars,
				notification.Team(team), notification.Language(language))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintln(out, "Subject:", result.Subject)
			fmt.Fprintln(out)
			fmt.Fprintln(out, result.Text)
			fmt.Fprintln(out)
			fmt.Fprintln(out, result.HTML)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "template name to render")
	cmd.Flags().StringVar(&varsFile, "vars", "", "variables file (YAML or JSON)")
	cmd.Flags().StringVar(&team, "team", "", "team: japan or thailand")
	cmd.Flags().StringVar(&language, "language", "", "language: en or ja")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the result as JSON")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List templates in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			s, err := loadStore(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range s.List() {
				state := "active"
				if !t.IsActive {
					state = "inactive"
				}
				marker := " "
				if t.IsDefault {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-32s %-12s %s\n", marker, t.Name, t.Category, state)
			}
			return nil
		},
	}
}

func newValidateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Lint templates for unmatched block directives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			s, err := loadStore(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			broken := 0
			for _, t := range s.List() {
				for field, content := range map[string]string{
					"subject":      t.Subject,
					"html_content": t.HTMLContent,
					"text_content": t.TextContent,
				} {
					for _, issue := range template.Lint(content) {
						broken++
						fmt.Fprintf(out, "%s (%s): %s: %s\n", t.Name, field, issue.Tag, issue.Message)
					}
				}
			}
			if broken > 0 {
				return fmt.Errorf("%d unmatched directive(s)", broken)
			}
			fmt.Fprintln(out, "All templates are well-formed.")
			return nil
		},
	}
}

// loadVariables reads a YAML or JSON variables file. YAML is a superset
// of JSON, so one decoder covers both.
func loadVariables(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vars file: %w", err)
	}
	var vars map[string]any
	if err := yaml.Unmarshal(data, &vars); err != nil {
		return nil, fmt.Errorf("parse vars file %s: %w", path, err)
	}
	return vars, nil
}
