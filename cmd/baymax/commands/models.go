package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/flynn-ai/baymax/internal/config"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	nameStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the model catalog and which model files are present",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out, err := renderModels(cfg, fileExists)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// renderModels lists every catalog entry with its resolved settings.
func renderModels(cfg *config.Config, exists func(string) bool) (string, error) {
	selected := cfg.Model.Name
	if selected == "" {
		selected = config.DefaultModel
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Available models") + "\n\n")

	for _, name := range cfg.ModelNames() {
		mc, err := cfg.ResolveNamed(name)
		if err != nil {
			return "", err
		}
		spec := cfg.Models[name]

		marker := "  "
		if name == selected {
			marker = "* "
		}
		status := okStyle.Render("available")
		if !exists(mc.Path) {
			status = missingStyle.Render("missing")
		}

		fmt.Fprintf(&b, "%s%s  %s\n", marker, nameStyle.Render(name), status)
		if spec.Description != "" {
			fmt.Fprintf(&b, "    %s\n", dimStyle.Render(spec.Description))
		}
		fmt.Fprintf(&b, "    path: %s\n", mc.Path)
		fmt.Fprintf(&b, "    format: %s  ctx: %d  threads: %d  gpu layers: %d\n",
			mc.ChatFormat, mc.ContextSize, mc.Threads, mc.GPULayers)
	}

	fmt.Fprintf(&b, "\nSelected: %s (set %s to change)\n", selected, config.EnvModel)
	return b.String(), nil
}
