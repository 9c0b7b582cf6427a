package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/pwflow/internal/flow"
)

var outputFlag string

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Render one test file as a Mermaid flowchart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunRender(cmd.Context(), cmd.OutOrStdout(), args[0], outputFlag)
	},
}

func init() {
	renderCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "diagram file to write (default from config)")
	rootCmd.AddCommand(renderCmd)
}

// RunRender renders path, writes the diagram to out and echoes it to w.
// An empty out uses the configured output file.
func RunRender(ctx context.Context, w io.Writer, path, out string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if out == "" {
		out = cfg.Output
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	d, err := flow.Generate(ctx, path, src, cfg.Options())
	if err != nil {
		return err
	}
	text := flow.RenderMermaid(d, cfg.Theme)

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	_, err = io.WriteString(w, text)
	return err
}
