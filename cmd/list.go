package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chriserin/pwflow/internal/ui"
)

var (
	manualFlag    bool
	automatedFlag bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tracked test cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), manualFlag, automatedFlag)
	},
}

func init() {
	listCmd.Flags().BoolVar(&manualFlag, "manual", false, "Show only manual test cases")
	listCmd.Flags().BoolVar(&automatedFlag, "automated", false, "Show only automated test cases")
	listCmd.MarkFlagsMutuallyExclusive("manual", "automated")
	rootCmd.AddCommand(listCmd)
}

type listRow struct {
	id       int64
	location string
	name     string
	manual   bool
}

func RunList(w io.Writer, manualOnly, automatedOnly bool) error {
	sqlDB, err := openProject()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rows, err := sqlDB.Query(`
		SELECT t.id, f.file_path, t.line_number, t.name, t.manual
		FROM test_cases t
		JOIN files f ON t.file_id = f.id
		ORDER BY f.file_path, t.line_number, t.id
	`)
	if err != nil {
		return fmt.Errorf("querying test cases: %w", err)
	}
	defer rows.Close()

	var results []listRow
	for rows.Next() {
		var r listRow
		var filePath string
		var line int
		if err := rows.Scan(&r.id, &filePath, &line, &r.name, &r.manual); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		r.location = fmt.Sprintf("%s:%d", filepath.Base(filePath), line)

		if manualOnly && !r.manual {
			continue
		}
		if automatedOnly && r.manual {
			continue
		}

		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	if len(results) == 0 {
		return nil
	}

	// Compute column widths
	idWidth, locWidth := 0, 0
	for _, r := range results {
		if n := len(fmt.Sprintf("#%d", r.id)); n > idWidth {
			idWidth = n
		}
		if len(r.location) > locWidth {
			locWidth = len(r.location)
		}
	}

	for _, r := range results {
		ui.ListRow(w, r.id, r.location, r.name, r.manual, idWidth, locWidth)
	}

	return nil
}
