package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show counts of synced files and test cases",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatus(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatus(w io.Writer) error {
	sqlDB, err := openProject()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var files int
	if err := sqlDB.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&files); err != nil {
		return fmt.Errorf("counting files: %w", err)
	}

	var tests, manual int
	err = sqlDB.QueryRow(`SELECT COUNT(*), COALESCE(SUM(manual), 0) FROM test_cases`).Scan(&tests, &manual)
	if err != nil {
		return fmt.Errorf("counting test cases: %w", err)
	}

	fmt.Fprintf(w, "Files: %d\n", files)
	fmt.Fprintf(w, "Tests: %d\n", tests)

	if tests == 0 {
		return nil
	}

	fmt.Fprintf(w, "  automated: %d\n", tests-manual)
	fmt.Fprintf(w, "  manual: %d\n", manual)
	return nil
}
