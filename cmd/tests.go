package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var testsCmd = &cobra.Command{
	Use:   "tests <file-id|path>",
	Short: "List the test cases of a synced file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunTests(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(testsCmd)
}

func RunTests(w io.Writer, ref string) error {
	sqlDB, err := openProject()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	f, err := lookupFile(sqlDB, ref)
	if err != nil {
		return err
	}

	rows, err := sqlDB.Query(`SELECT name, line_number FROM test_cases WHERE file_id = ? ORDER BY line_number, id`, f.id)
	if err != nil {
		return fmt.Errorf("querying test cases: %w", err)
	}
	defer rows.Close()

	var found bool
	for rows.Next() {
		var name string
		var lineNumber int
		if err := rows.Scan(&name, &lineNumber); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}
		fmt.Fprintf(w, "  %s:%d  %s\n", f.path, lineNumber, name)
		found = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	if !found {
		fmt.Fprintf(w, "no test cases in %s\n", f.path)
	}

	return nil
}
