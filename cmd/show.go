package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/pwflow/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <file-id|path>",
	Short: "Show the stored diagram of a synced file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

type fileRecord struct {
	id        int64
	path      string
	diagram   string
	testCount int
	nodeCount int
}

// lookupFile resolves ref as a file id ("3" or "#3") or a file path.
func lookupFile(sqlDB *sql.DB, ref string) (fileRecord, error) {
	const query = `SELECT id, file_path, diagram, test_count, node_count FROM files WHERE `

	var f fileRecord
	var row *sql.Row
	if id, err := strconv.ParseInt(strings.TrimPrefix(ref, "#"), 10, 64); err == nil {
		row = sqlDB.QueryRow(query+`id = ?`, id)
	} else {
		row = sqlDB.QueryRow(query+`file_path = ?`, filepath.ToSlash(filepath.Clean(ref)))
	}
	err := row.Scan(&f.id, &f.path, &f.diagram, &f.testCount, &f.nodeCount)
	if err == sql.ErrNoRows {
		return fileRecord{}, fmt.Errorf("file %s not found", ref)
	}
	if err != nil {
		return fileRecord{}, fmt.Errorf("querying file %s: %w", ref, err)
	}
	return f, nil
}

func RunShow(w io.Writer, ref string) error {
	sqlDB, err := openProject()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	f, err := lookupFile(sqlDB, ref)
	if err != nil {
		return err
	}

	ui.ShowHeader(w, f.id, f.path, f.testCount, f.nodeCount)
	fmt.Fprintln(w)
	_, err = io.WriteString(w, f.diagram)
	return err
}
