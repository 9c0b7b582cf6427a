package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/pwflow/internal/config"
	"github.com/chriserin/pwflow/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize pwflow in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInit(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func RunInit(w io.Writer) error {
	// .pwflow/ directory
	_, err := os.Stat(stateDir)
	stateExists := err == nil
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", stateDir, err)
	}
	if stateExists {
		fmt.Fprintf(w, "%s/ already exists\n", stateDir)
	} else {
		fmt.Fprintf(w, "%s/ created\n", stateDir)
	}

	// database
	path := dbPath()
	_, err = os.Stat(path)
	dbExists := err == nil
	sqlDB, err := db.Open(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	sqlDB.Close()
	if dbExists {
		fmt.Fprintf(w, "%s already exists\n", path)
	} else {
		fmt.Fprintf(w, "%s created\n", path)
	}

	// config file
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(w, "%s already exists\n", configPath)
	} else {
		if err := os.WriteFile(configPath, []byte(config.Template), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", configPath, err)
		}
		fmt.Fprintf(w, "%s created\n", configPath)
	}

	// gitignore
	msgs, err := ensureGitignore(path)
	if err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	for _, msg := range msgs {
		fmt.Fprintln(w, msg)
	}

	return nil
}

func ensureGitignore(entry string) ([]string, error) {
	data, err := os.ReadFile(".gitignore")
	if os.IsNotExist(err) {
		if err := os.WriteFile(".gitignore", []byte(entry+"\n"), 0o644); err != nil {
			return nil, err
		}
		return []string{".gitignore created", entry + " added to .gitignore"}, nil
	}
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry {
			return []string{entry + " already in .gitignore"}, nil
		}
	}

	content := string(data)
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += entry + "\n"

	if err := os.WriteFile(".gitignore", []byte(content), 0o644); err != nil {
		return nil, err
	}
	return []string{entry + " added to .gitignore"}, nil
}
