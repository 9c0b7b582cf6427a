package cmd

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/pwflow/internal/config"
	"github.com/chriserin/pwflow/internal/ctxlog"
	"github.com/chriserin/pwflow/internal/flow"
	"github.com/chriserin/pwflow/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Render every test file under test_dir and record it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

type syncResult int

const (
	syncNew syncResult = iota
	syncUpdated
	syncTracked
)

func RunSync(ctx context.Context, w io.Writer) error {
	sqlDB, err := openProject()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	paths, err := findTestFiles(cfg.TestDir, cfg.Patterns)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", cfg.TestDir, err)
	}

	count := 0
	for _, path := range paths {
		res, err := syncFile(ctx, sqlDB, cfg, path)
		if err != nil {
			return err
		}
		switch res {
		case syncNew:
			ui.NewLine(w, path)
		case syncUpdated:
			ui.UpdLine(w, path)
		default:
			ui.TrkLine(w, path)
		}
		count++
	}

	ui.SummaryLine(w, count)
	return nil
}

// findTestFiles returns the slash-separated paths under root whose base
// name matches one of patterns, sorted. A missing root has no files.
func findTestFiles(root string, patterns []string) ([]string, error) {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (d.Name() == "node_modules" || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		for _, p := range patterns {
			ok, err := filepath.Match(p, d.Name())
			if err != nil {
				return fmt.Errorf("bad pattern %q: %w", p, err)
			}
			if ok {
				matches = append(matches, filepath.ToSlash(path))
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// diagramPath maps a test file to its diagram under dir, keeping the
// layout relative to testDir.
func diagramPath(dir, testDir, path string) string {
	rel, err := filepath.Rel(testDir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".mermaid"
	return filepath.Join(dir, rel)
}

func syncFile(ctx context.Context, sqlDB *sql.DB, cfg config.Config, path string) (syncResult, error) {
	logger := ctxlog.FromContext(ctx)

	src, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	sum := sha256.Sum256(src)
	hash := hex.EncodeToString(sum[:])

	var fileID int64
	var storedHash string
	err = sqlDB.QueryRow(`SELECT id, content_hash FROM files WHERE file_path = ?`, path).Scan(&fileID, &storedHash)
	known := err == nil
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("querying %s: %w", path, err)
	}
	if known && storedHash == hash {
		logger.Debug("unchanged", "file", path)
		return syncTracked, nil
	}

	d, err := flow.Generate(ctx, path, src, cfg.Options())
	if err != nil {
		return 0, err
	}
	text := flow.RenderMermaid(d, cfg.Theme)
	st := d.Stats()

	tx, err := sqlDB.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning sync of %s: %w", path, err)
	}
	defer tx.Rollback()

	if known {
		_, err = tx.Exec(`
			UPDATE files
			SET content_hash = ?, diagram = ?, test_count = ?, node_count = ?, edge_count = ?,
				updated_at = datetime('now')
			WHERE id = ?
		`, hash, text, st.Tests, st.Nodes, st.Edges, fileID)
		if err != nil {
			return 0, fmt.Errorf("updating %s: %w", path, err)
		}
		if _, err := tx.Exec(`DELETE FROM test_cases WHERE file_id = ?`, fileID); err != nil {
			return 0, fmt.Errorf("clearing test cases of %s: %w", path, err)
		}
	} else {
		res, err := tx.Exec(`
			INSERT INTO files (file_path, content_hash, diagram, test_count, node_count, edge_count)
			VALUES (?, ?, ?, ?, ?, ?)
		`, path, hash, text, st.Tests, st.Nodes, st.Edges)
		if err != nil {
			return 0, fmt.Errorf("inserting %s: %w", path, err)
		}
		if fileID, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("inserting %s: %w", path, err)
		}
	}

	for _, s := range d.Tests() {
		_, err := tx.Exec(`
			INSERT INTO test_cases (file_id, name, line_number, manual, step_count)
			VALUES (?, ?, ?, ?, ?)
		`, fileID, s.Name, s.Line, s.Manual, s.StepCount())
		if err != nil {
			return 0, fmt.Errorf("inserting test case %q: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing %s: %w", path, err)
	}

	// The diagram file follows the committed row. If writing it fails the
	// stored hash is cleared so the next sync renders the file again.
	if err := writeDiagram(diagramPath(cfg.DiagramDir, cfg.TestDir, path), text); err != nil {
		if _, clearErr := sqlDB.Exec(`UPDATE files SET content_hash = '' WHERE id = ?`, fileID); clearErr != nil {
			logger.Warn("clearing content hash failed", "file", path, "err", clearErr)
		}
		return 0, err
	}

	if known {
		return syncUpdated, nil
	}
	return syncNew, nil
}

func writeDiagram(out, text string) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(out), err)
	}
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}
