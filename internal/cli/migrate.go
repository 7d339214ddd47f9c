package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prefabmig/prefabmig/internal/audit"
	"github.com/prefabmig/prefabmig/internal/migrate"
	"github.com/prefabmig/prefabmig/internal/report"
	"github.com/prefabmig/prefabmig/internal/ui"
)

var (
	migrateDryRun   bool
	migrateBackup   bool
	migrateExt      string
	migrateReportDB string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <source-dir> <target-dir>",
	Short: "Migrate target prefabs using their source counterparts",
	Long: `Migrate every prefab under <target-dir> whose relative path also exists
under <source-dir>. The source documents donate field values; the targets
are rewritten in place.

Failures are isolated per file: one corrupt document never stops the batch.
Run with --dry-run first to preview the outcome.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceRoot, targetRoot := args[0], args[1]
		for _, dir := range []string{sourceRoot, targetRoot} {
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("directory not found: %s", dir)
			}
		}

		rc, err := loadRules()
		if err != nil {
			return err
		}

		ext := migrateExt
		if ext == "" {
			ext = cfg.GetExtension()
		}

		items, missing, err := migrate.Pairs(sourceRoot, targetRoot, ext)
		if err != nil {
			return err
		}
		for _, m := range missing {
			fmt.Fprintln(os.Stderr, ui.Warningf("no target counterpart for %s, skipped", m))
		}

		opts := migrate.BatchOptions{
			DryRun: migrateDryRun,
			Audit:  audit.New(targetRoot, cfg.Audit && !migrateDryRun),
		}
		if migrateBackup {
			opts.BackupSuffix = cfg.GetBackupSuffix()
		}
		var db *report.DB
		if migrateReportDB != "" {
			db, err = report.Open(migrateReportDB)
			if err != nil {
				return err
			}
			defer db.Close()
			opts.Recorder = db
		}

		if migrateDryRun {
			fmt.Println("=== DRY RUN - No changes will be made ===")
			fmt.Println()
		}

		res := migrate.RunBatch(items, rc, opts)
		printBatchResult(res)

		if db != nil {
			if err := printReportSummary(db); err != nil {
				return err
			}
		}

		if res.Failed > 0 {
			return fmt.Errorf("%d of %d files failed", res.Failed, res.Processed)
		}
		return nil
	},
}

// printReportSummary prints per-status totals across the whole report
// database, including rows from earlier runs against the same file.
func printReportSummary(db *report.DB) error {
	counts, err := db.Summary()
	if err != nil {
		return err
	}
	statuses := make([]string, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)

	parts := make([]string, 0, len(statuses))
	for _, s := range statuses {
		parts = append(parts, fmt.Sprintf("%s %d", s, counts[s]))
	}
	fmt.Printf("%s report database totals: %s\n", ui.SymbolInfo, strings.Join(parts, ", "))
	return nil
}

func printBatchResult(res *migrate.BatchResult) {
	for _, item := range res.Items {
		rel := filepath.ToSlash(item.Item.Relative)
		if item.Err != nil {
			fmt.Println(ui.Errorf("%s: %v", rel, item.Err))
			continue
		}
		o := item.Outcome
		fmt.Printf("%s %s %s\n",
			ui.SymbolSuccess,
			ui.FilePath(rel),
			ui.Hint(fmt.Sprintf("applied %d, removed %d, substituted %d", o.Applied, o.Removed, o.Substituted)),
		)
		for _, diag := range o.Diags {
			fmt.Fprintln(os.Stderr, ui.Warning(diag))
		}
	}
	fmt.Println()
	fmt.Printf("%s %d processed, %d succeeded, %d failed\n",
		ui.SymbolInfo, res.Processed, res.Succeeded, res.Failed)
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "compile and apply in memory but write nothing")
	migrateCmd.Flags().BoolVar(&migrateBackup, "backup", false, "copy each target aside before overwriting")
	migrateCmd.Flags().StringVar(&migrateExt, "ext", "", "prefab file extension (default from config, '.prefab')")
	migrateCmd.Flags().StringVar(&migrateReportDB, "report-db", "", "record per-file outcomes in a SQLite database")
	rootCmd.AddCommand(migrateCmd)
}
