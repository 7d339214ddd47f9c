package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prefabmig/prefabmig/internal/audit"
	"github.com/prefabmig/prefabmig/internal/prefab"
	"github.com/prefabmig/prefabmig/internal/rules"
	"github.com/prefabmig/prefabmig/internal/walk"
)

// Recorder receives one row per processed file. Implementations must be
// safe to call sequentially; the batch never runs items concurrently.
type Recorder interface {
	Record(file, status string, applied, removed, substituted int, elapsed time.Duration, errMsg string) error
}

// Item is one source/target file pair sharing a relative path.
type Item struct {
	Source   string
	Target   string
	Relative string
}

// ItemResult is the outcome of one batch item.
type ItemResult struct {
	Item    Item
	Outcome *Outcome
	Err     error
}

// BatchOptions controls a batch run.
type BatchOptions struct {
	DryRun       bool
	BackupSuffix string // when set, targets are copied aside before writing
	Audit        *audit.Logger
	Recorder     Recorder
}

// BatchResult aggregates a whole run.
type BatchResult struct {
	Processed int
	Succeeded int
	Failed    int
	Items     []ItemResult
}

// Pairs walks sourceRoot for files with ext and pairs each one with the
// file at the same relative path under targetRoot. Source files without a
// target counterpart are returned separately; they are reported, not fatal.
func Pairs(sourceRoot, targetRoot, ext string) (items []Item, missing []string, err error) {
	err = walk.PrefabFiles(sourceRoot, ext, func(res walk.Result) error {
		if res.Err != nil {
			missing = append(missing, fmt.Sprintf("%s: %v", res.Path, res.Err))
			return nil
		}
		target := filepath.Join(targetRoot, res.RelativePath)
		if _, statErr := os.Stat(target); statErr != nil {
			missing = append(missing, res.RelativePath)
			return nil
		}
		items = append(items, Item{Source: res.Path, Target: target, Relative: res.RelativePath})
		return nil
	})
	return items, missing, err
}

// RunBatch migrates every item sequentially. Each pair owns its own flat
// arrays for the duration of its migration; a failure in one item never
// touches another's state and never stops the batch.
func RunBatch(items []Item, cfg *rules.Config, opts BatchOptions) *BatchResult {
	res := &BatchResult{}
	for _, item := range items {
		start := time.Now()
		outcome, err := runItem(item, cfg, opts)

		res.Processed++
		ir := ItemResult{Item: item, Outcome: outcome, Err: err}
		res.Items = append(res.Items, ir)

		status := "ok"
		errMsg := ""
		if err != nil {
			res.Failed++
			status = "failed"
			errMsg = err.Error()
		} else {
			res.Succeeded++
		}

		if opts.Audit != nil {
			entry := audit.Entry{
				Op:     "migrate",
				File:   item.Relative,
				DryRun: opts.DryRun,
				Error:  errMsg,
			}
			if outcome != nil {
				entry.Applied = outcome.Applied
				entry.Skipped = outcome.Skipped
				entry.Removed = outcome.Removed
				entry.Substituted = outcome.Substituted
			}
			// Audit failures are reported through the recorder path only;
			// they never fail the item.
			_ = opts.Audit.Log(entry)
		}
		if opts.Recorder != nil {
			applied, removed, substituted := 0, 0, 0
			if outcome != nil {
				applied, removed, substituted = outcome.Applied, outcome.Removed, outcome.Substituted
			}
			_ = opts.Recorder.Record(item.Relative, status, applied, removed, substituted, time.Since(start), errMsg)
		}
	}
	return res
}

func runItem(item Item, cfg *rules.Config, opts BatchOptions) (*Outcome, error) {
	source, err := prefab.Load(item.Source)
	if err != nil {
		return nil, err
	}
	target, err := prefab.Load(item.Target)
	if err != nil {
		return nil, err
	}

	outcome, err := Run(source, target, cfg)
	if err != nil {
		return nil, err
	}
	if opts.DryRun {
		return outcome, nil
	}

	if opts.BackupSuffix != "" {
		if err := prefab.Backup(item.Target, opts.BackupSuffix); err != nil {
			return outcome, err
		}
	}
	if err := prefab.Save(item.Target, target); err != nil {
		return outcome, err
	}
	return outcome, nil
}
