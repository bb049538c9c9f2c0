package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/commitlens/commitlens-go/internal/bugs"
	"github.com/commitlens/commitlens-go/internal/errors"
	"github.com/commitlens/commitlens-go/internal/gitlog"
	"github.com/commitlens/commitlens-go/internal/pipeline"
	"github.com/commitlens/commitlens-go/internal/report"
	"github.com/commitlens/commitlens-go/internal/storage"
)

var (
	reviewAuthor      string
	reviewSince       string
	reviewUntil       string
	reviewMinLines    int
	reviewMinGapDays  int
	reviewKeywords    []string
	reviewBugKeywords []string
	reviewReleasePat  string
	reviewHotfixes    bool
	reviewFormat      string
	reviewSave        bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run the full mining pipeline and render a review report",
	Long: `Run the full mining pipeline for one contributor: parse commit history,
group commits into pull requests, tier the major ones, detect inactivity
gaps, and extract bug-pattern signals.

Examples:
  commitlens review --author jane@example.com --since 2024-01-01 --until 2024-06-30
  commitlens review --author jane --format markdown > review.md
  commitlens review --author jane --hotfixes --save`,
	RunE: runReview,
}

func init() {
	addMiningFlags(reviewCmd)
	reviewCmd.Flags().StringVarP(&reviewFormat, "format", "f", "table", "output format: table, markdown, json")
	reviewCmd.Flags().BoolVar(&reviewSave, "save", false, "persist the run to the configured store")
}

// addMiningFlags registers the flags shared by every mining subcommand.
func addMiningFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&reviewAuthor, "author", "a", "", "author identity (defaults to git config user.email)")
	cmd.Flags().StringVar(&reviewSince, "since", "", "window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&reviewUntil, "until", "", "window end (YYYY-MM-DD)")
	cmd.Flags().IntVar(&reviewMinLines, "min-lines", 0, "major-PR changed-line threshold (default from config)")
	cmd.Flags().IntVar(&reviewMinGapDays, "min-gap-days", 0, "minimum inactivity gap in days (default from config)")
	cmd.Flags().StringSliceVar(&reviewKeywords, "keywords", nil, "major-PR title keywords")
	cmd.Flags().StringSliceVar(&reviewBugKeywords, "bug-keywords", nil, "override bug-related message keywords")
	cmd.Flags().StringVar(&reviewReleasePat, "release-pattern", "", "release branch name pattern for hotfix detection")
	cmd.Flags().BoolVar(&reviewHotfixes, "hotfixes", false, "query branch containment to detect hotfix commits")
}

// minePipeline runs the whole chain against the repo at --repo.
func minePipeline(ctx context.Context) (*pipeline.Result, error) {
	client := gitlog.NewClient(repoPath)
	if err := client.DetectRepo(ctx); err != nil {
		return nil, err
	}

	author := reviewAuthor
	if author == "" {
		detected, err := client.AuthorEmail(ctx)
		if err != nil || detected == "" {
			return nil, errors.ValidationError("no --author given and git config user.email is unset")
		}
		author = detected
		logger.WithField("author", author).Debug("using configured git identity")
	}

	opts := pipeline.Options{
		Author:               author,
		Since:                reviewSince,
		Until:                reviewUntil,
		MinLines:             cfg.Analysis.MinLines,
		MinGapDays:           cfg.Analysis.MinGapDays,
		MajorKeywords:        cfg.Analysis.MajorKeywords,
		BugKeywords:          cfg.Analysis.BugKeywords,
		ReleaseBranchPattern: cfg.Analysis.ReleaseBranchPattern,
		HotfixWorkers:        cfg.Analysis.HotfixWorkers,
		DetectHotfixes:       reviewHotfixes,
	}
	if reviewMinLines > 0 {
		opts.MinLines = reviewMinLines
	}
	if reviewMinGapDays > 0 {
		opts.MinGapDays = reviewMinGapDays
	}
	if len(reviewKeywords) > 0 {
		opts.MajorKeywords = reviewKeywords
	}
	if len(reviewBugKeywords) > 0 {
		opts.BugKeywords = reviewBugKeywords
	}
	if reviewReleasePat != "" {
		opts.ReleaseBranchPattern = reviewReleasePat
	}
	if cfg.Analysis.CategoryRulesFile != "" {
		rules, err := bugs.LoadRules(cfg.Analysis.CategoryRulesFile)
		if err != nil {
			return nil, err
		}
		opts.CategoryRules = rules
	}

	runner := pipeline.NewRunner(client, client, logger)
	return runner.Run(ctx, opts)
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	result, err := minePipeline(ctx)
	if err != nil {
		return err
	}

	switch reviewFormat {
	case "json":
		if err := report.WriteJSON(os.Stdout, result); err != nil {
			return err
		}
	case "markdown", "md":
		if err := report.WriteMarkdown(os.Stdout, result); err != nil {
			return err
		}
	case "table":
		report.WriteTables(os.Stdout, result)
	default:
		return fmt.Errorf("unknown format: %s", reviewFormat)
	}

	if reviewSave {
		if err := saveRun(ctx, result); err != nil {
			return err
		}
	}

	return nil
}

func saveRun(ctx context.Context, result *pipeline.Result) error {
	store, err := storage.New(cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	snapshot, err := report.MarshalResult(result)
	if err != nil {
		return err
	}

	run := &storage.RunRecord{
		Author:      result.Author,
		SinceDate:   result.Since,
		UntilDate:   result.Until,
		CommitCount: len(result.Commits),
		Snapshot:    snapshot,
	}
	if err := store.SaveRun(ctx, run); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Saved run %s\n", run.ID)
	return nil
}
