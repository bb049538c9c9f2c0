package main

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/commitlens/commitlens-go/internal/storage"
)

var (
	runsAuthor string
	runsLimit  int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved review runs",
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().StringVarP(&runsAuthor, "author", "a", "", "filter by author")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum runs to list")
}

func runRuns(cmd *cobra.Command, args []string) error {
	store, err := storage.New(cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), runsAuthor, runsLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No saved runs.")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Author", "Since", "Until", "Commits", "Saved At"})
	for _, run := range runs {
		table.Append([]string{
			run.ID.String(),
			run.Author,
			run.SinceDate,
			run.UntilDate,
			fmt.Sprintf("%d", run.CommitCount),
			run.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	table.Render()

	return nil
}
