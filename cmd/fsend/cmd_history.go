package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"fsend/internal/console"
	"fsend/internal/format"
	"fsend/internal/history"
	"fsend/internal/sendapi"
)

var (
	historyExpiry string
	pruneCheck    bool
	pruneJobs     int
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "List files in the local history",
	Args:    cobra.NoArgs,
	RunE:    runHistoryList,
}

var historyAddCmd = &cobra.Command{
	Use:   "add <URL>",
	Short: "Add a shared file to the history",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryAdd,
}

var historyRemoveCmd = &cobra.Command{
	Use:     "rm <URL|ID|#N>",
	Aliases: []string{"remove"},
	Short:   "Remove a file from the history",
	Args:    cobra.ExactArgs(1),
	RunE:    runHistoryRemove,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every file from the history",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove expired files from the history",
	Long: `Removes files whose known expiry has passed. With --check every
remaining file is also looked up on its server and dropped when the server
no longer has it.`,
	Args: cobra.NoArgs,
	RunE: runHistoryPrune,
}

func init() {
	historyAddCmd.Flags().StringVarP(&ownerFlag, "owner", "o", "", "Owner token of the file")
	historyAddCmd.Flags().StringVarP(&historyExpiry, "expiry", "e", "", "Time until the file expires, e.g. 1d12h")

	historyPruneCmd.Flags().BoolVar(&pruneCheck, "check", false, "Ask the server about every file")
	historyPruneCmd.Flags().IntVarP(&pruneJobs, "jobs", "j", history.DefaultPruneJobs, "Concurrent server checks")

	historyCmd.AddCommand(historyAddCmd)
	historyCmd.AddCommand(historyRemoveCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyPruneCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	now := time.Now()
	if _, err := store.PruneExpired(now); err != nil {
		return withHints(err, console.ErrorHints{History: true, Verbose: true, Help: true})
	}
	entries, err := store.List()
	if err != nil {
		return withHints(err, console.ErrorHints{History: true, Verbose: true, Help: true})
	}

	if len(entries) == 0 {
		fmt.Fprintln(con.Out(), "No files in history")
		return nil
	}

	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		expiry := "?"
		if !e.ExpiresAt.IsZero() {
			expiry = format.FormatDuration(e.TTL(now))
		}
		owner := "no"
		if e.OwnerToken != "" {
			owner = "yes"
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), e.ID, expiry, owner, e.URL})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "ID", "EXPIRY", "OWNER", "URL").
		Rows(rows...)
	fmt.Fprintln(con.Out(), t.Render())
	return nil
}

func runHistoryAdd(cmd *cobra.Command, args []string) error {
	share, err := sendapi.ParseShareURL(args[0])
	if err != nil {
		return err
	}

	entry := history.Entry{ID: share.ID, URL: share.String(), OwnerToken: ownerFlag}
	if historyExpiry != "" {
		ttl, err := format.ParseDuration(historyExpiry)
		if err != nil {
			return withHints(err, console.ErrorHints{Help: true})
		}
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Add(entry); err != nil {
		return withHints(err, console.ErrorHints{History: true, Verbose: true, Help: true})
	}
	con.PrintSuccess("Added " + share.ID + " to history")
	return nil
}

func runHistoryRemove(cmd *cobra.Command, args []string) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	entry, err := store.Lookup(args[0])
	if err != nil {
		return err
	}
	if _, err := store.Remove(entry.ID); err != nil {
		return err
	}
	con.PrintSuccess("Removed " + entry.ID + " from history")
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	if !con.PromptYes("Clear the whole history?", console.Bool(false)) {
		fmt.Fprintln(con.Out(), "History left untouched")
		return nil
	}
	if err := store.Clear(); err != nil {
		return err
	}
	con.PrintSuccess("History cleared")
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.PruneExpired(time.Now())
	if err != nil {
		return err
	}

	if pruneCheck {
		client := apiClient()
		var (
			mu      sync.Mutex
			skipped []string
		)
		checker := history.CheckerFunc(func(ctx context.Context, e history.Entry) (bool, error) {
			share, err := sendapi.ParseShareURL(e.URL)
			if err != nil {
				mu.Lock()
				skipped = append(skipped, e.ID)
				mu.Unlock()
				return true, nil
			}
			resp, err := client.Exists(ctx, share)
			return resp.Exists, err
		})

		gone, err := store.Prune(cmd.Context(), checker, pruneJobs)
		if err != nil {
			return withHints(err, console.DefaultHints())
		}
		removed += len(gone)

		slices.Sort(skipped)
		for _, id := range skipped {
			con.PrintWarning(fmt.Sprintf("Skipped %s: its history URL is not a valid share link", id))
		}
	}

	con.PrintSuccess(fmt.Sprintf("Removed %d file(s) from history", removed))
	return nil
}
