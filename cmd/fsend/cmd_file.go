package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fsend/internal/console"
	"fsend/internal/format"
	"fsend/internal/sendapi"
)

var existsCmd = &cobra.Command{
	Use:   "exists <URL|ID|#N>",
	Short: "Check whether a shared file still exists",
	Args:  cobra.ExactArgs(1),
	RunE:  runExists,
}

var infoCmd = &cobra.Command{
	Use:     "info <URL|ID|#N>",
	Aliases: []string{"i"},
	Short:   "Show download count and expiry of a shared file",
	Args:    cobra.ExactArgs(1),
	RunE:    runInfo,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <URL|ID|#N>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a shared file from the server",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

var downloadLimit int

var paramsCmd = &cobra.Command{
	Use:     "params <URL|ID|#N>",
	Aliases: []string{"p"},
	Short:   "Change the download limit of a shared file",
	Args:    cobra.ExactArgs(1),
	RunE:    runParams,
}

func init() {
	existsCmd.Flags().StringVarP(&passwordFlag, "password", "p", "", "Password of the file")

	for _, cmd := range []*cobra.Command{infoCmd, deleteCmd, paramsCmd} {
		cmd.Flags().StringVarP(&ownerFlag, "owner", "o", "", "Owner token of the file")
	}

	paramsCmd.Flags().IntVarP(&downloadLimit, "download-limit", "d", 0,
		fmt.Sprintf("New download limit, one of %v", sendapi.DownloadLimits))
}

func runExists(cmd *cobra.Command, args []string) error {
	share, _, err := resolveShare(args[0])
	if err != nil {
		return err
	}

	resp, err := apiClient().Exists(cmd.Context(), share)
	if err != nil {
		return err
	}

	out := con.Out()
	fmt.Fprintf(out, "Exists: %s\n", yesNo(resp.Exists))
	if !resp.Exists {
		forget(share)
		return nil
	}
	fmt.Fprintf(out, "Password: %s\n", yesNo(resp.RequiresPassword))

	if cmd.Flags().Changed("password") {
		password := passwordFlag
		con.EnsurePassword(&password, resp.RequiresPassword)
	}
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	share, entry, err := resolveShare(args[0])
	if err != nil {
		return err
	}
	owner := ownerToken(cmd.Flags().Changed("owner"), entry)

	info, err := apiClient().Info(cmd.Context(), share, owner)
	if errors.Is(err, sendapi.ErrNotFound) {
		forget(share)
	}
	if err != nil {
		return err
	}
	remember(share, owner, info.TTL())

	out := con.Out()
	fmt.Fprintf(out, "ID: %s\n", share.ID)
	fmt.Fprintf(out, "Downloads: %d of %d\n", info.Downloads, info.DownloadLimit)
	fmt.Fprintf(out, "Expiry: %s (%ds)\n", format.FormatDuration(info.TTL()), int64(info.TTL()/time.Second))
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	share, entry, err := resolveShare(args[0])
	if err != nil {
		return err
	}
	owner := ownerToken(cmd.Flags().Changed("owner"), entry)

	if !con.PromptYes("Delete "+share.ID+"?", console.Bool(true)) {
		fmt.Fprintln(con.Out(), "Delete cancelled")
		return nil
	}

	err = apiClient().Delete(cmd.Context(), share, owner)
	if errors.Is(err, sendapi.ErrNotFound) {
		forget(share)
	}
	if err != nil {
		return err
	}

	forget(share)
	con.PrintSuccess("File deleted")
	return nil
}

func runParams(cmd *cobra.Command, args []string) error {
	limit := downloadLimit
	if !cmd.Flags().Changed("download-limit") {
		limit = cfg.DownloadLimit
	}
	if limit == 0 {
		return withHints(errors.New("no parameters given to change, specify '--download-limit'"), console.ErrorHints{Help: true})
	}
	if limit < 0 {
		return withHints(fmt.Errorf("download limit must be positive, got %d", limit), console.ErrorHints{Help: true})
	}

	if !sendapi.ValidDownloadLimit(limit) {
		if !con.Matcher().Force() {
			return withHints(
				fmt.Errorf("download limit %d is not supported, use one of %v", limit, sendapi.DownloadLimits),
				console.ErrorHints{Force: true, Help: true},
			)
		}
		con.PrintWarning(fmt.Sprintf("download limit %d might not be supported by the server, sending anyway", limit))
	}

	share, entry, err := resolveShare(args[0])
	if err != nil {
		return err
	}
	owner := ownerToken(cmd.Flags().Changed("owner"), entry)

	err = apiClient().SetParams(cmd.Context(), share, owner, limit)
	if errors.Is(err, sendapi.ErrNotFound) {
		forget(share)
	}
	if err != nil {
		return err
	}

	con.PrintSuccess("Parameters updated")
	return nil
}
