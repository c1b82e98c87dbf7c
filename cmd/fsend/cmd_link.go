package main

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fsend/internal/console"
	"fsend/internal/logging"
	"fsend/internal/platform"
)

var (
	openURL            = platform.OpenURL
	setClipboard       = platform.SetClipboard
	clipboardSupported = platform.ClipboardSupported
)

var (
	linkOpen bool
	linkCopy bool
)

var linkCmd = &cobra.Command{
	Use:   "link <URL|ID|#N>",
	Short: "Print, open or copy the share link of a file",
	Long: `Prints the full share link of a file, resolving history references
such as #1 or a file ID. With --open the link is opened in the default
browser, with --copy it is put on the clipboard.`,
	Args: cobra.ExactArgs(1),
	RunE: runLink,
}

func init() {
	linkCmd.Flags().BoolVar(&linkOpen, "open", false, "Open the link in the default browser")
	linkCmd.Flags().BoolVarP(&linkCopy, "copy", "c", false, "Copy the link to the clipboard")
}

func runLink(cmd *cobra.Command, args []string) error {
	share, _, err := resolveShare(args[0])
	if err != nil {
		return err
	}
	if share.Secret == "" {
		con.PrintWarning("the link has no secret, recipients will not be able to decrypt the file")
	}

	link := share.String()
	fmt.Fprintln(con.Out(), link)

	if linkOpen {
		u, err := url.Parse(link)
		if err != nil {
			return err
		}
		logging.Get(logging.CategoryPlatform).Debug("opening link in browser", zap.String("id", share.ID))
		if err := openURL(u); err != nil {
			return withHints(fmt.Errorf("failed to open the link in the browser: %w", err), console.DefaultHints())
		}
	}

	if linkCopy {
		if !clipboardSupported() {
			return withHints(errors.New("no clipboard available on this system"), console.ErrorHints{Help: true})
		}
		logging.Get(logging.CategoryPlatform).Debug("copying link to clipboard", zap.String("id", share.ID))
		if err := setClipboard(link); err != nil {
			return err
		}
		con.PrintSuccess("Link copied to clipboard")
	}
	return nil
}
