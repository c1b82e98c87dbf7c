package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fsend/internal/config"
	"fsend/internal/format"
	"fsend/internal/platform"
)

var (
	openPath      = platform.OpenPath
	debugOpenConf bool
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Show configuration and environment facts",
	Args:  cobra.NoArgs,
	RunE:  runDebug,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(con.Out(), "%s %s\n", platform.ExeName(), version)
	},
}

func init() {
	debugCmd.Flags().BoolVar(&debugOpenConf, "open-config", false, "Open the config directory in the file manager")
}

func runDebug(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	historyFile := cfg.History
	if cfg.Incognito {
		historyFile = "disabled (incognito)"
	}

	freeSpace := "unknown"
	if wd, err := os.Getwd(); err == nil {
		if space, err := platform.AvailableSpace(wd); err == nil {
			freeSpace = format.FormatBytes(space)
		}
	}

	clipboard := "unsupported"
	if platform.ClipboardSupported() {
		clipboard = "supported"
	}

	matcher := con.Matcher()
	facts := [][2]string{
		{"Version", version},
		{"Executable", platform.ExeName()},
		{"Platform", runtime.GOOS + "/" + runtime.GOARCH},
		{"Config file", path},
		{"Host", cfg.Host},
		{"History file", historyFile},
		{"Timeout", cfg.GetTimeout().String()},
		{"Free space", freeSpace},
		{"Clipboard", clipboard},
		{"No-interact", yesNo(matcher.NoInteract())},
		{"Assume yes", yesNo(matcher.AssumeYes())},
		{"Force", yesNo(matcher.Force())},
		{"Verbose", yesNo(isVerbose())},
	}

	var md strings.Builder
	md.WriteString("# fsend debug\n\n| Setting | Value |\n|---|---|\n")
	for _, f := range facts {
		fmt.Fprintf(&md, "| %s | `%s` |\n", f[0], strings.ReplaceAll(f[1], "|", "\\|"))
	}

	rendered, err := renderMarkdown(md.String())
	if err != nil {
		return err
	}
	fmt.Fprint(con.Out(), rendered)

	if debugOpenConf {
		if err := openPath(filepath.Dir(path)); err != nil {
			return fmt.Errorf("failed to open config directory: %w", err)
		}
	}
	return nil
}

// renderMarkdown renders md for the console output, without styling when
// that is not a terminal.
func renderMarkdown(md string) (string, error) {
	style := glamour.WithStylePath("notty")
	if f, ok := con.Out().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		style = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(120))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
