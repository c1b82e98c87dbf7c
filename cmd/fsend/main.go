package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fsend/internal/config"
	"fsend/internal/console"
	"fsend/internal/logging"
	"fsend/internal/platform"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	noInteract  bool
	assumeYes   bool
	force       bool
	verbose     bool
	historyPath string
	incognito   bool
	configPath  string
	host        string
	timeout     time.Duration

	// Per-command flags shared by several commands
	ownerFlag    string
	passwordFlag string

	cfg    *config.Config
	con    *console.Console
	logger *zap.Logger

	// consoleOptions are appended when the console is built; tests swap the
	// streams and exit hook through them.
	consoleOptions []console.Option
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fsend",
	Short: "Manage files shared on a Send server",
	Long: `fsend manages files shared through a Send server: it checks whether
shared files still exist, shows their download counts and expiry, changes
their download limit, deletes them, and keeps a local history of owner
tokens so you do not have to.

Global switches can also be set through the environment by defining
FSEND_NO_INTERACT, FSEND_YES, FSEND_FORCE, FSEND_INCOGNITO or FSEND_VERBOSE.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&noInteract, "no-interact", "I", false, "Never prompt, fail instead")
	flags.BoolVarP(&assumeYes, "yes", "y", false, "Answer yes to every question")
	flags.BoolVarP(&force, "force", "f", false, "Force past failing checks")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVarP(&historyPath, "history", "H", "", "History file to use")
	flags.BoolVarP(&incognito, "incognito", "i", false, "Do not read or write history")
	flags.StringVar(&configPath, "config", "", "Config file (default: user config dir)")
	flags.StringVar(&host, "host", "", "Send server for bare file IDs")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for each server request")

	rootCmd.AddCommand(existsCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(paramsCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(versionCmd)
}

// flagMatcher answers the console's questions from flags, config and
// environment.
type flagMatcher struct{}

func (flagMatcher) NoInteract() bool {
	return noInteract || (cfg != nil && cfg.NoInteract)
}

func (flagMatcher) AssumeYes() bool {
	return assumeYes || (cfg != nil && cfg.AssumeYes)
}

func (flagMatcher) Force() bool {
	return force || platform.EnvVarPresent(config.EnvForce)
}

func isVerbose() bool {
	return verbose || platform.EnvVarPresent(config.EnvVerbose)
}

// setup loads configuration, applies global flags and builds the logger and
// console.
func setup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		c.Host = host
	}
	if flags.Changed("history") {
		c.History = historyPath
	}
	if flags.Changed("timeout") {
		c.Timeout = timeout.String()
	}
	if incognito {
		c.Incognito = true
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	cfg = c

	if err := logging.Initialize(logging.Config{
		Level:   c.Logging.Level,
		Format:  c.Logging.Format,
		File:    c.Logging.File,
		Verbose: isVerbose(),
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logging.Get(logging.CategoryBoot)
	logger.Debug("configuration loaded",
		zap.String("path", path),
		zap.String("host", c.Host),
		zap.Bool("incognito", c.Incognito))

	con = newConsole()
	return nil
}

func newConsole() *console.Console {
	opts := []console.Option{
		console.WithVerbose(isVerbose()),
		console.WithLogger(logging.Get(logging.CategoryPrompt)),
	}
	return console.New(flagMatcher{}, append(opts, consoleOptions...)...)
}

// execute runs the CLI and reports a failing command through the console.
func execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if con == nil {
		con = newConsole()
	}
	con.QuitError(err, hintsFor(err))
}

func main() {
	execute()
}
