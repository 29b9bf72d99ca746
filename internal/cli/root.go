// Package cli implements the sakuraflow command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/sakuraflow/internal/cache"
	"github.com/mesh-intelligence/sakuraflow/internal/controller"
	"github.com/mesh-intelligence/sakuraflow/internal/logging"
	"github.com/mesh-intelligence/sakuraflow/internal/paths"
	"github.com/mesh-intelligence/sakuraflow/internal/store"
	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// EnvUser names the acting identity when --as is not given.
const EnvUser = "SAKURAFLOW_USER"

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataPath  string
	jsonMode  bool
	yamlMode  bool
	logLevel  string
	as        string
}

// app is the state shared by the commands of one root: the resolved
// configuration and the controller built from it.
type app struct {
	flags  rootFlags
	cfg    types.Config
	logger *log.Logger
	store  *store.Store
	ctrl   *controller.Controller

	// opened records the flags the store was opened with.
	opened rootFlags
}

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error { return e.Err }

func userError(format string, args ...any) error {
	return &ExitError{Code: exitUserError, Err: fmt.Errorf(format, args...)}
}

func sysError(format string, args ...any) error {
	return &ExitError{Code: exitSysError, Err: fmt.Errorf(format, args...)}
}

// NewRootCmd creates the top-level "sakuraflow" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "sakuraflow",
		Short: "A shared task checklist backed by a JSON file",
		Long: "sakuraflow tracks tasks with status, tier and priority, labels,\n" +
			"collaborators, dependencies and notes in a single JSON data file\n" +
			"that several processes can safely share.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipSetup(cmd) {
				return nil
			}
			return a.setup()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataPath, "data", "", "data file (default: ./sf_tasks/tasks.json)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVar(&a.flags.yamlMode, "yaml", false, "output in YAML format")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.as, "as", "", "acting identity (default: $"+EnvUser+" or the OS user)")
	root.MarkFlagsMutuallyExclusive("json", "yaml")

	root.AddCommand(
		newVersionCmd(),
		newAddCmd(a),
		newInfoCmd(a),
		newListCmd(a),
		newArchiveCmd(a),
		newSearchCmd(a),
		newSetCmd(a),
		newAppendCmd(a),
		newRemoveCmd(a),
		newNoteCmd(a),
		newDefaultTierCmd(a),
		newExportCmd(a),
		newCheckCmd(a),
		newUnlockCmd(a),
		newShellCmd(a),
	)
	for _, v := range statusVerbs {
		root.AddCommand(newStatusCmd(a, v))
	}
	return root
}

// skipSetup reports whether cmd runs without a data file.
func skipSetup(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return true
	}
	return cmd.HasParent() && cmd.Parent().Name() == "completion"
}

// setup resolves configuration, logging and the data file, then opens the
// store. Shell lines reuse the opened store and only reload it, so they
// cannot switch to another data file or configuration.
func (a *app) setup() error {
	if a.ctrl != nil {
		if a.flags.dataPath != a.opened.dataPath || a.flags.configDir != a.opened.configDir {
			return userError("--data and --config-dir cannot change inside the shell; start a new shell instead")
		}
		a.store.Reload()
		return nil
	}
	a.opened = a.flags

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return sysError("%w", err)
	}

	logger, warning, err := logging.Configure(a.flags.logLevel, v.GetString(cfgKeyLogLevel))
	if err != nil {
		return userError("%w", err)
	}
	if warning != "" {
		logger.Warn(warning)
	}
	a.logger = logger

	dataPath, err := paths.ResolveDataPath(a.flags.dataPath, v.GetString(cfgKeyDataPath))
	if err != nil {
		return sysError("resolve data path: %w", err)
	}
	a.cfg = configFromViper(v, dataPath)

	st, err := store.New(a.cfg, store.WithLogger(logger))
	if err != nil {
		return userError("invalid configuration: %w", err)
	}
	a.store = st
	a.ctrl = controller.New(st, cache.New(a.cfg.CacheTTL), controller.WithLogger(logger))
	logger.Debug("store opened", "path", dataPath, "config_dir", configDir)
	return nil
}

// identity is the acting user: --as, then $SAKURAFLOW_USER, then the OS
// account name.
func (a *app) identity() string {
	if a.flags.as != "" {
		return a.flags.as
	}
	if env := os.Getenv(EnvUser); env != "" {
		return env
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}

// hardFailure converts an error from a controller verb into a system error.
func hardFailure(op string, err error) error {
	if errors.Is(err, types.ErrLockTimeout) {
		return sysError("%s: data file is locked by another process (run 'sakuraflow unlock' if it crashed)", op)
	}
	return sysError("%s: %w", op, err)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "error:", err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return exitUserError
}
