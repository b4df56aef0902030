// Package cli wires the command line surface: the presenter itself,
// HTML export, and saved-position management.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/declaim/declaim/internal/config"
	"github.com/declaim/declaim/internal/deck"
	"github.com/declaim/declaim/internal/emoji"
	"github.com/declaim/declaim/internal/output"
	"github.com/declaim/declaim/internal/render"
	"github.com/declaim/declaim/internal/repl"
	"github.com/declaim/declaim/internal/script"
	"github.com/declaim/declaim/internal/serve"
	"github.com/declaim/declaim/internal/state"
	"github.com/declaim/declaim/internal/term"
	"github.com/declaim/declaim/internal/ui"
	"github.com/declaim/declaim/internal/watcher"
)

// Version is stamped at build time.
var Version = "dev"

// presentFlags collects the root command's flag overrides on top of
// the config file.
type presentFlags struct {
	configPath  string
	width       int
	height      int
	title       string
	author      string
	interpreter string
	serveAddr   string
	noWatch     bool
	resume      bool
	logFile     string
}

// NewRootCmd builds the declaim command tree.
func NewRootCmd() *cobra.Command {
	var flags presentFlags

	cmd := &cobra.Command{
		Use:   "declaim [script]",
		Short: "Present slides in the terminal",
		Long: `Present a plain-text slide script in the terminal.

The script may be a single file or a directory of files read in name
order. Slides are separated by --- lines and incremental builds by --
lines. Fenced code blocks are highlighted and can be piped to an
interpreter with the x key during the presentation.

Example:
  declaim talk.txt                 # present a script
  declaim slides/ --serve :8080    # let the audience follow along
  declaim talk.txt --resume        # pick up where you left off`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(flags.logFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			return runPresent(path, flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/declaim/config.toml)")
	cmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "write debug logs to this file")
	cmd.Flags().IntVarP(&flags.width, "width", "W", 0, "frame width (default: terminal width)")
	cmd.Flags().IntVarP(&flags.height, "height", "H", 0, "frame height (default: terminal height)")
	cmd.Flags().StringVar(&flags.title, "title", "", "header title, may use markup and :emoji: codes")
	cmd.Flags().StringVar(&flags.author, "author", "", "header author, shown after the title")
	cmd.Flags().StringVarP(&flags.interpreter, "interpreter", "i", "", "command that receives code snippets on stdin")
	cmd.Flags().StringVar(&flags.serveAddr, "serve", "", "serve frames for followers on this address")
	cmd.Flags().BoolVar(&flags.noWatch, "no-watch", false, "do not reload when the script changes")
	cmd.Flags().BoolVar(&flags.resume, "resume", false, "start from the last saved position")

	cmd.AddCommand(
		newExportCmd(&flags.configPath),
		newForgetCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging routes slog away from the terminal so frames stay
// clean. Without a log file, logs are dropped.
func setupLogging(path string) error {
	if path == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return nil
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(flags presentFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}

	if flags.title != "" {
		cfg.Title = flags.title
	}
	if flags.author != "" {
		cfg.Author = flags.author
	}
	if flags.interpreter != "" {
		cfg.Interpreter = flags.interpreter
	}
	if flags.width > 0 {
		cfg.Width = flags.width
	}
	if flags.height > 0 {
		cfg.Height = flags.height
	}
	if flags.noWatch {
		cfg.Watch = false
	}
	return cfg, nil
}

// geometry resolves the frame size from config overrides or the
// terminal itself.
func geometry(cfg *config.Config) render.Geometry {
	w, h := term.Size(os.Stdout)
	if cfg.Width > 0 {
		w = cfg.Width
	}
	if cfg.Height > 0 {
		h = cfg.Height
	}
	return render.Geometry{Width: w, Height: h}
}

func emojiTable(cfg *config.Config) emoji.Table {
	return emoji.Load(cfg.EmojiFile)
}

// newLoader builds the parse pipeline shared by startup, the reload
// key, and the file watcher. Parse warnings are collected and returned;
// the caller decides whether to prompt or show them inline.
func newLoader(path string, cfg *config.Config, geo render.Geometry, table emoji.Table) ui.Loader {
	hasHeader := cfg.Title != "" || cfg.Author != ""
	hasFooter := cfg.ShowDate || cfg.ShowCounter

	return func() (*deck.Deck, []string, error) {
		raw, err := script.ReadSource(path)
		if err != nil {
			return nil, nil, err
		}
		var warnings []string
		parser := script.NewParser(table,
			script.WithLineNumbers(cfg.ShowLineNumbers),
			script.WithVerticalSpace(geo.VerticalSpace(hasHeader, hasFooter)),
			script.WithWarnHandler(func(msg string) { warnings = append(warnings, msg) }),
		)
		slides, err := parser.Parse(raw)
		if err != nil {
			return nil, nil, err
		}
		return deck.New(slides, deck.Chrome{
			Title:       cfg.Title,
			Author:      cfg.Author,
			ShowDate:    cfg.ShowDate,
			DateFormat:  cfg.DateFormat,
			ShowCounter: cfg.ShowCounter,
			Width:       geo.HorizontalSpace(),
			Emoji:       table,
		}), warnings, nil
	}
}

func runPresent(path string, flags presentFlags) error {
	if !term.IsInteractive() {
		return errors.New("declaim needs an interactive terminal; use the export subcommand for non-interactive output")
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	geo := geometry(cfg)
	table := emojiTable(cfg)

	loader := newLoader(path, cfg, geo, table)
	d, warnings, err := loader()
	if err != nil {
		// A broken script still starts the presenter so the watcher
		// can pick up the fix.
		fmt.Fprintln(os.Stderr, err)
		d = deck.New(nil, deck.Chrome{Width: geo.HorizontalSpace(), Emoji: table})
	}
	// Prompting is only safe here, before Bubble Tea takes the
	// terminal; reload warnings go to the status line instead.
	for _, w := range warnings {
		if !output.Confirm(w + " Present anyway?") {
			return errors.New("aborted")
		}
	}

	scriptKey, err := filepath.Abs(path)
	if err != nil {
		scriptKey = path
	}

	store, err := state.Open(statePath(cfg))
	if err != nil {
		slog.Warn("position store unavailable", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	if flags.resume && store != nil {
		resumePosition(d, store, scriptKey)
	}

	var publisher ui.Publisher
	if flags.serveAddr != "" {
		srv := serve.New(serve.NormalizeAddr(flags.serveAddr))
		addr, err := srv.Start()
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
		fmt.Fprintf(os.Stderr, "followers: http://%s/frame\n", addr)
		publisher = srv
	}

	var reloads <-chan struct{}
	if cfg.Watch {
		w, err := watcher.New(path)
		if err != nil {
			slog.Warn("watch disabled", "path", path, "error", err)
		} else {
			defer w.Close()
			reloads = w.Reloads()
		}
	}

	var runner deck.CodeRunner
	if p := repl.NewProcess(cfg.Interpreter); p != nil {
		runner = p
	}

	model := ui.New(ui.Options{
		Deck:       d,
		Geometry:   geo,
		Border:     cfg.Border,
		Runner:     runner,
		Loader:     loader,
		Reloads:    reloads,
		Publisher:  publisher,
		Store:      store,
		ScriptPath: scriptKey,
		Progress:   cfg.ShowProgress,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func statePath(cfg *config.Config) string {
	if cfg.StatePath != "" {
		return cfg.StatePath
	}
	return config.DefaultStatePath()
}

// resumePosition moves the deck to the last saved slide and build.
func resumePosition(d *deck.Deck, store *state.Store, scriptKey string) {
	slide, build, ok, err := store.LoadPosition(scriptKey)
	if err != nil || !ok {
		return
	}
	if _, ok := d.JumpTo(slide); !ok {
		return
	}
	for i := 0; i < build; i++ {
		d.NextBuild()
	}
}
