package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hokage/internal/account"
	"github.com/desertthunder/hokage/internal/catalog"
	"github.com/desertthunder/hokage/internal/repositories"
	"github.com/desertthunder/hokage/internal/services"
	"github.com/desertthunder/hokage/internal/session"
	"github.com/desertthunder/hokage/internal/shared"
	"github.com/desertthunder/hokage/internal/theme"
	"github.com/desertthunder/hokage/internal/ui"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	api        *services.APIService
	store      repositories.CredentialStore
	prefs      ui.PreferencesStore
	logger     *log.Logger
	output     io.Writer
	input      *bufio.Reader
	inputFile  *os.File
	open       func(url string) error

	resolver *session.Resolver
	gate     *session.Gate
	cache    *catalog.Cache
	accounts *account.Service
	themes   *theme.Broadcaster
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	API        *services.APIService
	Store      repositories.CredentialStore
	Prefs      ui.PreferencesStore
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	Open       func(url string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Open == nil {
		opts.Open = shared.OpenBrowser
	}
	if opts.Store == nil {
		opts.Store = repositories.NewMemoryStore()
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.API.BaseURL, &http.Client{Timeout: opts.Config.API.Timeout})
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		api:        opts.API,
		store:      opts.Store,
		prefs:      opts.Prefs,
		output:     opts.Output,
		input:      bufio.NewReader(opts.Input),
		open:       opts.Open,
	}
	if f, ok := opts.Input.(*os.File); ok {
		r.inputFile = f
	}
	r.SetLogger(opts.Logger)
	return r
}

// SetLogger replaces the logger and rebuilds the session components around it.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.api.SetLogger(l)

	r.resolver = session.NewResolver(r.store, l)
	r.gate = session.NewGate(r.resolver, l)
	r.cache = catalog.New(r.api, r.resolver.Token, l)
	r.accounts = account.NewService(r.api, r.store, l)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, accountCommand, catalogCommand, listsCommand, settingsCommand, apiCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// broadcaster reads the stored theme on first use.
func (r *Runner) broadcaster(ctx context.Context) (*theme.Broadcaster, error) {
	if r.themes != nil {
		return r.themes, nil
	}
	b, err := theme.New(ctx, r.store)
	if err != nil {
		return nil, err
	}
	r.themes = b
	return b, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeMessage prints account feedback with a marker for its kind.
func (r *Runner) writeMessage(msg account.Message) {
	if msg.Text == "" {
		return
	}
	switch msg.Kind {
	case account.KindSuccess:
		r.writePlain("✓ %s\n", msg.Text)
	case account.KindDanger:
		r.writePlain("✗ %s\n", msg.Text)
	default:
		r.writePlain("%s\n", msg.Text)
	}
}

// prompt reads one line after printing label. An unset flag value falls back to the prompt.
func (r *Runner) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	r.writePlain("%s: ", label)
	line, err := r.input.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, strings.ToLower(label))
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// promptSecret reads a password without echo when stdin is a terminal.
func (r *Runner) promptSecret(label string) (string, error) {
	if r.inputFile == nil || !term.IsTerminal(int(r.inputFile.Fd())) {
		return r.prompt(label, "")
	}

	r.writePlain("%s: ", label)
	secret, err := term.ReadPassword(int(r.inputFile.Fd()))
	r.writePlain("\n")
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return string(secret), nil
}
