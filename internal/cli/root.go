// Package cli is the smarthealth command line: the terminal render surface
// over the SmartHealth API.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/smarthealth/internal/client"
	"github.com/jwalitptl/smarthealth/internal/config"
	authsvc "github.com/jwalitptl/smarthealth/internal/service/auth"
	"github.com/jwalitptl/smarthealth/internal/session"
	apperrors "github.com/jwalitptl/smarthealth/pkg/errors"
	"github.com/jwalitptl/smarthealth/pkg/listing"
	"github.com/jwalitptl/smarthealth/pkg/logger"
	"github.com/jwalitptl/smarthealth/pkg/metrics"
	"github.com/jwalitptl/smarthealth/pkg/validator"
)

// App carries everything a command needs once configuration is loaded
type App struct {
	cfg       *config.Config
	log       *logger.Logger
	client    *client.Client
	session   *session.Manager
	store     session.Store
	auth      *authsvc.Service
	validator validator.Validator
	metrics   *metrics.Metrics

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
	// outMu serializes writes from subscriptions and commands
	outMu sync.Mutex
}

type rootFlags struct {
	config   string
	apiURL   string
	logLevel string
}

// NewRootCommand builds the smarthealth command tree reading from in and
// writing tables to out and notices to errOut
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &App{in: bufio.NewReader(in), out: out, errOut: errOut}
	var flags rootFlags

	root := &cobra.Command{
		Use:           "smarthealth",
		Short:         "SmartHealth clinic management from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context(), flags)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&flags.config, "config", "", "Path to a smarthealth.yaml config file")
	root.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "Base URL of the SmartHealth API")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(loginCmd(a), logoutCmd(a), whoamiCmd(a), registerCmd(a), passwordCmd(a))
	for _, r := range resources(a) {
		root.AddCommand(r)
	}
	root.AddCommand(uploadCmd(a), browseCmd(a))
	return root
}

func (a *App) setup(ctx context.Context, flags rootFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(flags.config)
	if err != nil {
		return err
	}
	if flags.apiURL != "" {
		cfg.API.BaseURL = flags.apiURL
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	a.cfg = cfg

	a.log = logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: a.errOut,
	})
	a.metrics = metrics.New("smarthealth", prometheus.NewRegistry())
	a.validator = validator.New()

	a.store, err = session.NewStore(ctx, cfg.Session, a.log)
	if err != nil {
		return err
	}
	a.session = session.NewManager(a.store, a.log)

	a.client, err = client.New(cfg.API,
		client.WithTokenSource(a.session),
		client.WithLogger(a.log),
		client.WithMetrics(a.metrics),
	)
	if err != nil {
		return err
	}
	a.auth = authsvc.NewService(a.client, a.validator)

	a.session.Restore(ctx, a.auth)
	return nil
}

func (a *App) close() {
	if c, ok := a.store.(io.Closer); ok {
		_ = c.Close()
	}
}

// requireLogin fails early with a readable message for protected commands
func (a *App) requireLogin() error {
	if !a.session.Snapshot().LoggedIn {
		return fmt.Errorf("not logged in, run: smarthealth login")
	}
	return nil
}

func (a *App) listingOptions(name string, sort listing.Sort, filters map[string]string) listing.Options {
	return listing.Options{
		Name:           name,
		PageSize:       a.cfg.Listing.PageSize,
		Sort:           sort,
		Filters:        filters,
		SearchDelay:    a.cfg.Listing.SearchDelay,
		RequestTimeout: a.cfg.Listing.RequestTimeout,
		Notifier:       listing.NotifierFunc(a.notify),
		Logger:         a.log,
		Metrics:        a.metrics,
	}
}

// notify is the terminal equivalent of a toast
func (a *App) notify(level listing.NoticeLevel, message string) {
	a.outMu.Lock()
	fmt.Fprintf(a.errOut, "[%s] %s\n", level, message)
	a.outMu.Unlock()

	a.log.Debug("notice", "level", string(level), "message", message)
}

// readLine reads one trimmed line from stdin. io.EOF is returned once input
// is exhausted.
func (a *App) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *App) prompt(label string) (string, error) {
	a.outMu.Lock()
	fmt.Fprint(a.out, label)
	a.outMu.Unlock()
	return a.readLine()
}

// confirmer asks on stdin. Only y or yes confirms.
func (a *App) confirmer() listing.Confirmer {
	return listing.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		answer, err := a.prompt(prompt + " [y/N] ")
		if err != nil && err != io.EOF {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	})
}

func (a *App) printf(format string, args ...interface{}) {
	a.outMu.Lock()
	fmt.Fprintf(a.out, format, args...)
	a.outMu.Unlock()
}

// reportedError marks an error the user has already seen as a notice
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err}
}

// ErrorMessage is what main prints for a failed command. It is empty when
// the error was already shown as a notice.
func ErrorMessage(err error) string {
	var r reportedError
	if apperrors.As(err, &r) {
		return ""
	}
	if apperrors.KindOf(err) == apperrors.KindUnknown {
		return err.Error()
	}
	return apperrors.UserMessage(err)
}
