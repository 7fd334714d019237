// Package cli implements the fsquery command line with cobra.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driving"
	"github.com/08nikhil/freshservice-Application/internal/logger"
)

// Engine holds the services behind commands that read or change the index.
type Engine struct {
	Query    driving.QueryService
	Ingest   driving.IngestService
	Status   driving.StatusService
	Document driving.DocumentService

	// Close releases stores and provider clients. May be nil.
	Close func() error
}

// EngineFactory builds the engine on first use, so commands such as
// version and settings never touch providers or storage.
type EngineFactory func(ctx context.Context) (*Engine, error)

var (
	version = "dev"
	verbose bool

	settingsService driving.SettingsService

	engineMu      sync.Mutex
	engineFactory EngineFactory
	engine        *Engine
)

var rootCmd = &cobra.Command{
	Use:   "fsquery",
	Short: "Ask questions of the Freshservice API documentation",
	Long: `fsquery answers natural-language questions about the Freshservice API
from a local index of its documentation, citing the pages it used.

Index documentation with 'fsquery ingest', then ask with 'fsquery query'
or open the interactive console with 'fsquery tui'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
}

// SetVersion sets the version reported by 'fsquery version'.
func SetVersion(v string) {
	version = v
}

// SetSettingsService sets the settings service.
func SetSettingsService(svc driving.SettingsService) {
	settingsService = svc
}

// SetEngineFactory sets how the engine is built.
func SetEngineFactory(factory EngineFactory) {
	engineMu.Lock()
	defer engineMu.Unlock()
	engineFactory = factory
	engine = nil
}

// SetEngine installs an already built engine.
func SetEngine(e *Engine) {
	engineMu.Lock()
	defer engineMu.Unlock()
	engine = e
}

func loadEngine(ctx context.Context) (*Engine, error) {
	engineMu.Lock()
	defer engineMu.Unlock()
	if engine != nil {
		return engine, nil
	}
	if engineFactory == nil {
		return nil, errors.New("query engine not configured")
	}
	e, err := engineFactory(ctx)
	if err != nil {
		return nil, err
	}
	engine = e
	return engine, nil
}

func closeEngine() {
	engineMu.Lock()
	defer engineMu.Unlock()
	if engine == nil || engine.Close == nil {
		return
	}
	if err := engine.Close(); err != nil {
		logger.Warn("closing engine: %v", err)
	}
	engine = nil
}

// reportedError marks an error the command already printed, e.g. as JSON.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// writeJSONError prints err as {"kind","message"} and returns it marked as reported.
func writeJSONError(w io.Writer, err error) error {
	data, mErr := json.MarshalIndent(domain.NewQueryError(err), "", "  ")
	if mErr != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return &reportedError{err: err}
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	defer closeEngine()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return 1
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %s: %v\n", domain.ErrorKind(err), err)
}

// stoppedBySignal reports whether err only says ctx was cancelled, as on Ctrl-C.
func stoppedBySignal(ctx context.Context, err error) bool {
	return err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled)
}
