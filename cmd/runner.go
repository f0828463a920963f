package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/charsheet/internal/services"
	"github.com/desertthunder/charsheet/internal/shared"
	"github.com/desertthunder/charsheet/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	service    *services.CharacterSheetService
	api        *services.APIService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Service and HTTPClient are built from Config on first use when nil.
type RunnerOpts struct {
	Config     *shared.Config
	Service    *services.CharacterSheetService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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

	return &Runner{
		config:     opts.Config,
		service:    opts.Service,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger. Call before the service is first used so it inherits the logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// sheets returns the data service, wiring the HTTP transport from config on first use.
func (r *Runner) sheets(ctx context.Context) *services.CharacterSheetService {
	if r.service != nil {
		return r.service
	}

	r.service = services.NewCharacterSheetService(services.NewCharacterSheetHTTP(r.apiClient(ctx)), r.logger)
	return r.service
}

// apiClient returns the API client built from config, creating it on first use.
func (r *Runner) apiClient(ctx context.Context) *services.APIService {
	if r.api != nil {
		return r.api
	}

	client := r.httpClient
	if client == nil {
		client = services.NewHTTPClient(ctx, r.config.Client.Token, r.config.Client.Timeout())
	}

	r.api = services.NewAPIService(r.config.Client.BaseURL, client).WithRateLimit(r.config.Client.RateLimit)
	return r.api
}

func (r *Runner) engine(ctx context.Context) *tasks.SheetEngine {
	return tasks.NewSheetEngine(r.sheets(ctx))
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		sheetsCommand, healthCommand, serveCommand, setupCommand, exportCommand, importCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
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
