package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/charsheet/internal/models"
	"github.com/desertthunder/charsheet/internal/repositories"
	"github.com/desertthunder/charsheet/internal/server"
	"github.com/desertthunder/charsheet/internal/services"
	"github.com/desertthunder/charsheet/internal/shared"
	tu "github.com/desertthunder/charsheet/internal/testing"
	"github.com/urfave/cli/v3"
)

func quietLogger() *log.Logger {
	logger := shared.NewLogger(&bytes.Buffer{})
	logger.SetLevel(log.FatalLevel)
	return logger
}

// testEnv is a runner wired to a live API backed by a seeded memory store.
type testEnv struct {
	runner *Runner
	output *bytes.Buffer
	store  *repositories.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := repositories.NewMemoryStore()
	for _, s := range tu.ExpectedSheets() {
		sheet := models.NewCharacterSheet(s.Name, 0)
		if err := store.Create(context.Background(), &sheet); err != nil {
			t.Fatalf("failed to seed store: %v", err)
		}
	}

	ts := httptest.NewServer(server.NewRouter(store, quietLogger(), ""))
	t.Cleanup(ts.Close)

	config := shared.DefaultConfig()
	config.Client.BaseURL = ts.URL
	config.Client.RateLimit = 0

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:     config,
		HTTPClient: ts.Client(),
		Logger:     quietLogger(),
		Output:     output,
	})
	return &testEnv{runner: runner, output: output, store: store}
}

// run executes the CLI with args against a fresh root command.
func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	e.output.Reset()

	app := &cli.Command{Name: "charsheet", Commands: e.runner.register()}
	return app.Run(context.Background(), append([]string{"charsheet"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			svc := services.NewCharacterSheetService(&tu.FakeTransport{}, logger)

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Logger:  logger,
				Output:  output,
				Service: svc,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.sheets(context.Background()) != svc {
				t.Error("expected service to be used as provided")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("builds service once from config", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: quietLogger()})

			first := runner.sheets(context.Background())
			if first == nil {
				t.Fatal("expected a service")
			}
			if runner.sheets(context.Background()) != first {
				t.Error("expected the service to be reused")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"sheets", "health", "serve", "setup", "export", "import", "tui"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			if cmd.Name != want[i] {
				t.Errorf("expected command %q at index %d, got %q", want[i], i, cmd.Name)
			}
		}
	})
}

func TestSheetsCommands(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		t.Run("as JSON", func(t *testing.T) {
			env := newTestEnv(t)
			if err := env.run(t, "sheets", "list", "--json"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			var sheets []models.CharacterSheet
			if err := json.Unmarshal(env.output.Bytes(), &sheets); err != nil {
				t.Fatalf("expected JSON output, got %q: %v", env.output.String(), err)
			}

			a := tu.ListAssertion{Expected: tu.ExpectedSheets(), Actual: sheets}
			if !a.SameLength() || !a.SameValues("id") || !a.SameValues("name") {
				t.Errorf("expected the seeded sheets, got %+v", sheets)
			}
		})

		t.Run("as text", func(t *testing.T) {
			env := newTestEnv(t)
			if err := env.run(t, "sheets", "list"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			out := env.output.String()
			for _, name := range []string{"Tact", "Shush", "Ariel", "Gidgit", "Tully"} {
				if !strings.Contains(out, name) {
					t.Errorf("expected %q in output, got %q", name, out)
				}
			}
		})

		t.Run("unknown format", func(t *testing.T) {
			env := newTestEnv(t)
			err := env.run(t, "sheets", "list", "--format", "xml")
			if !errors.Is(err, shared.ErrUnknownFormat) {
				t.Errorf("expected ErrUnknownFormat, got %v", err)
			}
		})
	})

	t.Run("get", func(t *testing.T) {
		env := newTestEnv(t)

		t.Run("existing", func(t *testing.T) {
			if err := env.run(t, "sheets", "get", "2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(env.output.String(), "#2 Shush") {
				t.Errorf("expected Shush, got %q", env.output.String())
			}
		})

		t.Run("missing", func(t *testing.T) {
			err := env.run(t, "sheets", "get", "99")
			if !errors.Is(err, shared.ErrCharacterSheetNotFound) {
				t.Errorf("expected ErrCharacterSheetNotFound, got %v", err)
			}
		})

		t.Run("invalid id", func(t *testing.T) {
			err := env.run(t, "sheets", "get", "abc")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("no id", func(t *testing.T) {
			err := env.run(t, "sheets", "get")
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("create", func(t *testing.T) {
		t.Run("from flags", func(t *testing.T) {
			env := newTestEnv(t)
			err := env.run(t, "sheets", "create", "--name", "Toby", "--set", "class=Bard", "--set", "level=3", "--json")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			var sheet models.CharacterSheet
			if err := json.Unmarshal(env.output.Bytes(), &sheet); err != nil {
				t.Fatalf("expected JSON output, got %q", env.output.String())
			}
			if sheet.ID != 6 || sheet.Name != "Toby" || sheet.Class != "Bard" || sheet.Level != 3 {
				t.Errorf("unexpected sheet %+v", sheet)
			}

			stored, err := env.store.Get(context.Background(), 6)
			if err != nil || stored.Name != "Toby" {
				t.Errorf("expected Toby stored as 6, got %+v, %v", stored, err)
			}
		})

		t.Run("without a name", func(t *testing.T) {
			env := newTestEnv(t)
			err := env.run(t, "sheets", "create", "--class", "Bard")
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("unknown field", func(t *testing.T) {
			env := newTestEnv(t)
			err := env.run(t, "sheets", "create", "--name", "Toby", "--set", "alignment=good")
			if !errors.Is(err, shared.ErrUnknownField) {
				t.Errorf("expected ErrUnknownField, got %v", err)
			}
		})
	})

	t.Run("update", func(t *testing.T) {
		t.Run("applies assignments", func(t *testing.T) {
			env := newTestEnv(t)
			if err := env.run(t, "sheets", "update", "--set", "level=7", "--set", "notes=Sneaky", "1"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			stored, err := env.store.Get(context.Background(), 1)
			if err != nil {
				t.Fatalf("expected sheet 1, got %v", err)
			}
			if stored.Name != "Tact" || stored.Level != 7 || stored.Notes != "Sneaky" {
				t.Errorf("unexpected stored sheet %+v", stored)
			}
			if !strings.Contains(env.output.String(), "Sneaky") {
				t.Errorf("expected notes in output, got %q", env.output.String())
			}
		})

		t.Run("malformed assignment", func(t *testing.T) {
			env := newTestEnv(t)
			err := env.run(t, "sheets", "update", "--set", "level", "1")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("missing sheet", func(t *testing.T) {
			env := newTestEnv(t)
			err := env.run(t, "sheets", "update", "--set", "level=2", "42")
			if !errors.Is(err, shared.ErrCharacterSheetNotFound) {
				t.Errorf("expected ErrCharacterSheetNotFound, got %v", err)
			}
		})
	})

	t.Run("delete", func(t *testing.T) {
		env := newTestEnv(t)

		t.Run("existing", func(t *testing.T) {
			if err := env.run(t, "sheets", "delete", "2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(env.output.String(), "Deleted character sheet 2") {
				t.Errorf("unexpected output %q", env.output.String())
			}

			sheets, _ := env.store.List(context.Background())
			a := tu.ListAssertion{Expected: tu.ExpectedSheets(), Actual: sheets}
			if !a.SameValuesCustom("id", 1, 3, 4, 5) {
				t.Errorf("expected ids 1,3,4,5, got %+v", sheets)
			}
		})

		t.Run("declined", func(t *testing.T) {
			if err := env.run(t, "sheets", "delete", "2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(env.output.String(), "was not deleted") {
				t.Errorf("unexpected output %q", env.output.String())
			}
		})
	})
}

func TestHealthCommand(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run(t, "health", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var health services.HealthStatus
		if err := json.Unmarshal(env.output.Bytes(), &health); err != nil {
			t.Fatalf("expected JSON output, got %q", env.output.String())
		}
		if health.Status != "ok" {
			t.Errorf("expected status ok, got %q", health.Status)
		}
		if health.RequestID == "" {
			t.Error("expected the echoed request id")
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		config := shared.DefaultConfig()
		config.Client.BaseURL = url
		runner := NewRunner(RunnerOpts{Config: config, Logger: quietLogger(), Output: &bytes.Buffer{}})

		app := &cli.Command{Name: "charsheet", Commands: runner.register()}
		err := app.Run(context.Background(), []string{"charsheet", "health"})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestBulkCommands(t *testing.T) {
	t.Run("export", func(t *testing.T) {
		env := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "out", "party.yaml")

		if err := env.run(t, "export", "--output", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, path)
		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, "name: Tact") {
			t.Errorf("expected YAML content, got %q", content)
		}
		if !strings.Contains(env.output.String(), "Exported 5 character sheets") {
			t.Errorf("unexpected output %q", env.output.String())
		}
	})

	t.Run("export with unknown format", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.run(t, "export", "--format", "xml")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("import", func(t *testing.T) {
		env := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "party.csv")
		data := "name,class,level\nToby,Bard,2\n,Rogue,1\nMira,Cleric,5\n"
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatalf("failed to write import file: %v", err)
		}

		if err := env.run(t, "import", "--rate", "100", "--json", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var summary struct {
			Total     int `json:"total"`
			Succeeded int `json:"succeeded"`
			Failed    int `json:"failed"`
		}
		if err := json.Unmarshal(env.output.Bytes(), &summary); err != nil {
			t.Fatalf("expected JSON summary, got %q", env.output.String())
		}
		if summary.Total != 3 || summary.Succeeded != 2 || summary.Failed != 1 {
			t.Errorf("unexpected summary %+v", summary)
		}

		sheets, _ := env.store.List(context.Background())
		if len(sheets) != 7 {
			t.Errorf("expected 7 stored sheets, got %d", len(sheets))
		}
	})

	t.Run("import without path", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.run(t, "import")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		env := newTestEnv(t)
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := env.run(t, "setup", "config", "--config", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)

		if _, err := shared.LoadConfig(path); err != nil {
			t.Errorf("expected written config to load, got %v", err)
		}

		err := env.run(t, "setup", "config", "--config", path)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for existing file, got %v", err)
		}
	})

	t.Run("database", func(t *testing.T) {
		t.Chdir(t.TempDir())
		env := newTestEnv(t)

		if err := env.run(t, "setup", "database"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, "config.toml")
		tu.AssertFileExists(t, "charsheet.db")
		if !strings.Contains(env.output.String(), "Database ready") {
			t.Errorf("unexpected output %q", env.output.String())
		}
	})

	t.Run("serve rejects unknown store", func(t *testing.T) {
		env := newTestEnv(t)
		err := env.run(t, "serve", "--store", "postgres")
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
