package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func TestRootCommandAttachesLogger(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	if err := root.PersistentPreRunE(cmd, nil); err != nil {
		t.Fatalf("PersistentPreRunE: %v", err)
	}
	if got := loggerFromContext(cmd.Context()); got != c.Logger {
		t.Error("command context does not carry the CLI logger")
	}
}

func TestLoggerFromContextFallsBack(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}
}

func TestOpenWorkspaceLogsStationPasses(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		want  bool
	}{
		{"debug shows layout passes", log.DebugLevel, true},
		{"info hides them", log.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := withLogger(context.Background(), newLogger(&buf, tt.level))

			ws, err := New(&bytes.Buffer{}, LogInfo).openWorkspace(ctx, writeTestStation(t), storeFlags{noStore: true})
			if err != nil {
				t.Fatalf("openWorkspace: %v", err)
			}
			defer ws.Close()

			out := buf.String()
			if got := strings.Contains(out, "sidebar") && strings.Contains(out, "layout area="); got != tt.want {
				t.Errorf("station debug output = %v, want %v:\n%s", got, tt.want, out)
			}
		})
	}
}

func TestLayoutReportsProgress(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	if err := c.runLayout(context.Background(), writeTestStation(t), storeFlags{noStore: true}, "", true); err != nil {
		t.Fatalf("runLayout: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "Laid out 2 columns") {
		t.Errorf("log = %q, want the column count", out)
	}
}
