package cmds

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := &cobra.Command{Use: "alin-dash", SilenceUsage: true, SilenceErrors: true}
	AddRootFlags(root)
	require.NoError(t, AddCommands(root))

	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	cfg := filepath.Join(t.TempDir(), "missing.yaml")
	root.SetArgs(append([]string{"--config", cfg}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func lines(s string) []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			out = append(out, sc.Text())
		}
	}
	return out
}

func TestGenerateWritesForcedLevel(t *testing.T) {
	out, _, err := execute(t, "", "generate", "--count", "5", "--level", "warn")
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 5)
	for _, l := range got {
		var ev event.Event
		require.NoError(t, json.Unmarshal([]byte(l), &ev))
		require.Equal(t, event.LevelWarn, ev.Level)
		require.NotEmpty(t, ev.Message)
	}
}

func TestGenerateRejectsAll(t *testing.T) {
	_, _, err := execute(t, "", "generate", "--level", "all")
	require.Error(t, err)
}

func TestPipeFiltersAndAlerts(t *testing.T) {
	in := strings.Join([]string{
		`{"level":"error","message":"disk full"}`,
		`{"level":"info","message":"ok"}`,
		``,
		`{"level":"warning","msg":"slow"}`,
	}, "\n")

	out, errOut, err := execute(t, in, "pipe", "--level", "warn", "--threshold", "2", "--alert-format", "json")
	require.NoError(t, err)

	got := lines(out)
	require.Len(t, got, 2)
	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(got[0]), &first))
	require.Equal(t, "log", first["_type"])
	require.Equal(t, "ERROR", first["level"])
	require.Equal(t, "disk full", first["message"])

	alerts := lines(errOut)
	require.Len(t, alerts, 1)
	var alert map[string]any
	require.NoError(t, json.Unmarshal([]byte(alerts[0]), &alert))
	require.Equal(t, true, alert["alert"])
	require.Equal(t, "slow", alert["message"])
}

func TestPipeNoAlerts(t *testing.T) {
	out, errOut, err := execute(t, `{"level":"error","message":"boom"}`, "pipe", "--no-alerts", "--threshold", "0")
	require.NoError(t, err)
	require.Len(t, lines(out), 1)
	require.Empty(t, errOut)
}

func TestPipeDefaultThresholdAlertsEveryEvent(t *testing.T) {
	in := `{"level":"error","message":"one"}` + "\n" + `{"level":"error","message":"two"}`
	_, errOut, err := execute(t, in, "pipe", "--alert-format", "json")
	require.NoError(t, err)
	require.Len(t, lines(errOut), 2)
}

func TestPipeFatalLevelDropsError(t *testing.T) {
	in := `{"level":"error","message":"disk full"}` + "\n" + `{"level":"fatal","message":"kernel panic"}`
	out, _, err := execute(t, in, "pipe", "--level", "FATAL", "--no-alerts")
	require.NoError(t, err)
	got := lines(out)
	require.Len(t, got, 1)
	require.Contains(t, got[0], "kernel panic")
}

func TestLevelFlag(t *testing.T) {
	f := &levelFlag{allowAll: true}
	require.NoError(t, f.Set("ALL"))
	require.Equal(t, event.LevelDebug, f.level)
	require.NoError(t, f.Set("critical"))
	require.Equal(t, event.LevelFatal, f.level)
	require.Equal(t, "level", f.Type())

	strict := &levelFlag{}
	require.Error(t, strict.Set("all"))
	require.Error(t, strict.Set("nope"))
}
