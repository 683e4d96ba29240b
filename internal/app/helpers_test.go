package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/stagegrid/internal/process"
	"github.com/specialistvlad/stagegrid/internal/testutil"
	"github.com/stretchr/testify/require"
)

const fixtureStages = `{
  "build": {
    "run": {"directory": "${DIR}", "command": "make ${FLAVOR}"},
    "post": {"directory": "${DIR}", "command": "check", "output": "report.txt"},
    "variables": {"FLAVOR": "release", "DIR": "out/@{target}"}
  },
  "test": {
    "run": {"command": "test ${FLAVOR}"},
    "variables": {"FLAVOR": "@{build.FLAVOR}"},
    "after": ["build"]
  }
}`

const fixtureTargets = `[
  {"target": "alpha"},
  {"target": "beta", "overrides": {"build": {"variables": {"FLAVOR": "debug"}}}}
]`

// setupAppTest writes the fixture documents into a temp dir and returns an
// App rooted there. Logs are echoed to stderr when STAGEGRID_TEST_LOGS is set.
func setupAppTest(t *testing.T, runner process.Runner, extra map[string]string) (*App, string, *testutil.SafeBuffer) {
	t.Helper()

	files := map[string]string{
		"stages.json":  fixtureStages,
		"targets.json": fixtureTargets,
	}
	for name, content := range extra {
		files[name] = content
	}
	dir := testutil.WriteFiles(t, files)

	level := "debug"
	if os.Getenv("STAGEGRID_TEST_LOGS") == "" {
		level = "info"
	}
	cfg, err := NewConfig(Config{BaseDir: dir, LogLevel: level, LogFormat: "text"})
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	a := NewApp(logs, cfg, WithRunner(runner))
	t.Cleanup(func() {
		if os.Getenv("STAGEGRID_TEST_LOGS") != "" {
			t.Log(logs.String())
		}
	})
	return a, dir, logs
}
