package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/stagegrid/internal/app"
	"github.com/specialistvlad/stagegrid/internal/loader"
	"github.com/specialistvlad/stagegrid/internal/model"
	"github.com/specialistvlad/stagegrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainStages = `
a:
  run: {command: "step a"}
b:
  run: {command: "step b"}
  after: [a]
c:
  run: {command: "step c"}
  after: [b]
  post: {directory: out, command: "summarize", output: c.txt}
`

const chainTargets = `[{"target": "T"}]`

type harness struct {
	dir    string
	runner *testutil.FakeRunner
	stdout *testutil.SafeBuffer
	stderr *testutil.SafeBuffer
}

func newHarness(t *testing.T, runner *testutil.FakeRunner, files map[string]string) *harness {
	t.Helper()
	all := map[string]string{
		"configs/stages.yaml": chainStages,
		"targets.json":        chainTargets,
	}
	for k, v := range files {
		all[k] = v
	}
	return &harness{
		dir:    testutil.WriteFiles(t, all),
		runner: runner,
		stdout: &testutil.SafeBuffer{},
		stderr: &testutil.SafeBuffer{},
	}
}

func (h *harness) exec(args ...string) error {
	env := Env{
		Stdout:     h.stdout,
		Stderr:     h.stderr,
		BaseDir:    h.dir,
		AppOptions: []app.Option{app.WithRunner(h.runner)},
	}
	return Execute(context.Background(), env, args)
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected *ExitError, got %T: %v", err, err)
	return exitErr.Code
}

func TestMergeThenRun(t *testing.T) {
	h := newHarness(t, testutil.NewFakeRunner(0), nil)

	require.NoError(t, h.exec("merge", "-s", "configs/stages.yaml", "-t", "targets.json"))
	merged, err := loader.LoadMerged(filepath.Join(h.dir, "merged.json"))
	require.NoError(t, err)
	require.Len(t, merged, 3)
	assert.Equal(t, []string{"T:b"}, merged["T:c"].After)

	require.NoError(t, h.exec("run", "-j", "2"))
	assert.Equal(t, []string{"step a", "step b", "step c", "summarize"}, h.runner.Lines())
}

func TestRun_OnlyWithDeps(t *testing.T) {
	h := newHarness(t, testutil.NewFakeRunner(0), nil)
	require.NoError(t, h.exec("merge", "-s", "configs/stages.yaml", "-t", "targets.json"))

	require.NoError(t, h.exec("run", "--only", "T:b", "--with-deps"))
	assert.Equal(t, []string{"step a", "step b"}, h.runner.Lines())
}

func TestPost_RunsOnlyPostActions(t *testing.T) {
	h := newHarness(t, testutil.NewFakeRunner(0), nil)
	require.NoError(t, h.exec("merge", "-s", "configs/stages.yaml", "-t", "targets.json"))

	require.NoError(t, h.exec("post"))
	assert.Equal(t, []string{"summarize"}, h.runner.Lines())

	err := h.exec("post", "--mode", "command")
	assert.Equal(t, ExitUsage, exitCode(t, err), "post has no --mode flag")
}

func TestRun_FailureExitCodes(t *testing.T) {
	h := newHarness(t, testutil.NewFakeRunner(0, "step a"), nil)
	require.NoError(t, h.exec("merge", "-s", "configs/stages.yaml", "-t", "targets.json"))

	err := h.exec("run")
	assert.Equal(t, ExitStageFailed, exitCode(t, err))
	assert.Contains(t, err.Error(), "T:a")
	assert.Contains(t, h.runner.Lines(), "step b", "failures do not block dependents by default")

	assert.NoError(t, h.exec("run", "--allow-failures"))

	err = h.exec("run", "--on-failure", "skip-dependents")
	assert.Equal(t, ExitStageFailed, exitCode(t, err))
	assert.Contains(t, err.Error(), "2 skipped")
}

func TestCollectAndReport(t *testing.T) {
	h := newHarness(t, testutil.NewFakeRunner(0), map[string]string{"out/c.txt": "done\n"})
	require.NoError(t, h.exec("merge", "-s", "configs/stages.yaml", "-t", "targets.json"))

	require.NoError(t, h.exec("collect"))
	analyzed, err := loader.LoadAnalyzed(filepath.Join(h.dir, "analyzed.json"))
	require.NoError(t, err)
	assert.Equal(t, map[string]model.Analysis{
		"T:c": {Status: model.AnalysisUnverified, Content: "done\n", Filename: "out/c.txt"},
	}, analyzed)

	require.NoError(t, h.exec("report"))
	assert.Contains(t, h.stdout.String(), "unverified")
}

func TestUsageErrors(t *testing.T) {
	testCases := map[string][]string{
		"no subcommand":        {},
		"unknown command":      {"explode"},
		"unknown flag":         {"run", "--nope"},
		"missing targets":      {"merge"},
		"exclusive verbosity":  {"-v", "-q", "run"},
		"bad jobs":             {"run", "-j", "0"},
		"bad mode":             {"run", "--mode", "sideways"},
		"bad policy":           {"run", "--on-failure", "panic"},
		"bad log format":       {"--log-format", "xml", "report"},
		"positional arguments": {"run", "extra"},
	}

	for name, args := range testCases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, testutil.NewFakeRunner(0), nil)
			err := h.exec(args...)
			assert.Equal(t, ExitUsage, exitCode(t, err))
			assert.Empty(t, h.runner.Lines())
		})
	}
}

func TestOperationalErrors(t *testing.T) {
	h := newHarness(t, testutil.NewFakeRunner(0), map[string]string{
		"cyclic.json": `{"a": {"after": ["b"]}, "b": {"after": ["a"]}}`,
	})

	err := h.exec("run", "-s", "missing.json")
	assert.Equal(t, ExitOperational, exitCode(t, err))

	err = h.exec("merge", "-s", "missing.yaml", "-t", "targets.json")
	assert.Equal(t, ExitOperational, exitCode(t, err))

	require.NoError(t, h.exec("merge", "-s", "cyclic.json", "-t", "targets.json", "-o", "cyclic-merged.json"))
	err = h.exec("run", "-s", "cyclic-merged.json")
	assert.Equal(t, ExitOperational, exitCode(t, err))
	assert.Contains(t, err.Error(), "cycle")
	assert.Empty(t, h.runner.Lines())
}

func TestVerbosityControlsLogs(t *testing.T) {
	h := newHarness(t, testutil.NewFakeRunner(0), nil)
	require.NoError(t, h.exec("merge", "-s", "configs/stages.yaml", "-t", "targets.json"))
	assert.Empty(t, h.stderr.String(), "default level is warn")

	require.NoError(t, h.exec("-v", "--log-format", "json", "run"))
	assert.Contains(t, h.stderr.String(), `"msg":"All DAG stages executed."`)
}

func TestHelp(t *testing.T) {
	h := newHarness(t, testutil.NewFakeRunner(0), nil)
	require.NoError(t, h.exec("--help"))
	for _, sub := range []string{"merge", "run", "post", "collect", "report"} {
		assert.Contains(t, h.stdout.String(), sub)
	}
	_, err := os.Stat(filepath.Join(h.dir, "merged.json"))
	assert.True(t, os.IsNotExist(err))
}
