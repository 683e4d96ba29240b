package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/stagegrid/internal/executor"
	"github.com/specialistvlad/stagegrid/internal/loader"
	"github.com/specialistvlad/stagegrid/internal/model"
	"github.com/specialistvlad/stagegrid/internal/nodestore"
	"github.com/specialistvlad/stagegrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mergeFixture(t *testing.T, a *App) {
	t.Helper()
	_, err := a.Merge(context.Background(), MergeOptions{
		StagesPath:  "stages.json",
		TargetsPath: "targets.json",
		OutputPath:  "merged.json",
	})
	require.NoError(t, err)
}

func TestApp_Merge(t *testing.T) {
	a, dir, _ := setupAppTest(t, testutil.NewFakeRunner(0), nil)
	mergeFixture(t, a)

	merged, err := loader.LoadMerged(filepath.Join(dir, "merged.json"))
	require.NoError(t, err)

	want := map[string]model.ResolvedStage{
		"alpha:build": {
			Command:   model.Action{"directory": "out/alpha", "command": "make release"},
			Post:      model.Action{"directory": "out/alpha", "command": "check", "output": "report.txt"},
			Before:    []string{},
			After:     []string{},
			Variables: map[string]string{"FLAVOR": "release", "DIR": "out/alpha"},
		},
		"alpha:test": {
			Command:   model.Action{"command": "test release"},
			Post:      model.Action{},
			Before:    []string{},
			After:     []string{"alpha:build"},
			Variables: map[string]string{"FLAVOR": "release"},
		},
		"beta:build": {
			Command:   model.Action{"directory": "out/beta", "command": "make debug"},
			Post:      model.Action{"directory": "out/beta", "command": "check", "output": "report.txt"},
			Before:    []string{},
			After:     []string{},
			Variables: map[string]string{"FLAVOR": "debug", "DIR": "out/beta"},
		},
		"beta:test": {
			Command:   model.Action{"command": "test debug"},
			Post:      model.Action{},
			Before:    []string{},
			After:     []string{"beta:build"},
			Variables: map[string]string{"FLAVOR": "debug"},
		},
	}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("merged document mismatch (-want +got):\n%s", diff)
	}
}

func TestApp_Merge_FailureWritesNothing(t *testing.T) {
	a, dir, _ := setupAppTest(t, testutil.NewFakeRunner(0), map[string]string{
		"bad-targets.json": `[{"target": "alpha", "overrides": {"build": {"environment": {"X": "1"}}}}]`,
	})

	_, err := a.Merge(context.Background(), MergeOptions{
		StagesPath:  "stages.json",
		TargetsPath: "bad-targets.json",
		OutputPath:  "merged.json",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment")
	assert.NoFileExists(t, filepath.Join(dir, "merged.json"))
}

func TestApp_Run(t *testing.T) {
	runner := testutil.NewFakeRunner(0)
	a, _, logs := setupAppTest(t, runner, nil)
	mergeFixture(t, a)

	report, err := a.Run(context.Background(), RunOptions{MergedPath: "merged.json", Workers: 2})
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Len(t, report.Order, 4)

	assert.ElementsMatch(t, []string{"make release", "check", "make debug", "check", "test release", "test debug"}, runner.Lines())
	assert.Contains(t, logs.String(), "run_id=")
}

func TestApp_Run_Modes(t *testing.T) {
	testCases := map[string][]string{
		"command": {"make release", "make debug", "test release", "test debug"},
		"post":    {"check", "check"},
	}
	for mode, want := range testCases {
		t.Run(mode, func(t *testing.T) {
			runner := testutil.NewFakeRunner(0)
			a, _, _ := setupAppTest(t, runner, nil)
			mergeFixture(t, a)

			_, err := a.Run(context.Background(), RunOptions{MergedPath: "merged.json", Workers: 1, Mode: mode})
			require.NoError(t, err)
			assert.ElementsMatch(t, want, runner.Lines())
		})
	}
}

func TestApp_Run_FailureDoesNotBlock(t *testing.T) {
	runner := testutil.NewFakeRunner(0, "make debug")
	a, _, _ := setupAppTest(t, runner, nil)
	mergeFixture(t, a)

	report, err := a.Run(context.Background(), RunOptions{MergedPath: "merged.json", Workers: 2})
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []string{"beta:build"}, report.Failed())
	assert.Equal(t, nodestore.StatusSucceeded, report.Results["beta:test"].Status)
	assert.Contains(t, runner.Lines(), "test debug")
}

func TestApp_Run_SkipDependents(t *testing.T) {
	runner := testutil.NewFakeRunner(0, "make debug")
	a, _, _ := setupAppTest(t, runner, nil)
	mergeFixture(t, a)

	report, err := a.Run(context.Background(), RunOptions{MergedPath: "merged.json", Workers: 2, Policy: "skip-dependents"})
	require.NoError(t, err)
	assert.Equal(t, []string{"beta:test"}, report.Skipped())
	assert.NotContains(t, runner.Lines(), "test debug")
}

func TestApp_Run_Only(t *testing.T) {
	testCases := []struct {
		name     string
		withDeps bool
		want     []string
	}{
		{name: "alone", want: []string{"test release"}},
		{name: "with deps", withDeps: true, want: []string{"make release", "check", "test release"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			runner := testutil.NewFakeRunner(0)
			a, _, _ := setupAppTest(t, runner, nil)
			mergeFixture(t, a)

			_, err := a.Run(context.Background(), RunOptions{MergedPath: "merged.json", Workers: 1, Only: "alpha:test", WithDeps: tc.withDeps})
			require.NoError(t, err)
			assert.ElementsMatch(t, tc.want, runner.Lines())
		})
	}
}

func TestApp_Run_Errors(t *testing.T) {
	a, _, _ := setupAppTest(t, testutil.NewFakeRunner(0), nil)
	mergeFixture(t, a)
	ctx := context.Background()

	_, err := a.Run(ctx, RunOptions{MergedPath: "merged.json", Only: "alpha:nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alpha:nope")

	_, err = a.Run(ctx, RunOptions{MergedPath: "missing.json"})
	require.Error(t, err)

	_, err = a.Run(ctx, RunOptions{MergedPath: "merged.json", Mode: "sideways"})
	require.Error(t, err)

	_, err = a.Run(ctx, RunOptions{MergedPath: "merged.json", Policy: "panic"})
	require.Error(t, err)
}

func TestApp_CollectAndReport(t *testing.T) {
	a, dir, _ := setupAppTest(t, testutil.NewFakeRunner(0), map[string]string{
		"out/alpha/report.txt": "alpha ok\n",
	})
	mergeFixture(t, a)

	analyzed, err := a.Collect(context.Background(), CollectOptions{MergedPath: "merged.json", OutputPath: "analyzed.json"})
	require.NoError(t, err)

	want := map[string]model.Analysis{
		"alpha:build": {Status: model.AnalysisUnverified, Content: "alpha ok\n", Filename: "out/alpha/report.txt"},
		"beta:build":  {Status: model.AnalysisFailed, Content: "File not found", Filename: "out/beta/report.txt"},
	}
	assert.Equal(t, want, analyzed)

	onDisk, err := loader.LoadAnalyzed(filepath.Join(dir, "analyzed.json"))
	require.NoError(t, err)
	assert.Equal(t, want, onDisk)

	var out bytes.Buffer
	summary, err := a.Report(context.Background(), "analyzed.json", &out)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, []string{"beta:build"}, summary.FailedIDs)
	assert.Contains(t, out.String(), "beta:build")
}

func TestApp_HealthAndMetrics(t *testing.T) {
	a, _, _ := setupAppTest(t, testutil.NewFakeRunner(0), nil)
	mergeFixture(t, a)

	_, err := a.Run(context.Background(), RunOptions{MergedPath: "merged.json", Workers: 1, Mode: string(executor.ModeCommand)})
	require.NoError(t, err)

	handler := a.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `stagegrid_stages_total{mode="command",status="succeeded"} 4`)
	assert.Contains(t, body, "stagegrid_launch_duration_seconds")
	assert.Contains(t, body, "go_goroutines")
}

func TestApp_StartDisabled(t *testing.T) {
	a, _, _ := setupAppTest(t, testutil.NewFakeRunner(0), nil)
	require.NoError(t, a.Start())
	require.NoError(t, a.Close())
}

func TestApp_PathResolution(t *testing.T) {
	a, dir, _ := setupAppTest(t, testutil.NewFakeRunner(0), nil)
	assert.Equal(t, filepath.Join(dir, "x.json"), a.path("x.json"))
	abs := filepath.Join(os.TempDir(), "y.json")
	assert.Equal(t, abs, a.path(abs))
}

func TestApp_MergeExampleConfigs(t *testing.T) {
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)
	cfg, err := NewConfig(Config{BaseDir: root})
	require.NoError(t, err)
	a := NewApp(&testutil.SafeBuffer{}, cfg, WithRunner(testutil.NewFakeRunner(0)))

	out := t.TempDir()
	fromJSON, err := a.Merge(context.Background(), MergeOptions{
		StagesPath:  "configs/stages.json",
		TargetsPath: "configs/targets.json",
		OutputPath:  filepath.Join(out, "json.json"),
	})
	require.NoError(t, err)
	require.Len(t, fromJSON, 6)
	assert.Equal(t, "build/arm64", fromJSON["arm64:test"].Command.Directory())
	assert.Equal(t, []string{"arm64:compile"}, fromJSON["arm64:test"].After)
	assert.Contains(t, fromJSON["arm64:configure"].Command.Line(), "RelWithDebInfo")
	assert.Contains(t, fromJSON["x86_64:configure"].Command.Line(), "-DCMAKE_BUILD_TYPE=Release")

	fromHCL, err := a.Merge(context.Background(), MergeOptions{
		StagesPath:  "configs/stages.hcl",
		TargetsPath: "configs/targets.yaml",
		OutputPath:  filepath.Join(out, "hcl.json"),
	})
	require.NoError(t, err)
	for id, stage := range fromHCL {
		assert.Equal(t, stage.Variables, fromJSON[id].Variables, id)
		assert.Equal(t, stage.After, fromJSON[id].After, id)
	}
	assert.Equal(t, fromJSON["x86_64:test"], fromHCL["x86_64:test"])
}
