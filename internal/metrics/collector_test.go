package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_StageLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "stagegrid")

	c.StageStarted("all")
	c.StageStarted("all")
	assert.Equal(t, 2.0, testutil.ToFloat64(c.stagesInFlight.WithLabelValues("all")))

	c.StageFinished("all", "succeeded", 2*time.Second)
	c.StageFinished("all", "failed", time.Second)
	c.StageFinished("all", "skipped", 0)

	assert.Equal(t, 0.0, testutil.ToFloat64(c.stagesInFlight.WithLabelValues("all")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.stagesTotal.WithLabelValues("all", "succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.stagesTotal.WithLabelValues("all", "skipped")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.stageDuration), "skipped stages are not observed")
}

func TestCollector_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "stagegrid")
	c.StageFinished("post", "failed", time.Second)

	expected := `
# HELP stagegrid_stages_total Total number of stages that reached a terminal state
# TYPE stagegrid_stages_total counter
stagegrid_stages_total{mode="post",status="failed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "stagegrid_stages_total"))
}

func TestCollector_LaunchFinished(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "stagegrid")
	c.LaunchFinished("command", 3*time.Second)
	assert.Equal(t, 1, testutil.CollectAndCount(c.launchDuration))
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.StageStarted("all")
	r.StageFinished("all", "succeeded", time.Second)
	r.LaunchFinished("all", time.Second)
}
