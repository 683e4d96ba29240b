package dag

import (
	"errors"
	"testing"

	"github.com/specialistvlad/stagegrid/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chain() map[string]model.ResolvedStage {
	return stages(map[string][]string{
		"T:A": nil,
		"T:B": {"T:A"},
		"T:C": {"T:B"},
	})
}

func TestSelect_WithDepsOnChain(t *testing.T) {
	out, err := Select(chain(), "T:B", true)
	require.NoError(t, err)

	assert.Len(t, out, 2)
	assert.Contains(t, out, "T:A")
	assert.Contains(t, out, "T:B")
	assert.NotContains(t, out, "T:C")
	assert.Equal(t, []string{"T:A"}, out["T:B"].After)
	for id, stage := range out {
		for _, name := range append(stage.Before, stage.After...) {
			assert.Contains(t, out, name, "dangling edge from %s", id)
		}
	}
}

func TestSelect_OnlyDropsEdges(t *testing.T) {
	out, err := Select(chain(), "T:B", false)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, []string{}, out["T:B"].After)
}

func TestSelect_FollowsReverseBefore(t *testing.T) {
	in := map[string]model.ResolvedStage{
		"T:setup": {Before: []string{"T:work"}},
		"T:dep":   {},
		"T:work":  {After: []string{"T:dep"}},
		"T:other": {},
	}

	out, err := Select(in, "T:work", true)
	require.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Contains(t, out, "T:setup")
	assert.Contains(t, out, "T:dep")
}

func TestSelect_DoesNotMutateInput(t *testing.T) {
	in := chain()
	in["T:A"] = model.ResolvedStage{Before: []string{"T:B", "T:C"}}

	_, err := Select(in, "T:B", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"T:B", "T:C"}, in["T:A"].Before)
	assert.Len(t, in, 3)
}

func TestSelect_UnknownStage(t *testing.T) {
	_, err := Select(chain(), "T:nope", true)

	var unknown *UnknownNodeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "T:nope", unknown.ID)
}
