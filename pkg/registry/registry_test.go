package registry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costume-studio/internal/common/validation"
)

func TestDefaultRegistry_IsValid(t *testing.T) {
	reg := DefaultRegistry()
	require.NoError(t, reg.Validate())
	assert.Len(t, reg.Activities, 8)

	for _, task := range []string{
		TaskGenerateDesign, TaskGenerateGarmentAsset, TaskEditGarmentImage, TaskGenerateVirtualFit,
		TaskAnalyzeFitCompatibility, TaskGenerateStressTestVideo, TaskTranscribeAudio, TaskAnalyzeVideo,
	} {
		a, ok := reg.Find(task)
		require.True(t, ok, task)
		assert.True(t, a.InputSchema.AdditionalProperties, task)
		d, err := a.TimeoutDuration()
		require.NoError(t, err)
		assert.Greater(t, d, time.Duration(0))
	}
}

func TestDefaultRegistry_SchemasAcceptProcessScope(t *testing.T) {
	a, _ := DefaultRegistry().Find(TaskEditGarmentImage)

	result := validation.ValidateInput(map[string]interface{}{
		"imageKey":     "artifact:1b4e28ba",
		"directive":    "make the collar higher",
		"otherProcess": 42,
	}, a.InputSchema)
	assert.True(t, result.Valid, result.GetErrorMessages())

	result = validation.ValidateInput(map[string]interface{}{
		"imageKey":  "data:image/png;base64,AAAA",
		"directive": "",
	}, a.InputSchema)
	assert.False(t, result.Valid)
	assert.True(t, result.HasErrors("directive"))
}

func TestDefaultRegistry_DesignBriefRequiredFields(t *testing.T) {
	a, _ := DefaultRegistry().Find(TaskGenerateDesign)

	result := validation.ValidateInput(map[string]interface{}{
		"brief": map[string]interface{}{"projectType": "film"},
	}, a.InputSchema)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.GetErrorsForField("brief"))
}

func TestLoadRegistry_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, DefaultRegistry().Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegistry(), loaded)
}

func TestLoadRegistry_RejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	body := `{"version":"1","activities":[{"id":"a","taskType":"x"},{"id":"b","taskType":"x"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := LoadRegistry(path)
	assert.ErrorContains(t, err, "duplicate taskType")
}

func TestLoadRegistry_RejectsBadTimeout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	body := `{"activities":[{"id":"a","taskType":"x","timeout":"soon"}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := LoadRegistry(path)
	assert.ErrorContains(t, err, "invalid timeout")
}

func TestResolve_FallsBackToDefaults(t *testing.T) {
	var nilRegistry *ActivityRegistry
	a := nilRegistry.Resolve(TaskAnalyzeVideo)
	assert.Equal(t, TaskAnalyzeVideo, a.TaskType)

	custom := &ActivityRegistry{Activities: []Activity{{ID: "x", TaskType: TaskAnalyzeVideo, Timeout: "30s"}}}
	assert.Equal(t, "30s", custom.Resolve(TaskAnalyzeVideo).Timeout)
	assert.Equal(t, "3m", custom.Resolve(TaskGenerateDesign).Timeout)
}
