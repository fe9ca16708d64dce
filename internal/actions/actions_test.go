package actions

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func newTestRunner(t *testing.T, env map[string]string) (*Runner, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	var stdout bytes.Buffer
	return &Runner{
		Stdout:      &stdout,
		OutputPath:  filepath.Join(dir, "output"),
		SummaryPath: filepath.Join(dir, "summary.md"),
		Lookup:      mapLookup(env),
	}, &stdout
}

func TestInput(t *testing.T) {
	r, _ := newTestRunner(t, map[string]string{
		"INPUT_BOMRECORDID":      "  bom-1 ",
		"INPUT_MY_SPACED_OPTION": "x",
	})

	assert.Equal(t, "bom-1", r.Input("bomRecordId"))
	assert.Equal(t, "x", r.Input("my spaced option"))
	assert.Equal(t, "", r.Input("missing"))
}

func TestDetected(t *testing.T) {
	r, _ := newTestRunner(t, map[string]string{"GITHUB_ACTIONS": "true"})
	assert.True(t, r.Detected())

	r, _ = newTestRunner(t, nil)
	assert.False(t, r.Detected())
}

func TestSetOutput_HeredocFormat(t *testing.T) {
	r, _ := newTestRunner(t, nil)

	require.NoError(t, r.SetOutput("statusState", "complete"))
	require.NoError(t, r.SetOutput("apiResponseObject", "{\n\"a\":1\n}"))

	data, err := os.ReadFile(r.OutputPath)
	require.NoError(t, err)

	re := regexp.MustCompile(`(?s)^statusState<<(ghadelimiter_[0-9a-f-]+)\ncomplete\n(ghadelimiter_[0-9a-f-]+)\napiResponseObject<<(ghadelimiter_[0-9a-f-]+)\n\{\n"a":1\n\}\n(ghadelimiter_[0-9a-f-]+)\n$`)
	m := re.FindStringSubmatch(string(data))
	require.NotNil(t, m, "unexpected output file:\n%s", data)
	assert.Equal(t, m[1], m[2])
	assert.Equal(t, m[3], m[4])
	assert.NotEqual(t, m[1], m[3])
}

func TestSetOutput_DisabledWithoutPath(t *testing.T) {
	r := &Runner{Lookup: mapLookup(nil)}
	assert.NoError(t, r.SetOutput("statusState", "timeout"))
	assert.NoError(t, r.AppendSummary("# hi"))
}

func TestAppendSummary(t *testing.T) {
	r, _ := newTestRunner(t, nil)

	require.NoError(t, r.AppendSummary("## one"))
	require.NoError(t, r.AppendSummary("two\n"))

	data, err := os.ReadFile(r.SummaryPath)
	require.NoError(t, err)
	assert.Equal(t, "## one\ntwo\n", string(data))
}

func TestWorkflowCommands(t *testing.T) {
	r, stdout := newTestRunner(t, nil)

	r.Warning("50% done\nnext line")
	r.Error("failed")
	r.Debug("attempt 1")

	assert.Equal(t, "::warning::50%25 done%0Anext line\n::error::failed\n::debug::attempt 1\n", stdout.String())
}
