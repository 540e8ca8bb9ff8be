package cmd

import (
	"bytes"
	"encoding/json"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runVersionCommand(t *testing.T, args ...string) string {
	t.Helper()
	root := newRootCommand()
	registerSubcommands(root)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"version"}, args...))
	require.NoError(t, root.Execute())
	return out.String()
}

func TestVersionCommand(t *testing.T) {
	out := runVersionCommand(t)
	assert.True(t, strings.HasPrefix(out, "specex dev\n"), out)
	assert.Contains(t, out, "Platform: "+runtime.GOOS+"/"+runtime.GOARCH)
	assert.NotContains(t, out, "Engine:")
}

func TestVersionCommand_Extended(t *testing.T) {
	out := runVersionCommand(t, "--extended")
	assert.Contains(t, out, "Engine: github.com/piprate/json-gold")
	assert.Contains(t, out, "Processing mode: json-ld-1.1")
}

func TestVersionCommand_JSON(t *testing.T) {
	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(runVersionCommand(t, "--json")), &info))
	assert.Equal(t, "dev", info["version"])
	assert.Equal(t, runtime.Version(), info["goVersion"])
	assert.NotContains(t, info, "engine")

	info = nil
	require.NoError(t, json.Unmarshal([]byte(runVersionCommand(t, "--json", "--extended")), &info))
	assert.Equal(t, "github.com/piprate/json-gold", info["engine"])
	assert.Equal(t, "json-ld-1.1", info["processingMode"])
}
