package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/surfacenav"
)

func TestParse_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	command, shouldExit, err := Parse(nil, out)
	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, command)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_Build(t *testing.T) {
	t.Parallel()

	command, shouldExit, err := Parse([]string{"build", "-config", "a.yaml", "-out", "a.snav", "-log-level", "DEBUG"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, CommandBuild, command.Name)
	assert.Equal(t, BuildArgs{ConfigPath: "a.yaml", OutPath: "a.snav"}, command.Build)
	assert.Equal(t, "debug", command.LogLevel)
	assert.Equal(t, "text", command.LogFormat)
}

func TestParse_Path(t *testing.T) {
	t.Parallel()

	command, _, err := Parse([]string{"path", "-grid", "a.snav", "-from", "1,2,3", "-to", " -4.5, 0 ,1e2"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, surfacenav.Vec3{X: 1, Y: 2, Z: 3}, command.Path.From)
	assert.Equal(t, surfacenav.Vec3{X: -4.5, Y: 0, Z: 100}, command.Path.To)
}

func TestParse_ServeDefaults(t *testing.T) {
	t.Parallel()

	command, _, err := Parse([]string{"serve", "-config", "a.yaml"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, ServeArgs{ConfigPath: "a.yaml", Addr: ":8080", MaxSteps: 20000}, command.Serve)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string][]string{
		"unknown command":  {"frobnicate"},
		"unknown flag":     {"build", "-config", "a.yaml", "-nope"},
		"missing config":   {"build"},
		"missing grid":     {"path", "-from", "0,0,0", "-to", "0,0,0"},
		"bad vector":       {"path", "-grid", "a.snav", "-from", "0,0", "-to", "0,0,0"},
		"bad log format":   {"serve", "-config", "a.yaml", "-log-format", "xml"},
		"bad log level":    {"serve", "-config", "a.yaml", "-log-level", "loud"},
		"stray argument":   {"build", "-config", "a.yaml", "extra"},
		"zero step budget": {"serve", "-config", "a.yaml", "-max-steps", "0"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, shouldExit, err := Parse(args, &bytes.Buffer{})
			require.Error(t, err)
			assert.False(t, shouldExit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		})
	}
}

func TestParseVec(t *testing.T) {
	t.Parallel()

	v, err := ParseVec("0.5,-1,2")
	require.NoError(t, err)
	assert.Equal(t, surfacenav.Vec3{X: 0.5, Y: -1, Z: 2}, v)

	for _, value := range []string{"", "1,2", "1,2,3,4", "a,b,c", "NaN,0,0", "Inf,0,0"} {
		_, err := ParseVec(value)
		assert.Error(t, err, value)
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	logger := NewLogger("warn", "json", out)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `"msg":"shown"`)
}
