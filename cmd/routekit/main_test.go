package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/routekit/internal/config"
	"github.com/vyrodovalexey/routekit/internal/observability"
	"github.com/vyrodovalexey/routekit/internal/util"
	"github.com/vyrodovalexey/routekit/pkg/qs"
	"github.com/vyrodovalexey/routekit/pkg/route"
)

const testRoutesYAML = `name: test
routes:
  home: /
  profile: /user/:id
  more: /more/:slug/:second?
  files: /files/*
  search: /search
  flag: /flag/:enabled
`

// writeRoutesFile writes a route table file into a temp dir.
func writeRoutesFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// runCommand executes the root command against configPath.
func runCommand(t *testing.T, configPath, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", configPath, "--log-level", "error"}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := runCommand(t, "unused.yaml", "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)

	out, err = runCommand(t, "unused.yaml", "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "routekit version dev")
	assert.Contains(t, out, "Git commit: unknown")
}

func TestPrepareCmd(t *testing.T) {
	path := writeRoutesFile(t, testRoutesYAML)

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "named parameter", args: []string{"profile", "id=42"}, expected: "/user/42"},
		{name: "root", args: []string{"home"}, expected: "/"},
		{name: "optional omitted", args: []string{"more", "slug=abc"}, expected: "/more/abc"},
		{name: "splat", args: []string{"files", "dir=docs", "file=a.txt"}, expected: "/files/docs/a.txt"},
		{
			name:     "query",
			args:     []string{"search", "--query", "q=shoes", "--query", "page=2"},
			expected: "/search?page=2&q=shoes",
		},
		{
			name:     "campaign tags",
			args:     []string{"home", "--utm-source", "newsletter", "--utm-campaign", "spring"},
			expected: "/?utm_campaign=spring&utm_source=newsletter",
		},
		{
			name:     "query wins over campaign tag",
			args:     []string{"search", "-q", "utm_source=ads", "--utm-source", "newsletter", "--utm-medium", "email"},
			expected: "/search?utm_medium=email&utm_source=ads",
		},
		{
			name:     "repeated query key",
			args:     []string{"search", "-q", "tag=a", "-q", "tag=b"},
			expected: "/search?tag%5B0%5D=a&tag%5B1%5D=b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, path, "", append([]string{"prepare"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected+"\n", out)
		})
	}
}

func TestPrepareCmd_Errors(t *testing.T) {
	path := writeRoutesFile(t, testRoutesYAML)

	_, err := runCommand(t, path, "", "prepare", "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, route.ErrUnknownRoute))

	_, err = runCommand(t, path, "", "prepare", "profile", "id")
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrInvalidInput))

	_, err = runCommand(t, path, "", "prepare", "search", "--query", "=x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrInvalidInput))

	_, err = runCommand(t, path, "", "prepare")
	assert.Error(t, err)
}

func TestParseCmd(t *testing.T) {
	path := writeRoutesFile(t, testRoutesYAML)

	out, err := runCommand(t, path, "", "parse", "/user/42?tab=posts")
	require.NoError(t, err)
	assert.Contains(t, out, "route: profile\n")
	assert.Contains(t, out, "params:\n  id: 42\n")
	assert.Contains(t, out, "query:\n  tab: posts\n")

	out, err = runCommand(t, path, "", "parse", "/more/abc")
	require.NoError(t, err)
	assert.Contains(t, out, "route: more\n")
	assert.Contains(t, out, "slug: abc")
	assert.NotContains(t, out, "query:")

	out, err = runCommand(t, path, "", "parse", "/flag/TRUE")
	require.NoError(t, err)
	assert.Contains(t, out, "route: flag\n")
	assert.Contains(t, out, "enabled: true")

	out, err = runCommand(t, path, "", "parse", "https://example.com/files/a/b.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "route: files\n")
	assert.Contains(t, out, "- a\n")
	assert.Contains(t, out, "- b.txt\n")

	_, err = runCommand(t, path, "", "parse", "/nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errNoRoute))
}

func TestMatchCmd(t *testing.T) {
	path := writeRoutesFile(t, testRoutesYAML)

	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{name: "app path", args: []string{"/user/42"}, expected: "true"},
		{name: "absolute url", args: []string{"https://example.com/search?q=x"}, expected: "true"},
		{name: "unknown path", args: []string{"/nope"}, expected: "false"},
		{name: "template", args: []string{"--template", "/files/*", "/files/a/b"}, expected: "true"},
		{name: "template mismatch", args: []string{"-t", "/user/:id", "/files/a"}, expected: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, path, "", append([]string{"match"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected+"\n", out)
		})
	}
}

func TestCheckCmd(t *testing.T) {
	path := writeRoutesFile(t, testRoutesYAML)

	out, err := runCommand(t, path, "", "check")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[2], "profile")
	assert.Contains(t, lines[2], "direct")
	assert.Contains(t, lines[4], "files")
	assert.Contains(t, lines[4], "translated")
	assert.Contains(t, lines[4], "/files{/*path}")
}

func TestCheckCmd_Failures(t *testing.T) {
	path := writeRoutesFile(t, `routes:
  ok: /user/:id
  broken: /x/(y
`)

	out, err := runCommand(t, path, "", "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 routes failed to compile")
	assert.Contains(t, out, "failed")
}

func TestConfigErrors(t *testing.T) {
	_, err := runCommand(t, filepath.Join(t.TempDir(), "missing.yaml"), "", "match", "/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrNotFound))

	path := writeRoutesFile(t, "routes: {}\n")
	_, err = runCommand(t, path, "", "match", "/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrConfigInvalid))

	path = writeRoutesFile(t, testRoutesYAML)
	_, err = runCommand(t, path, "", "--log-level", "loud", "match", "/")
	assert.Error(t, err)
}

func TestWatchCmd_ResolvesStdin(t *testing.T) {
	path := writeRoutesFile(t, testRoutesYAML)

	out, err := runCommand(t, path, "/user/42\n\n/nope\n  /files/a/b  \n", "watch")
	require.NoError(t, err)
	assert.Equal(t, "/user/42\tprofile\n/nope\t-\n/files/a/b\tfiles\n", out)
}

func TestWatchCmd_MetricsAddr(t *testing.T) {
	path := writeRoutesFile(t, testRoutesYAML)

	out, err := runCommand(t, path, "/\n", "watch", "--metrics-addr", "127.0.0.1:0")
	require.NoError(t, err)
	assert.Equal(t, "/\thome\n", out)
}

func TestWatchCmd_BadMetricsAddr(t *testing.T) {
	path := writeRoutesFile(t, testRoutesYAML)

	_, err := runCommand(t, path, "", "watch", "--metrics-addr", "localhost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrInvalidInput))
}

func TestLiveRoutes_Apply(t *testing.T) {
	cfg, err := config.LoadConfigFromReader(strings.NewReader(testRoutesYAML))
	require.NoError(t, err)

	live := &liveRoutes{logger: observability.NopLogger()}
	initial, err := newRoutes(cfg, live.logger, nil)
	require.NoError(t, err)
	live.current.Store(initial)

	_, ok := live.current.Load().ParseHref("/about")
	assert.False(t, ok)

	next, err := config.LoadConfigFromReader(strings.NewReader("routes:\n  about: /about\n"))
	require.NoError(t, err)
	live.apply(next)

	result, ok := live.current.Load().ParseHref("/about")
	require.True(t, ok)
	assert.Equal(t, "about", result.Route)

	bad := &config.Config{Routes: config.Routes{{Name: "a", Template: "/a"}, {Name: "a", Template: "/b"}}}
	live.apply(bad)
	assert.True(t, live.current.Load().IsAppPath("/about"))
}

func TestParseQuery(t *testing.T) {
	query, err := parseQuery(nil)
	require.NoError(t, err)
	assert.Nil(t, query)

	query, err = parseQuery([]string{"a=1", "b=2", "a=3", "a=4", "c="})
	require.NoError(t, err)
	assert.Equal(t, []any{"1", "3", "4"}, query["a"])
	assert.Equal(t, "2", query["b"])
	assert.Equal(t, "", query["c"])
}

func TestWithCampaign(t *testing.T) {
	query, err := withCampaign(nil, campaign{})
	require.NoError(t, err)
	assert.Nil(t, query)

	query, err = withCampaign(nil, campaign{Source: "a", Medium: "b", Campaign: "c"})
	require.NoError(t, err)
	assert.Equal(t, qs.Values{"utm_source": "a", "utm_medium": "b", "utm_campaign": "c"}, query)
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("ROUTEKIT_TEST_VALUE", "set")
	assert.Equal(t, "set", getEnvOrDefault("ROUTEKIT_TEST_VALUE", "default"))
	assert.Equal(t, "default", getEnvOrDefault("ROUTEKIT_TEST_UNSET", "default"))
}
