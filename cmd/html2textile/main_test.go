package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin *strings.Reader, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	var code int
	if stdin == nil {
		code = run(args, nil, &stdout, &stderr)
	} else {
		code = run(args, stdin, &stdout, &stderr)
	}
	return code, stdout.String(), stderr.String()
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunConvertsFileToStdout(t *testing.T) {
	path := writeTemp(t, "in.html", "<p>hi</p>")
	code, out, errOut := runCLI(t, nil, path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "\r\n\r\np. hi", out)
}

func TestRunFileURL(t *testing.T) {
	path := writeTemp(t, "in.html", "<i>x</i>")
	code, out, errOut := runCLI(t, nil, "file://"+path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, " _x_ ", out)
}

func TestRunHTTPInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<a href="http://x.com">link</a>`))
	}))
	defer srv.Close()
	code, out, errOut := runCLI(t, nil, srv.URL)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, ` "link":http://x.com `, out)
}

func TestRunWritesPositionalOutput(t *testing.T) {
	in := writeTemp(t, "in.html", "<b>bold</b>")
	outPath := filepath.Join(t.TempDir(), "nested", "out.textile")
	code, out, errOut := runCLI(t, nil, in, outPath)
	require.Equal(t, 0, code, errOut)
	assert.Empty(t, out)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, " *bold* ", string(data))
}

func TestRunOutputFlag(t *testing.T) {
	in := writeTemp(t, "in.html", "<sup>2</sup>")
	outPath := filepath.Join(t.TempDir(), "out.textile")
	code, _, errOut := runCLI(t, nil, "-o", outPath, in)
	require.Equal(t, 0, code, errOut)
	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, " ^2^ ", string(data))
}

func TestRunOutputGivenTwice(t *testing.T) {
	in := writeTemp(t, "in.html", "x")
	code, _, _ := runCLI(t, nil, "-o", "a.textile", in, "b.textile")
	assert.Equal(t, 2, code)
}

func TestRunReadsStdin(t *testing.T) {
	code, out, errOut := runCLI(t, strings.NewReader("<code>x</code>"))
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, " @x@ ", out)

	code, out, errOut = runCLI(t, strings.NewReader("<s>x</s>"), "-")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, " -x- ", out)
}

func TestRunWithoutInputPrintsUsage(t *testing.T) {
	code, out, errOut := runCLI(t, nil)
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Equal(t, usageLine+"\n", errOut)
}

func TestRunMissingInputFile(t *testing.T) {
	code, _, errOut := runCLI(t, nil, filepath.Join(t.TempDir(), "missing.html"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "open input")
}

func TestRunAllowTagFlags(t *testing.T) {
	in := writeTemp(t, "in.html", `<div lang="en" class="c">x</div>`)
	code, out, errOut := runCLI(t, nil, "--allow-tag", "div", "--allow-attr", "lang", in)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, `<div lang="en">x</div>`, out)
}

func TestRunAllowListFile(t *testing.T) {
	list := writeTemp(t, "allow.yaml", "tags: [kbd]\n")
	in := writeTemp(t, "in.html", "<kbd>K</kbd>")
	code, out, errOut := runCLI(t, nil, "--allow-list", list, in)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "<kbd>K</kbd>", out)

	code, _, errOut = runCLI(t, nil, "--allow-list", filepath.Join(t.TempDir(), "none.yaml"), in)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "load allow-list")
}

func TestRunStrict(t *testing.T) {
	in := writeTemp(t, "in.html", "<p>open")
	code, out, errOut := runCLI(t, nil, in)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "\r\n\r\np. open", out)

	code, _, errOut = runCLI(t, nil, "--strict", in)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "incomplete document")
}

func TestRunVerboseLogsDroppedTags(t *testing.T) {
	in := writeTemp(t, "in.html", "<div>x</div>")
	code, out, errOut := runCLI(t, nil, "-v", in)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "x", out)
	assert.Contains(t, errOut, "unknown tag dropped")
}

func TestRunVersion(t *testing.T) {
	code, out, _ := runCLI(t, nil, "--version")
	assert.Equal(t, 0, code)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestRunBadFlag(t *testing.T) {
	code, _, errOut := runCLI(t, nil, "--no-such-flag")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "no-such-flag")
}
