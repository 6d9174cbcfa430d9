package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_Apply(t *testing.T) {
	in := writeCSV(t, "id,value\n1,1\n2,2\n3,3\n4,4.5\n")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := run([]string{"-in", in, "-col", "1", "-header", "-workers", "2", "-transport", "inline", "-env", ""}, stdout, stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "1\n4\n9\n20.25\n", stdout.String())
}

func TestRun_Rolling(t *testing.T) {
	in := writeCSV(t, "1\n2\n3\n4\n5\n")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := run([]string{"-op", "rolling", "-in", in, "-window", "2", "-workers", "2", "-transport", "inline", "-env", ""}, stdout, stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, []string{"NaN", "1.5", "2.5", "3.5", "4.5"}, strings.Fields(stdout.String()))
}

func TestRun_TSV(t *testing.T) {
	in := writeCSV(t, "a\t-2\nb\t3\n")
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := run([]string{"-in", in, "-col", "1", "-tsv", "-transport", "inline", "-env", ""}, stdout, stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "4\n9\n", stdout.String())
}

func TestRun_Errors(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	assert.Equal(t, 2, run([]string{}, stdout, stderr))

	in := writeCSV(t, "1\n")
	assert.Equal(t, 2, run([]string{"-op", "median", "-in", in, "-transport", "inline", "-env", ""}, stdout, stderr))
	assert.Equal(t, 3, run([]string{"-in", in, "-transport", "carrier-pigeon", "-env", ""}, stdout, stderr))
	assert.Equal(t, 1, run([]string{"-in", filepath.Join(t.TempDir(), "missing.csv"), "-transport", "inline", "-env", ""}, stdout, stderr))
}
