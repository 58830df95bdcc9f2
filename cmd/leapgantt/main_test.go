package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapgantt/internal/cli"
)

func testdataDir(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Join(wd, "..", "..", "testdata")
}

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "LeapGantt")
}

func TestSummaryOfSampleSchedule(t *testing.T) {
	plan := filepath.Join(testdataDir(t), "plan.csv")
	t.Chdir(t.TempDir())

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--lang", "zh", "-o", "markdown", "summary", plan})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "- **总任务数**: 3")
	assert.Contains(t, buf.String(), "- **里程碑数**: 2")
	assert.Contains(t, buf.String(), "- **项目持续时间**: 35 天")
}

func TestUnknownCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"nope"})
	assert.Error(t, cmd.Execute())
}
