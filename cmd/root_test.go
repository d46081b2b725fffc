package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
facilities:
  - {id: P1, capacity: 50, cost: 10, proximity: 0.9, traffic: 0.8, preference: 0.7, demand: 40}
  - {id: P2, capacity: 30, cost: 7, proximity: 0.7, traffic: 0.5, preference: 0.9, demand: 20}
  - {id: P3, capacity: 20, cost: 5, proximity: 0.5, traffic: 0.3, preference: 0.6, demand: 10}
logging:
  level: error
`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	format, outputPath = "", ""

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(append([]string{"-c", path}, args...))
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func TestAllocateDefault(t *testing.T) {
	out := execute(t)
	assert.Equal(t, "Optimal allocation of cars:\nP1: 25 cars\nP2: 25 cars\nP3: 20 cars\n", out)
}

func TestAllocateCSVToFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.csv")
	out := execute(t, "allocate", "-f", "csv", "-o", dst)
	assert.Empty(t, out)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "exact,P3,20")
}

func TestWeights(t *testing.T) {
	out := execute(t, "weights")
	assert.Contains(t, out, "FACILITY")
	assert.Contains(t, out, "10.600")
	assert.Contains(t, out, "7.700")
	assert.Contains(t, out, "5.400")
}
