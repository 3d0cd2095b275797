package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes rootCmd with args in-process, capturing stdout. Tests in
// this file run sequentially (no t.Parallel) since they share rootCmd's
// package-level flag variables.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	origStdout := os.Stdout
	os.Stdout = w

	rootCmd.SetArgs(args)
	runErr := rootCmd.Execute()

	w.Close()
	os.Stdout = origStdout
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String(), runErr
}

func TestTinyTraceRoundTripBalanced(t *testing.T) {
	dir := t.TempDir()
	blocksPath := filepath.Join(dir, "blocks.cbor")
	manifestPath := filepath.Join(dir, "manifest.json")
	proofPath := filepath.Join(dir, "proof.cbor")

	_, err := runCLI(t, "simulate", "--t", "32", "--b", "8", "--tau", "2", "--out-blocks", blocksPath)
	require.NoError(t, err)

	_, err = runCLI(t, "commit", "--blocks", blocksPath, "--out", manifestPath)
	require.NoError(t, err)

	out, err := runCLI(t, "verify-commit", "--blocks", blocksPath, "--manifest", manifestPath)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: commit verified")

	_, err = runCLI(t, "prove", "--blocks", blocksPath, "--manifest", manifestPath, "--out", proofPath)
	require.NoError(t, err)

	out, err = runCLI(t, "verify", "--blocks", blocksPath, "--manifest", manifestPath, "--proof", proofPath)
	require.NoError(t, err)
	assert.Equal(t, "OK: proof verified\n", out)
}

func TestTinyTraceRoundTripMinRAM(t *testing.T) {
	dir := t.TempDir()
	blocksPath := filepath.Join(dir, "blocks.cbor")
	manifestPath := filepath.Join(dir, "manifest.json")
	proofPath := filepath.Join(dir, "proof.cbor")

	_, err := runCLI(t, "simulate", "--t", "32", "--b", "8", "--tau", "2", "--out-blocks", blocksPath)
	require.NoError(t, err)
	_, err = runCLI(t, "commit", "--blocks", blocksPath, "--out", manifestPath)
	require.NoError(t, err)

	_, err = runCLI(t, "prove", "--blocks", blocksPath, "--manifest", manifestPath, "--out", proofPath,
		"--fold-mode", "minram", "--fold-cache", "0")
	require.NoError(t, err)

	out, err := runCLI(t, "verify", "--blocks", blocksPath, "--manifest", manifestPath, "--proof", proofPath)
	require.NoError(t, err)
	assert.Equal(t, "OK: proof verified\n", out)
}

func TestWrapCadenceStillVerifies(t *testing.T) {
	dir := t.TempDir()
	blocksPath := filepath.Join(dir, "blocks.cbor")
	manifestPath := filepath.Join(dir, "manifest.json")
	proofPath := filepath.Join(dir, "proof.cbor")

	_, err := runCLI(t, "simulate", "--t", "64", "--b", "8", "--tau", "1", "--out-blocks", blocksPath)
	require.NoError(t, err)
	_, err = runCLI(t, "commit", "--blocks", blocksPath, "--out", manifestPath)
	require.NoError(t, err)

	_, err = runCLI(t, "prove", "--blocks", blocksPath, "--manifest", manifestPath, "--out", proofPath,
		"--wrap-cadence", "3")
	require.NoError(t, err)

	out, err := runCLI(t, "verify", "--blocks", blocksPath, "--manifest", manifestPath, "--proof", proofPath)
	require.NoError(t, err)
	assert.Equal(t, "OK: proof verified\n", out)
}

func TestStreamingEquivalence(t *testing.T) {
	dir := t.TempDir()
	blocksPath := filepath.Join(dir, "blocks.cbor")
	jsonlPath := filepath.Join(dir, "blocks.jsonl")
	manifestPath := filepath.Join(dir, "manifest.json")

	_, err := runCLI(t, "simulate", "--t", "40", "--b", "8", "--tau", "1", "--out-blocks", blocksPath)
	require.NoError(t, err)
	_, err = runCLI(t, "export-jsonl", "--input", blocksPath, "--output", jsonlPath)
	require.NoError(t, err)

	manifestA := filepath.Join(manifestPath + ".a")
	manifestB := filepath.Join(manifestPath + ".b")
	_, err = runCLI(t, "commit", "--blocks", blocksPath, "--out", manifestA)
	require.NoError(t, err)
	_, err = runCLI(t, "commit", "--blocks", jsonlPath, "--out", manifestB, "--stream")
	require.NoError(t, err)

	ra, _ := os.ReadFile(manifestA)
	rb, _ := os.ReadFile(manifestB)
	assert.JSONEq(t, string(ra), string(rb))
}

func TestTamperingDetection(t *testing.T) {
	dir := t.TempDir()
	blocksPath := filepath.Join(dir, "blocks.json")
	manifestPath := filepath.Join(dir, "manifest.json")
	proofPath := filepath.Join(dir, "proof.cbor")

	_, err := runCLI(t, "simulate", "--t", "24", "--b", "8", "--tau", "1", "--out-blocks", blocksPath)
	require.NoError(t, err)
	_, err = runCLI(t, "commit", "--blocks", blocksPath, "--out", manifestPath)
	require.NoError(t, err)
	_, err = runCLI(t, "prove", "--blocks", blocksPath, "--manifest", manifestPath, "--out", proofPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(blocksPath)
	require.NoError(t, err)
	tampered := strings.Replace(string(raw), `"block_id":2`, `"block_id":9`, 1)
	require.NotEqual(t, string(raw), tampered)
	require.NoError(t, os.WriteFile(blocksPath, []byte(tampered), 0o644))

	_, err = runCLI(t, "verify-commit", "--blocks", blocksPath, "--manifest", manifestPath)
	require.Error(t, err)

	_, err = runCLI(t, "verify", "--blocks", blocksPath, "--manifest", manifestPath, "--proof", proofPath)
	require.Error(t, err)
}

func TestStarkBackendNotImplemented(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, "prove", "--backend", "stark",
		"--blocks", filepath.Join(dir, "x.json"),
		"--manifest", filepath.Join(dir, "m.json"),
		"--out", filepath.Join(dir, "p.cbor"))
	require.Error(t, err)
}
