package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "rvc-service/internal/app/errors"
)

// writeScript writes a shell script standing in for infer.py. Arguments arrive as
// $1=--input $2=<in> $3=--output $4=<out> [$5=--revision $6=<rev>].
func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "infer.py")
	require.NoError(t, os.WriteFile(path, []byte(body+"\n"), 0755))
	return path
}

func newShellRunner(timeout time.Duration) *ScriptRunner {
	return NewScriptRunner(ScriptRunnerConfig{Python: "/bin/sh", Timeout: timeout, StderrLimit: 64}, zap.NewNop())
}

func TestScriptRunner_Args(t *testing.T) {
	r := newShellRunner(0)
	assert.Equal(t,
		[]string{"infer.py", "--input", "in.wav", "--output", "out.wav"},
		r.Args("infer.py", "in.wav", "out.wav", ""))
	assert.Equal(t,
		[]string{"infer.py", "--input", "in.wav", "--output", "out.wav", "--revision", "v2"},
		r.Args("infer.py", "in.wav", "out.wav", "v2"))
}

func TestScriptRunner_Success(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, `printf "%s|%s" "$5" "$6" > "$4"`)
	out := filepath.Join(dir, "out.wav")

	err := newShellRunner(time.Minute).Run(context.Background(), "rvc", script, "in.wav", out, "v2")
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "--revision|v2", string(got))
}

func TestScriptRunner_RunsInScriptDir(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, `pwd > "$4"`)
	out := filepath.Join(t.TempDir(), "out.wav")

	require.NoError(t, newShellRunner(0).Run(context.Background(), "rvc", script, "in.wav", out, ""))
	got, err := os.ReadFile(out)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(strings.TrimSpace(string(got)))
	require.NoError(t, err)
	assert.Equal(t, want, gotDir)
}

func TestScriptRunner_FailureCapturesStderrTail(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, `i=0; while [ $i -lt 50 ]; do echo "noise line $i" >&2; i=$((i+1)); done; echo "fatal: weights missing" >&2; exit 3`)

	err := newShellRunner(time.Minute).Run(context.Background(), "freevc", script, "in.wav", filepath.Join(dir, "out.wav"), "")
	require.Error(t, err)

	var backendErr *BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, "freevc", backendErr.Backend)
	assert.Equal(t, "infer", backendErr.Op)
	assert.Contains(t, backendErr.Stderr, "fatal: weights missing")
	assert.LessOrEqual(t, len(backendErr.Stderr), 64)
	assert.Contains(t, err.Error(), "exit status 3")
}

func TestScriptRunner_EmptyOutput(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, `: > "$4"`)

	err := newShellRunner(0).Run(context.Background(), "rvc", script, "in.wav", filepath.Join(dir, "out.wav"), "")
	assert.True(t, errors.Is(err, apperrors.ErrEmptyOutput))
}

func TestScriptRunner_Timeout(t *testing.T) {
	dir := t.TempDir()
	script := writeScript(t, dir, `exec sleep 5`)

	start := time.Now()
	err := newShellRunner(100*time.Millisecond).Run(context.Background(), "rvc", script, "in.wav", filepath.Join(dir, "out.wav"), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestTailBuffer(t *testing.T) {
	b := newTailBuffer(5)
	b.Write([]byte("abc"))
	b.Write([]byte("defgh"))
	assert.Equal(t, "defgh", b.String())
}
