package exec

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	platformerrors "github.com/jmgilman/sysfs/errors"
)

func TestShellRunner_Success(t *testing.T) {
	var runner Runner = NewShellRunner()

	result, err := runner.Run(context.Background(), "printf 'x\\ny\\n'")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, result.Lines)
	assert.Empty(t, result.ErrorMessage)
}

func TestShellRunner_Redirect(t *testing.T) {
	fs := memfs.New()
	runner := NewShellRunner(WithOutputFS(fs))

	result, err := runner.Run(context.Background(), "echo saved > /saved.txt")
	require.NoError(t, err)
	assert.Equal(t, "echo saved", result.Command)
	assert.Equal(t, "/saved.txt", result.OutPath)

	data, err := util.ReadFile(fs, "/saved.txt")
	require.NoError(t, err)
	assert.Equal(t, "saved\n", string(data))
}

func TestShellRunner_Failure(t *testing.T) {
	runner := NewShellRunner()

	result, err := runner.Run(context.Background(), "echo broken; exit 1")
	require.Error(t, err)
	require.NotNil(t, result)

	assert.Equal(t, platformerrors.CodeExecutionFailed, platformerrors.GetCode(err))

	var platformErr platformerrors.PlatformError
	require.ErrorAs(t, err, &platformErr)
	assert.Equal(t, "broken", platformErr.Context()["output"])
	assert.Equal(t, "echo broken; exit 1", platformErr.Context()["command"])
}

func TestShellRunner_Unavailable(t *testing.T) {
	runner := NewShellRunner(WithShellPath("/nonexistent/sh"))

	_, err := runner.Run(context.Background(), "echo hi")
	assert.Equal(t, platformerrors.CodeUnavailable, platformerrors.GetCode(err))
	assert.True(t, platformerrors.IsRetryable(err))
}

func TestShellRunner_Empty(t *testing.T) {
	_, err := NewShellRunner().Run(context.Background(), "")
	assert.Equal(t, platformerrors.CodeInvalidInput, platformerrors.GetCode(err))
}

func TestShellRunner_Timeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := NewShellRunner().Run(ctx, "sleep 5")
	assert.Equal(t, platformerrors.CodeTimeout, platformerrors.GetCode(err))
}
