package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := errors.New("connection refused")
	err := fmt.Errorf("load records: %w", Network("fetch data.csv", base))

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, kind)
	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRetryableOnlyForNetwork(t *testing.T) {
	assert.True(t, Retryable(Network("fetch", errors.New("timeout"))))
	assert.False(t, Retryable(Parse("csv", errors.New("bad quote"))))
	assert.False(t, Retryable(Storage("save rules", errors.New("disk full"))))
	assert.False(t, Retryable(errors.New("plain")))
	assert.False(t, Retryable(nil))
}

func TestErrorWithoutCause(t *testing.T) {
	err := &Error{Kind: KindStorage, Op: "save rules"}
	assert.Equal(t, "save rules: storage error", err.Error())
	assert.True(t, IsKind(err, KindStorage))
}
