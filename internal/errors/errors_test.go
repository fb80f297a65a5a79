package errors

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	inner := stderrors.New("no such file")
	err := Wrap(inner, CodeModelNotFound, "model artifact missing", CategoryPermanent)

	assert.Equal(t, "[MODEL_NOT_FOUND] model artifact missing: no such file", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, CategoryPermanent, GetCategory(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeConfigInvalid, "x", CategoryUser))
}

func TestHasCodeThroughChain(t *testing.T) {
	base := NewBuilder(CodeUnknownModel, "unknown model").
		User().
		WithSuggestion("run `baymax models`").
		WithContext("model", "gpt-9").
		Build()
	outer := Wrap(base, CodeConfigInvalid, "config invalid", CategoryUser)

	assert.True(t, HasCode(outer, CodeUnknownModel))
	assert.True(t, HasCode(outer, CodeConfigInvalid))
	assert.False(t, HasCode(outer, CodeModelNotFound))
	assert.Equal(t, CodeConfigInvalid, GetCode(outer))
	assert.Equal(t, []string{"run `baymax models`"}, GetSuggestions(outer))
}

func TestFormatUserMessage(t *testing.T) {
	err := NewBuilder(CodeModelNotFound, "model file not found").
		Permanent().
		WithSuggestion("download the model").
		Build()

	msg := FormatUserMessage(err)
	assert.Contains(t, msg, "model file not found")
	assert.Contains(t, msg, "Suggestions:")
	assert.Contains(t, msg, "download the model")

	assert.Equal(t, "plain", FormatUserMessage(stderrors.New("plain")))
	assert.Empty(t, FormatUserMessage(nil))
}

func TestFallbackWithResult(t *testing.T) {
	got, err := FallbackWithResult(
		func() (string, error) { return "", stderrors.New("backend down") },
		func(error) (string, error) { return "fallback", nil },
	)
	require.NoError(t, err)
	assert.Equal(t, "fallback", got)
}

func TestWithContextResultAbandonsWait(t *testing.T) {
	release := make(chan struct{})
	done := make(chan struct{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := WithContextResult(ctx, func() (int, error) {
		defer close(done)
		<-release
		return 1, nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The computation is still running and finishes on its own.
	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("abandoned computation never finished")
	}
}
