package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errBase = stderrors.New("base")

func TestWrapKeepsCode(t *testing.T) {
	err := Wrap(InvalidInput("bad rows"), "cleaning")
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "cleaning: bad rows", err.Error())

	assert.Equal(t, CodeInternalError, GetCode(Wrap(errBase, "x")))
	assert.Nil(t, Wrap(nil, "x"))
	assert.Nil(t, Wrapf(nil, "x %d", 1))
}

func TestStageFailedChain(t *testing.T) {
	cause := InvalidInputCause("dataset has no rows", errBase)
	err := StageFailed("cleaning", cause)

	assert.Equal(t, CodeStageFailed, GetCode(err))
	assert.True(t, HasCode(err, CodeInvalidInput))
	assert.True(t, stderrors.Is(err, errBase))
	assert.Contains(t, err.Error(), "stage cleaning failed")
	assert.Contains(t, err.Error(), "dataset has no rows")
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("report"))
	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(errBase))
	assert.False(t, HasCode(errBase, CodeNotFound))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeDatabaseError, errBase)
	assert.Equal(t, CodeDatabaseError, GetCode(err))
	assert.True(t, stderrors.Is(err, errBase))
}
