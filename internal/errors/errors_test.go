package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"apgcal/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestWrapMapsDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"parse", core.NewParseError("4 header lines"), CodeParseError},
		{"lookup", core.NewColumnLookupError("(V)", nil), CodeColumnLookup},
		{"mode", core.ErrUnknownMode, CodeInvalidInput},
		{"other", stderrors.New("disk on fire"), CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, "loading table")
			assert.Equal(t, tt.code, GetCode(wrapped))
			assert.True(t, stderrors.Is(wrapped, tt.err))
		})
	}
}

func TestWrapKeepsAppErrorCode(t *testing.T) {
	inner := InvalidInput("volts must be a number")
	outer := Wrapf(inner, "query %d", 3)

	assert.Equal(t, CodeInvalidInput, GetCode(outer))
	assert.Equal(t, "query 3: volts must be a number", outer.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"app error", InvalidInput("bad"), CodeInvalidInput},
		{"bare method sentinel", fmt.Errorf("%w: %q", core.ErrUnknownMethod, "cubic"), CodeInvalidInput},
		{"bare format sentinel", core.ErrUnknownFormat, CodeInvalidInput},
		{"bare parse error", core.NewParseError("x"), CodeParseError},
		{"plain error", fmt.Errorf("boom"), CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("boom")))
}
