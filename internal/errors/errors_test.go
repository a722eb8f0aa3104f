package errors_test

import (
	"fmt"
	"testing"

	consoleerrors "github.com/jrsteele09/sop-console/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	require.NoError(t, consoleerrors.Wrapf(nil, "upload %s", "a.pdf"))

	err := consoleerrors.Wrapf(consoleerrors.ErrFileTooLarge, "upload %s", "a.pdf")
	require.EqualError(t, err, "upload a.pdf: file exceeds the upload limit")
	require.True(t, consoleerrors.Is(err, consoleerrors.ErrFileTooLarge))
	require.False(t, consoleerrors.Is(err, consoleerrors.ErrNotFound))

	// The stack is only printed with %+v.
	require.Contains(t, fmt.Sprintf("%+v", err), "TestWrapf")
}

type codedError struct{ code int }

func (e *codedError) Error() string { return fmt.Sprint(e.code) }

func TestAs(t *testing.T) {
	err := consoleerrors.Wrapf(&codedError{code: 413}, "upload")
	var target *codedError
	require.True(t, consoleerrors.As(err, &target))
	require.Equal(t, 413, target.code)
}
