package utils_test

import (
	"testing"

	"github.com/jrsteele09/sop-console/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestToStringSlice(t *testing.T) {
	require.Equal(t, []string{"ADMIN", "USER"}, utils.ToStringSlice([]any{"ADMIN", 3, "USER", nil}))
	require.Empty(t, utils.ToStringSlice(nil))
}

func TestContainsFold(t *testing.T) {
	require.True(t, utils.ContainsFold("Kiểm tra MÁY nén", "máy"))
	require.True(t, utils.ContainsFold("anything", ""))
	require.False(t, utils.ContainsFold("compressor", "pump"))
}

func TestPointerHelpers(t *testing.T) {
	p := utils.Ptr(5)
	require.Equal(t, 5, utils.Value(p))

	var nilPtr *string
	require.Equal(t, "", utils.Value(nilPtr))
}

func TestCoalesce(t *testing.T) {
	a, b := utils.Ptr(int64(1)), utils.Ptr(int64(2))
	require.Equal(t, a, utils.Coalesce(nil, a, b))
	require.Equal(t, b, utils.Coalesce(nil, b))
	require.Nil(t, utils.Coalesce[int64](nil, nil))
}
