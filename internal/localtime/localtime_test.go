package localtime_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jrsteele09/sop-console/internal/localtime"
	"github.com/stretchr/testify/require"
)

func TestTimeJSON(t *testing.T) {
	localtime.Location = time.UTC
	t.Cleanup(func() { localtime.Location = time.Local })

	var got struct {
		A localtime.Time  `json:"a"`
		B *localtime.Time `json:"b"`
		C localtime.Time  `json:"c"`
		D localtime.Time  `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2025-03-14T09:30:00","b":"2025-03-14T09:30:00.123456","c":null,"d":"2025-03-14"}`), &got))

	require.Equal(t, time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC), got.A.Time)
	require.Equal(t, 123456000, got.B.Nanosecond())
	require.True(t, got.C.IsZero())
	require.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), got.D.Time)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	require.JSONEq(t, `{"a":"2025-03-14T09:30:00","b":"2025-03-14T09:30:00","c":null,"d":"2025-03-14T00:00:00"}`, string(out))

	require.Error(t, json.Unmarshal([]byte(`{"a":"yesterday"}`), &got))
	require.Equal(t, "2025-03-14 09:30", got.A.String())
}
