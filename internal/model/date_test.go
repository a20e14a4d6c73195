package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-04-15")
	require.NoError(t, err)
	require.Equal(t, "2024-04-15", d.String())

	_, err = ParseDate("2024/04/15")
	require.Error(t, err)
}

func TestDateAfter(t *testing.T) {
	planting := NewDate(2024, 4, 15)
	require.True(t, NewDate(2024, 9, 15).After(planting))
	// 同一天不算晚于
	require.False(t, NewDate(2024, 4, 15).After(planting))
	require.False(t, NewDate(2024, 3, 1).After(planting))
}

func TestDateJSON(t *testing.T) {
	raw, err := json.Marshal(NewDate(2024, 4, 15))
	require.NoError(t, err)
	require.Equal(t, `"2024-04-15"`, string(raw))

	// 零值序列化为 null
	raw, err = json.Marshal(Date{})
	require.NoError(t, err)
	require.Equal(t, `null`, string(raw))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-09-15"`), &d))
	require.Equal(t, "2024-09-15", d.String())
}

func TestDateScan(t *testing.T) {
	var d Date
	// mysql 驱动返回 time.Time
	require.NoError(t, d.Scan(time.Date(2024, 4, 15, 8, 30, 0, 0, time.Local)))
	require.Equal(t, "2024-04-15", d.String())

	// sqlite 存字符串，可能带时间部分
	require.NoError(t, d.Scan("2024-04-15 00:00:00"))
	require.Equal(t, "2024-04-15", d.String())

	require.NoError(t, d.Scan(nil))
	require.True(t, d.IsZero())
}
