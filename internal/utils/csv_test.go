package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertToCSV(t *testing.T) {
	rows := []map[string]interface{}{
		{"a": float64(1), "b": "x,y"},
	}
	got := ConvertToCSV(rows, []string{"a", "b"})
	require.Equal(t, "a,b\n1,\"x,y\"\n", got)
}

func TestConvertToCSVEscaping(t *testing.T) {
	tests := []struct {
		name string
		rows []map[string]interface{}
		want string
	}{
		{
			name: "quotes are doubled",
			rows: []map[string]interface{}{{"v": `say "hi"`}},
			want: "v\n\"say \"\"hi\"\"\"\n",
		},
		{
			name: "newline forces quoting",
			rows: []map[string]interface{}{{"v": "line1\nline2"}},
			want: "v\n\"line1\nline2\"\n",
		},
		{
			name: "nil becomes empty field",
			rows: []map[string]interface{}{{"v": nil}},
			want: "v\n\n",
		},
		{
			name: "missing key becomes empty field",
			rows: []map[string]interface{}{{}},
			want: "v\n\n",
		},
		{
			name: "whole float renders as int",
			rows: []map[string]interface{}{{"v": float64(42)}},
			want: "v\n42\n",
		},
		{
			name: "fractional float keeps decimals",
			rows: []map[string]interface{}{{"v": 3.14}},
			want: "v\n3.14\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ConvertToCSV(tt.rows, []string{"v"}))
		})
	}
}

func TestConvertToCSVEmptyRows(t *testing.T) {
	got := ConvertToCSV(nil, []string{"a", "b"})
	require.Equal(t, "a,b\n", got)
}
