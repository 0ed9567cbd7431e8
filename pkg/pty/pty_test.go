package pty

import (
	"math"
	"reflect"
	"testing"
)

func TestTerminalSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		size TerminalSize
		rows int
		cols int
	}{
		{
			name: "standard terminal",
			size: TerminalSize{Rows: 24, Cols: 80},
			rows: 24,
			cols: 80,
		},
		{
			name: "wide terminal",
			size: TerminalSize{Rows: 40, Cols: 120},
			rows: 40,
			cols: 120,
		},
		{
			name: "zero values",
			size: TerminalSize{Rows: 0, Cols: 0},
			rows: 0,
			cols: 0,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if tc.size.Rows != tc.rows {
				t.Errorf("Rows = %d, want %d", tc.size.Rows, tc.rows)
			}
			if tc.size.Cols != tc.cols {
				t.Errorf("Cols = %d, want %d", tc.size.Cols, tc.cols)
			}
		})
	}
}

func TestClamp16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   int
		want uint16
	}{
		{-5, 0},
		{0, 0},
		{80, 80},
		{math.MaxUint16, math.MaxUint16},
		{math.MaxUint16 + 10, math.MaxUint16},
	}

	for _, tc := range tests {
		if got := clamp16(tc.in); got != tc.want {
			t.Errorf("clamp16(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		display string
		want    []string
	}{
		{"no display", "", []string{"TERM=dumb"}},
		{"with display", ":0", []string{"TERM=dumb", "DISPLAY=:0"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Environment(tc.display); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Environment(%q) = %v, want %v", tc.display, got, tc.want)
			}
		})
	}
}
