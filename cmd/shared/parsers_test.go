package shared

import "testing"

func TestParseListenAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
		err   bool
	}{
		{input: "localhost:123", want: "localhost:123"},
		{input: "127.0.0.1:9000", want: "127.0.0.1:9000"},
		{input: ":123", want: ":123"},  // bind all interfaces
		{input: "*:123", want: ":123"}, // also all interfaces
		{input: "localhost:0", want: "localhost:0"},

		{input: "localhost:65536", err: true},
		{input: "localhost:999999999999999999", err: true},
		{input: "localhost:eighty", err: true},
		{input: "localhost:", err: true},
		{input: "localhost", err: true},
		{input: "ws://localhost:123", err: true},
		{input: "", err: true},
	}

	for _, tt := range tests {
		got, err := ParseListenAddress(tt.input)
		if (err != nil) != tt.err {
			t.Errorf("ParseListenAddress(%q) err = %v, want err=%t", tt.input, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseListenAddress(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseMirrorURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
		err   bool
	}{
		{input: "ws://localhost:123", want: "ws://localhost:123"},
		{input: "localhost:123", want: "ws://localhost:123"},
		{input: "ws://10.0.0.1:9000/", want: "ws://10.0.0.1:9000/"},

		{input: "wss://localhost:123", err: true},
		{input: "tcp://localhost:123", err: true},
		{input: "ws://localhost", err: true},
		{input: "ws://localhost:0", err: true},
		{input: "ws://localhost:65536", err: true},
		{input: "ws://:123", err: true},
		{input: "foobar", err: true},
		{input: "", err: true},
	}

	for _, tt := range tests {
		got, err := ParseMirrorURL(tt.input)
		if (err != nil) != tt.err {
			t.Errorf("ParseMirrorURL(%q) err = %v, want err=%t", tt.input, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMirrorURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
