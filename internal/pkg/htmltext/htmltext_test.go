package htmltext

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain paragraph",
			in:   "<html><body><p>hello world</p></body></html>",
			want: "hello world",
		},
		{
			name: "drops script and style",
			in:   `<html><head><title>x</title><style>p{}</style></head><body><script>var a=1;</script><p>kept</p></body></html>`,
			want: "kept",
		},
		{
			name: "collapses whitespace and newlines",
			in:   "<div>one\n\n   two\t three</div>",
			want: "one two three",
		},
		{
			name: "nested markup",
			in:   "<div><span>a</span> <b>b</b><ul><li>c</li><li>d</li></ul></div>",
			want: "a b c d",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "bare text without markup",
			in:   "just text",
			want: "just text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean([]byte(tt.in)); got != tt.want {
				t.Errorf("Clean() = %q, want %q", got, tt.want)
			}
		})
	}
}
