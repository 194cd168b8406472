package parsers

import (
	"errors"
	"testing"
)

func TestParseReply(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "  The Form 4 is a great fit.  ", want: "The Form 4 is a great fit."},
		{name: "markdown", in: "The **Form 4** costs `$5,849`.", want: "The Form 4 costs $5,849."},
		{name: "link", in: "See [our page](https://formlabs.com) for more.", want: "See our page for more."},
		{name: "bullets", in: "Options:\n- Form 4\n- Form 4L", want: "Options: Form 4 Form 4L"},
		{name: "speaker prefix", in: "Agent: Happy to help!", want: "Happy to help!"},
		{name: "wrapped quotes", in: "“Would a quote help?”", want: "Would a quote help?"},
		{name: "inner quotes kept", in: `He said "hi" and "bye"`, want: `He said "hi" and "bye"`},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseReply(tc.in)
			if err != nil {
				t.Fatalf("ParseReply() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("ParseReply() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseReplyEmpty(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "**", "\n# \n"} {
		if _, err := ParseReply(in); !errors.Is(err, ErrEmptyReply) {
			t.Fatalf("ParseReply(%q) error = %v, want ErrEmptyReply", in, err)
		}
	}
}
