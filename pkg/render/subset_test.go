package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-filtertags/pkg/filtertags"
	"github.com/goliatone/go-filtertags/pkg/render"
)

func TestParseTokenList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "Skills, isActive ,skills", want: []string{"skills", "isactive"}},
		{in: `["Date-Range", "scalar", 3]`, want: []string{"date-range", "scalar"}},
		{in: "[broken", want: []string{"[broken"}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, render.ParseTokenList(tc.in)); diff != "" {
			t.Fatalf("ParseTokenList(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestTagSubset_Apply(t *testing.T) {
	tags, _ := usersFixture()
	keys := func(tags []filtertags.Tag) []string {
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			out = append(out, tag.Key)
		}
		return out
	}

	if !(render.TagSubset{}).Empty() {
		t.Fatalf("zero subset should be empty")
	}
	if diff := cmp.Diff([]string{"skills[js]", "skills[go]", "isActive"}, keys(render.TagSubset{}.Apply(tags))); diff != "" {
		t.Fatalf("empty subset mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"isActive"}, keys(render.ParseTagSubset("", "scalar", "").Apply(tags))); diff != "" {
		t.Fatalf("kind subset mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"isActive"}, keys(render.ParseTagSubset("", "", "skills").Apply(tags))); diff != "" {
		t.Fatalf("exclude subset mismatch (-want +got):\n%s", diff)
	}
}
