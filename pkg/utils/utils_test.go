package utils

import (
	"reflect"
	"testing"
)

func TestSplitJoinPath(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"", []string{}},
		{"::", []string{}},
		{"a", []string{"a"}},
		{"::a::b", []string{"a", "b"}},
		{"N::C::m", []string{"N", "C", "m"}},
	}
	for _, tt := range tests {
		got := SplitPath(tt.path)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
	if got := JoinPath([]string{"N", "C"}); got != "N::C" {
		t.Errorf("JoinPath = %q", got)
	}
	if got := JoinPath(nil); got != "::" {
		t.Errorf("JoinPath(nil) = %q", got)
	}
}

func TestIsQualifiedName(t *testing.T) {
	tests := map[string]bool{
		"x":            true,
		"_x1":          true,
		"N::x":         true,
		"::N::x":       true,
		"C::~C":        true,
		"vec<int>::at": true,
		"1x":           false,
		"a b":          false,
		"a::":          true,
		"~C::x":        false,
		"":             false,
		"x+y":          false,
	}
	for name, want := range tests {
		if got := IsQualifiedName(name); got != want {
			t.Errorf("IsQualifiedName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestRemoveTemplateParams(t *testing.T) {
	if got := RemoveTemplateParams("map<int, vector<int>>::iterator"); got != "map::iterator" {
		t.Errorf("got %q", got)
	}
}
