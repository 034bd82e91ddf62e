package binding

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		t.Fatalf("invalid test data: %v", err)
	}
	return data
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"user":{"handle":"ana","tags":["sun","sea"]},"count":3,"empty":null}`)
	cases := []struct {
		in, want string
	}{
		{"@${user.handle}", "@ana"},
		{"${user.tags[1]} x${count}", "sea x3"},
		{"${user.missing}", "${user.missing}"},
		{"${user.missing|anon}", "anon"},
		{"${empty|none}", "none"},
		{"${user.handle|anon}", "ana"},
		{"${ }", "${ }"},
		{"no placeholders", "no placeholders"},
	}
	for _, tc := range cases {
		if got := Interpolate(tc.in, data); got != tc.want {
			t.Fatalf("Interpolate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInterpolateWithoutData(t *testing.T) {
	if got := Interpolate("by ${author|unknown} ${x}", nil); got != "by unknown ${x}" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestMissing(t *testing.T) {
	data := decode(t, `{"a":{"b":1}}`)
	got := Missing("${a.b} ${a.c} ${d|x} ${e[0]}", data)
	if want := []string{"a.c", "e[0]"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Missing = %v, want %v", got, want)
	}
}
