package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	got := String()
	for _, want := range []string{"gdsr " + Version, "commit: " + Commit, "built: " + Date, "stream version: 600"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version {{.Version}}\n") || !strings.HasSuffix(got, "stream version: 600\n") {
		t.Errorf("Template() = %q", got)
	}
}
