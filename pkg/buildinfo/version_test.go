package buildinfo

import "testing"

func TestTemplate(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	Version, Commit = "v1.2.3", "abc123"
	defer func() { Version, Commit = oldVersion, oldCommit }()

	want := "{{.Name}} v1.2.3 (commit abc123, built " + Date + ")\n"
	if got := Template(); got != want {
		t.Errorf("Template() = %q, want %q", got, want)
	}
	if got := Current(); got.Version != "v1.2.3" || got.Commit != "abc123" {
		t.Errorf("Current() = %+v", got)
	}
}
