package version

import "testing"

func withVersion(t *testing.T, v, commit string) {
	t.Helper()
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() {
		Version, Commit = origVersion, origCommit
	})
	Version, Commit = v, commit
}

func TestString(t *testing.T) {
	withVersion(t, "1.2.3", "abc1234")

	if got, want := String(), "1.2.3 (abc1234)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestUserAgent(t *testing.T) {
	withVersion(t, "dev", "unknown")

	if got, want := UserAgent(), "bingo-client/dev"; got != want {
		t.Errorf("UserAgent() = %q, want %q", got, want)
	}
}

func TestDefaultValues(t *testing.T) {
	// Note: These might be overwritten by ldflags in production builds
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if Commit == "" {
		t.Error("Commit should not be empty")
	}
}
