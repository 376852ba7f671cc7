package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func setBuild(t *testing.T, version, commit string) {
	t.Helper()
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })
	Version, Commit = version, commit
}

func TestDefaultsAreDevelopmentBuild(t *testing.T) {
	assert.Equal(t, "development", Version)
	assert.Equal(t, "unknown", Commit)
	assert.Equal(t, "development", String())
	assert.Equal(t, "appwish/development", UserAgent())
}

func TestBuildMetadata(t *testing.T) {
	tests := []struct {
		name      string
		version   string
		commit    string
		want      string
		wantAgent string
	}{
		{"local build", "development", "unknown", "development", "appwish/development"},
		{"release", "1.2.0", "abc1234", "1.2.0+abc1234", "appwish/1.2.0+abc1234"},
		{"release without commit", "1.2.0", "unknown", "1.2.0", "appwish/1.2.0"},
		{"empty commit flag", "1.2.0", "", "1.2.0", "appwish/1.2.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBuild(t, tt.version, tt.commit)
			assert.Equal(t, tt.want, String())
			assert.Equal(t, tt.wantAgent, UserAgent())
		})
	}
}
