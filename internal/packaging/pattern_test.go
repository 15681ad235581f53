package packaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolate(t *testing.T) {
	vars := Vars{
		Platform:       "linux",
		TargetOS:       "android",
		TargetCPU:      "arm64",
		Branch:         "branch-heads-6478",
		Revision:       "abc1234def5678",
		RevisionNumber: "42001",
		DebianArch:     "arm64",
		ShortRevision:  "abc1234",
	}

	tests := []struct {
		name    string
		pattern string
		want    string
	}{
		{
			name:    "short revision pattern",
			pattern: "webrtc-%sr%-%to%-%tc%",
			want:    "webrtc-abc1234-android-arm64",
		},
		{
			name:    "all tokens",
			pattern: "%p%_%to%_%tc%_%b%_%r%_%rn%_%da%_%sr%",
			want:    "linux_android_arm64_branch-heads-6478_abc1234def5678_42001_arm64_abc1234",
		},
		{
			name:    "no tokens is idempotent",
			pattern: "plain-name.tar.xz",
			want:    "plain-name.tar.xz",
		},
		{
			name:    "repeated token replaced everywhere",
			pattern: "%to%-%to%-%to%",
			want:    "android-android-android",
		},
		{
			name:    "unknown token left verbatim",
			pattern: "webrtc-%sr%-%unknown%",
			want:    "webrtc-abc1234-%unknown%",
		},
		{
			name:    "empty pattern",
			pattern: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Interpolate(tt.pattern, vars))
		})
	}
}
