package challenge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksChallenged(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "verification wall",
			text: "jobs.af\nVerifying you are human. This may take a few seconds.",
			want: true,
		},
		{
			name: "just a moment",
			text: "Just a moment...",
			want: true,
		},
		{
			name: "browser check",
			text: "Checking your browser before accessing the site",
			want: true,
		},
		{
			name: "connection security",
			text: "jobs.af needs to review the security of your connection before proceeding.",
			want: true,
		},
		{
			name: "real listing content",
			text: "23 Available Jobs\nSenior Data Engineer\nKabul",
			want: false,
		},
		{
			name: "empty",
			text: "",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksChallenged(tt.text))
		})
	}
}
