package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Executes(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{name: "release", version: "1.2.0", want: "paperdex version 1.2.0"},
		{name: "dev build", version: "dev", want: "paperdex version dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			originalVersion := version
			version = tt.version
			defer func() { version = originalVersion }()

			buf := new(bytes.Buffer)
			rootCmd.SetOut(buf)
			rootCmd.SetArgs([]string{"version"})
			defer rootCmd.SetArgs(nil)

			err := rootCmd.Execute()

			assert.NoError(t, err)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
