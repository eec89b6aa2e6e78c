package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/kvapi/kverrors"
)

func TestRequireOneSource(t *testing.T) {
	tests := []struct {
		name    string
		sources []Source
		want    string
	}{
		{
			name:    "one",
			sources: []Source{{"WithFilePath", false}, {"WithBytes", true}},
		},
		{
			name:    "none of three",
			sources: []Source{{"WithFilePath", false}, {"WithReader", false}, {"WithBytes", false}},
			want:    "configuration error for input source: parser: must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		},
		{
			name:    "none of two",
			sources: []Source{{"WithFilePath", false}, {"WithBytes", false}},
			want:    "(use WithFilePath or WithBytes)",
		},
		{
			name:    "two set",
			sources: []Source{{"WithFilePath", true}, {"WithReader", false}, {"WithBytes", true}},
			want:    "configuration error for input source (value: WithFilePath, WithBytes): parser: must specify exactly one input source",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireOneSource("parser", tt.sources...)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, errors.Is(err, kverrors.ErrConfig))
		})
	}
}
