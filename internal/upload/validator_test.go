package upload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		filenames  []string
		want       string
		wantReason Reason
	}{
		{
			name:      "plain pdf",
			filenames: []string{"report.pdf"},
			want:      "report.pdf",
		},
		{
			name:      "uppercase extension",
			filenames: []string{"REPORT.PDF"},
			want:      "REPORT.PDF",
		},
		{
			name:      "first file wins, extras ignored",
			filenames: []string{"a.pdf", "b.txt", "c.doc"},
			want:      "a.pdf",
		},
		{
			name:       "empty selection",
			filenames:  nil,
			wantReason: ReasonEmptySelection,
		},
		{
			name:       "wrong extension",
			filenames:  []string{"notes.txt"},
			wantReason: ReasonInvalidExtension,
		},
		{
			name:       "first file wrong even if second is pdf",
			filenames:  []string{"notes.txt", "report.pdf"},
			wantReason: ReasonInvalidExtension,
		},
		{
			name:       "pdf in the middle of the name",
			filenames:  []string{"report.pdf.exe"},
			wantReason: ReasonInvalidExtension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.filenames)
			if tt.wantReason != "" {
				var verr *ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tt.wantReason, verr.Reason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
