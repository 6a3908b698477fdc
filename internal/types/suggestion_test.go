package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicable(t *testing.T) {
	tests := []struct {
		status VerificationStatus
		want   bool
	}{
		{StatusVerified, true},
		{StatusPlausible, true},
		{StatusNeedsConfirmation, false},
		{StatusRejected, false},
		{VerificationStatus("unlabeled"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			s := AISuggestion{VerificationStatus: tt.status}
			assert.Equal(t, tt.want, s.Applicable())
		})
	}
}
