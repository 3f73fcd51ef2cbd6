package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameEmail(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{"identical", "a@x.com", "a@x.com", true},
		{"ascii case", "Jane@X.com", "jane@x.COM", true},
		{"surrounding space", " jane@x.com ", "jane@x.com", true},
		{"different", "jane@x.com", "john@x.com", false},
		{"kelvin sign does not fold", "\u212Aelvin@x.com", "kelvin@x.com", false},
		{"long s does not fold", "a@x.\u017f\u017f", "a@x.ss", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.same, SameEmail(tt.a, tt.b))
		})
	}
}

func TestEmailKey(t *testing.T) {
	assert.Equal(t, "jane@x.com", EmailKey("  JANE@X.Com "))
	assert.Equal(t, "\u212Aelvin@x.com", EmailKey("\u212AELVIN@x.com"))
}
