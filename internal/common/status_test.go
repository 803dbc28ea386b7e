package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOrdering(t *testing.T) {
	assert.Less(t, StatusSent.Rank(), StatusDelivered.Rank())
	assert.Less(t, StatusDelivered.Rank(), StatusRead.Rank())
	assert.Equal(t, -1, Status("unknown").Rank())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		want        Status
		expectError bool
	}{
		{name: "sent", raw: "sent", want: StatusSent},
		{name: "delivered", raw: "delivered", want: StatusDelivered},
		{name: "read", raw: "read", want: StatusRead},
		{name: "empty", raw: "", expectError: true},
		{name: "unknown value", raw: "seen", expectError: true},
		{name: "wrong case", raw: "Read", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.raw)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBodyPreview(t *testing.T) {
	short := "hello"
	assert.Equal(t, short, BodyPreview(short))

	exactly50 := strings.Repeat("a", 50)
	assert.Equal(t, exactly50, BodyPreview(exactly50))

	long := strings.Repeat("a", 51)
	preview := BodyPreview(long)
	assert.Equal(t, strings.Repeat("a", 50)+"…", preview)

	// Truncation counts runes, not bytes.
	multibyte := strings.Repeat("ü", 60)
	assert.Equal(t, strings.Repeat("ü", 50)+"…", BodyPreview(multibyte))
}
