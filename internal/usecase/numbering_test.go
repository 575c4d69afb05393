package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberingConfig_Format(t *testing.T) {
	tests := []struct {
		name string
		cfg  NumberingConfig
		year int
		seq  int
		want string
	}{
		{"default", DefaultNumberingConfig(), 2026, 1, "INV-2026-0001"},
		{"short year", NumberingConfig{Prefix: "F", YearFormat: YearFormatShort, SequenceLength: 3, Separator: "/"}, 2026, 42, "F/26/042"},
		{"overflow keeps digits", NumberingConfig{Prefix: "INV", YearFormat: YearFormatLong, SequenceLength: 2, Separator: "-"}, 2026, 123, "INV-2026-123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Format(tt.year, tt.seq))
		})
	}
}

func TestNumberingConfig_Sequence(t *testing.T) {
	cfg := DefaultNumberingConfig()
	n, ok := cfg.Sequence("INV-2026-0042", 2026)
	require.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = cfg.Sequence("INV-2025-0042", 2026)
	assert.False(t, ok)
	_, ok = cfg.Sequence("CUSTOM-1", 2026)
	assert.False(t, ok)
}

func TestNumberingConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultNumberingConfig().Validate())
	assert.ErrorIs(t, NumberingConfig{YearFormat: "Y", SequenceLength: 4}.Validate(), ErrInvalidNumberingConfig)
	assert.ErrorIs(t, NumberingConfig{YearFormat: "YY", SequenceLength: 0}.Validate(), ErrInvalidNumberingConfig)
}

func TestContractNumberer_Monotonic(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	n := NewContractNumberer(func() time.Time { return fixed })

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		num := n.Next()
		assert.Regexp(t, `^CON-2026-\d{6}$`, num)
		assert.False(t, seen[num], "duplicate %s", num)
		seen[num] = true
	}
}
