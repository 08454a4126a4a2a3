package revcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntryIsStale(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		created   time.Time
		lifetime  time.Duration
		wantStale bool
	}{
		{
			name:      "zero lifetime",
			created:   now,
			lifetime:  0,
			wantStale: true,
		},
		{
			name:      "non-zero lifetime",
			created:   now,
			lifetime:  time.Second,
			wantStale: false,
		},
		{
			name:      "created in past, stale",
			created:   now.Add(-time.Minute),
			lifetime:  30 * time.Second,
			wantStale: true,
		},
		{
			name:      "created in past, not stale",
			created:   now.Add(-time.Minute),
			lifetime:  2 * time.Minute,
			wantStale: false,
		},
		{
			name:      "age equal to lifetime is stale",
			created:   now.Add(-time.Minute),
			lifetime:  time.Minute,
			wantStale: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := CacheEntry[bool]{
				Data:    new(bool),
				Created: tt.created,
			}
			assert.Equal(t, tt.wantStale, e.IsStale(now, tt.lifetime))
		})
	}
}

func TestEntryAge(t *testing.T) {
	now := time.Now()
	e := CacheEntry[string]{Created: now.Add(-time.Minute)}
	assert.Equal(t, time.Minute, e.Age(now))
}
