package preset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePreset() domain.Preset {
	return domain.Preset{
		Booking: domain.BookingDraft{
			StartStation: domain.Nangang,
			DestStation:  domain.Zuoying,
			OutboundDate: "2025/01/21",
			OutboundTime: "930A",
			Tickets:      domain.TicketCounts{Adult: 1, Elder: 1},
		},
		TicketConfirmation: domain.PassengerIdentityRecord{
			PersonalID: "A123456789",
			Phone:      "0912345678",
			IdentityIDs: map[domain.TicketCategory][]string{
				domain.Elder: {"B223456789"},
			},
		},
	}
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "presets.json"))

	presets, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, presets)
	assert.NotNil(t, presets)
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "presets.json")
	store := NewFileStore(path)

	require.NoError(t, Append(ctx, store, samplePreset()))
	require.NoError(t, Append(ctx, store, samplePreset()))

	presets, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, presets, 2)
	assert.Equal(t, samplePreset(), presets[1])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"start_station": "Nangang"`)
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestSelect(t *testing.T) {
	presets := []domain.Preset{samplePreset()}

	p, err := Select(presets, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Nangang, p.Booking.StartStation)

	for _, index := range []int{0, 2, -1} {
		_, err := Select(presets, index)
		assert.True(t, errors.Is(err, domain.ErrPresetNotFound), "index %d", index)
	}
}
