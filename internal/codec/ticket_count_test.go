package codec

import (
	"math"
	"strconv"
	"testing"

	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketCount_RoundTrip(t *testing.T) {
	for _, c := range domain.TicketCategories() {
		suffix, err := TicketSuffix(c)
		require.NoError(t, err)
		for _, n := range []int{0, 1, 2, 9, 10, 255, 1 << 20, math.MaxInt32, math.MaxInt32 + 1, 1 << 40, math.MaxInt} {
			encoded := EncodeTicketCount(n, suffix)
			decoded, err := DecodeTicketCount(encoded, suffix)
			require.NoError(t, err, encoded)
			assert.Equal(t, n, decoded, encoded)
		}
	}
}

func TestEncodeTicketCount(t *testing.T) {
	assert.Equal(t, "1F", EncodeTicketCount(1, "F"))
	assert.Equal(t, "0P", EncodeTicketCount(0, "P"))
}

func TestDecodeTicketCount_Malformed(t *testing.T) {
	testCases := []struct {
		name   string
		value  string
		suffix string
	}{
		{name: "suffix mismatch", value: "3X", suffix: "F"},
		{name: "empty numeric prefix", value: "F", suffix: "F"},
		{name: "shorter than suffix", value: "", suffix: "F"},
		{name: "negative", value: "-1F", suffix: "F"},
		{name: "signed", value: "+1F", suffix: "F"},
		{name: "not a number", value: "aF", suffix: "F"},
		{name: "suffix only in the middle", value: "1F1", suffix: "F"},
		{name: "overflows int", value: "99999999999999999999F", suffix: "F"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeTicketCount(tc.value, tc.suffix)
			assert.ErrorIs(t, err, domain.ErrMalformedCount)
		})
	}
}

func TestDecodeTicketCount_OutOfRangeMessage(t *testing.T) {
	value := strconv.FormatUint(uint64(math.MaxInt)+1, 10) + "F"

	_, err := DecodeTicketCount(value, "F")

	require.ErrorIs(t, err, domain.ErrMalformedCount)
	assert.Contains(t, err.Error(), "out of range")
}

func TestTicketSuffix(t *testing.T) {
	want := map[domain.TicketCategory]string{
		domain.Adult:    "F",
		domain.Child:    "H",
		domain.Disabled: "W",
		domain.Elder:    "E",
		domain.College:  "P",
	}
	for c, suffix := range want {
		got, err := TicketSuffix(c)
		require.NoError(t, err)
		assert.Equal(t, suffix, got, c.String())
	}

	_, err := TicketSuffix(domain.TicketCategory(9))
	assert.ErrorIs(t, err, domain.ErrUnknownCode)
}

func TestTicketRowField(t *testing.T) {
	field, err := TicketRowField(domain.Elder)
	require.NoError(t, err)
	assert.Equal(t, "ticketPanel:rows:3:ticketAmount", field)

	_, err = TicketRowField(domain.TicketCategory(-1))
	assert.ErrorIs(t, err, domain.ErrUnknownCode)
}
