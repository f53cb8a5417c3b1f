package codec

import (
	"fmt"
	"testing"

	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultRequiring = []domain.TicketCategory{domain.Disabled, domain.Elder}

func TestGenerateIdentityKeys_CursorSkipsOtherCategories(t *testing.T) {
	counts := domain.TicketCounts{Adult: 1, Child: 0, Disabled: 2, Elder: 1, College: 0}

	keys := GenerateIdentityKeys(Describe(counts, defaultRequiring), "row:%d")

	require.Len(t, keys, 3)
	assert.Equal(t, IdentityKey{Key: "row:1", Position: 1, Category: domain.Disabled, Index: 0}, keys[0])
	assert.Equal(t, IdentityKey{Key: "row:2", Position: 2, Category: domain.Disabled, Index: 1}, keys[1])
	assert.Equal(t, IdentityKey{Key: "row:3", Position: 3, Category: domain.Elder, Index: 0}, keys[2])
}

func TestGenerateIdentityKeys_ChildrenShiftElderPositions(t *testing.T) {
	counts := domain.TicketCounts{Adult: 2, Child: 3, Elder: 2}

	keys := GenerateIdentityKeys(Describe(counts, defaultRequiring), PassengerIdentityKeyTemplate)

	require.Len(t, keys, 2)
	assert.Equal(t, fmt.Sprintf(PassengerIdentityKeyTemplate, 5), keys[0].Key)
	assert.Equal(t, fmt.Sprintf(PassengerIdentityKeyTemplate, 6), keys[1].Key)
}

func TestGenerateIdentityKeys_NoneRequired(t *testing.T) {
	counts := domain.TicketCounts{Adult: 2, College: 1}
	assert.Empty(t, GenerateIdentityKeys(Describe(counts, defaultRequiring), "row:%d"))
	assert.Empty(t, GenerateIdentityKeys(Describe(domain.TicketCounts{Elder: 3}, nil), "row:%d"))
}

func TestGenerateIdentityKeys_ConfigurableCategories(t *testing.T) {
	counts := domain.TicketCounts{Adult: 1, Child: 1, College: 1}

	keys := GenerateIdentityKeys(Describe(counts, []domain.TicketCategory{domain.College}), "row:%d")

	require.Len(t, keys, 1)
	assert.Equal(t, 2, keys[0].Position)
	assert.Equal(t, domain.College, keys[0].Category)
}

func TestDescribe_CanonicalOrder(t *testing.T) {
	descriptors := Describe(domain.TicketCounts{Adult: 1, Elder: 4}, defaultRequiring)

	require.Len(t, descriptors, 5)
	assert.Equal(t, CategoryDescriptor{Category: domain.Adult, Count: 1}, descriptors[0])
	assert.Equal(t, CategoryDescriptor{Category: domain.Disabled, RequiresIdentity: true}, descriptors[2])
	assert.Equal(t, CategoryDescriptor{Category: domain.Elder, RequiresIdentity: true, Count: 4}, descriptors[3])
}

func TestBindIdentities(t *testing.T) {
	keys := GenerateIdentityKeys(Describe(domain.TicketCounts{Adult: 1, Elder: 2}, defaultRequiring), "row:%d")
	record := domain.PassengerIdentityRecord{
		IdentityIDs: map[domain.TicketCategory][]string{domain.Elder: {"E1", "E2"}},
	}

	fields, err := BindIdentities(keys, record)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"row:1": "E1", "row:2": "E2"}, fields)
}

func TestBindIdentities_Missing(t *testing.T) {
	keys := GenerateIdentityKeys(Describe(domain.TicketCounts{Elder: 2}, defaultRequiring), "row:%d")
	record := domain.PassengerIdentityRecord{
		IdentityIDs: map[domain.TicketCategory][]string{domain.Elder: {"E1"}},
	}

	_, err := BindIdentities(keys, record)
	assert.ErrorIs(t, err, domain.ErrMissingIdentity)
}
