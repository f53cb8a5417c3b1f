package codec

import (
	"fmt"
	"slices"

	"github.com/Domenick1991/thsrbook/internal/domain"
)

// PassengerIdentityKeyTemplate addresses the identity number input of the
// passenger at a given position among all purchased tickets.
const PassengerIdentityKeyTemplate = "TicketPassengerInfoInputPanel:passengerDataView:%d:passengerDataView2:passengerDataIdNumber"

// CategoryDescriptor is one ticket row as seen by the positional key fold.
type CategoryDescriptor struct {
	Category         domain.TicketCategory
	RequiresIdentity bool
	Count            int
}

// IdentityKey is a positional form key for one passenger needing an
// identity document. Index counts passengers within the category.
type IdentityKey struct {
	Key      string
	Position int
	Category domain.TicketCategory
	Index    int
}

// Describe lays the counts out in canonical category order, flagging the
// categories that require identity documents.
func Describe(counts domain.TicketCounts, requiring []domain.TicketCategory) []CategoryDescriptor {
	categories := domain.TicketCategories()
	out := make([]CategoryDescriptor, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryDescriptor{
			Category:         c,
			RequiresIdentity: slices.Contains(requiring, c),
			Count:            counts.Get(c),
		})
	}
	return out
}

// GenerateIdentityKeys folds over descriptors left to right. Every ticket
// occupies a position, so the cursor advances past categories that need no
// identity document as well.
func GenerateIdentityKeys(descriptors []CategoryDescriptor, template string) []IdentityKey {
	var keys []IdentityKey
	cursor := 0
	for _, d := range descriptors {
		if d.RequiresIdentity {
			for i := 0; i < d.Count; i++ {
				keys = append(keys, IdentityKey{
					Key:      fmt.Sprintf(template, cursor+i),
					Position: cursor + i,
					Category: d.Category,
					Index:    i,
				})
			}
		}
		cursor += d.Count
	}
	return keys
}

// BindIdentities resolves every key against the record's per-category IDs.
func BindIdentities(keys []IdentityKey, record domain.PassengerIdentityRecord) (map[string]string, error) {
	fields := make(map[string]string, len(keys))
	for _, k := range keys {
		ids := record.IdentityIDs[k.Category]
		if k.Index >= len(ids) || ids[k.Index] == "" {
			return nil, fmt.Errorf("%w: %s passenger #%d", domain.ErrMissingIdentity, k.Category, k.Index+1)
		}
		fields[k.Key] = ids[k.Index]
	}
	return fields, nil
}
