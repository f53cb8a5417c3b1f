package codec

import (
	"fmt"

	"github.com/Domenick1991/thsrbook/internal/domain"
)

// ordinalTable maps enumeration values to the integers the booking site
// uses on the wire. Wire codes never depend on declaration order.
type ordinalTable[T comparable] struct {
	kind   string
	codes  map[T]int
	values map[int]T
}

func newOrdinalTable[T comparable](kind string, codes map[T]int) ordinalTable[T] {
	values := make(map[int]T, len(codes))
	for v, code := range codes {
		values[code] = v
	}
	return ordinalTable[T]{kind: kind, codes: codes, values: values}
}

func (t ordinalTable[T]) code(v T) (int, error) {
	code, ok := t.codes[v]
	if !ok {
		return 0, fmt.Errorf("%w: %s %v", domain.ErrUnknownCode, t.kind, v)
	}
	return code, nil
}

func (t ordinalTable[T]) value(code int) (T, error) {
	v, ok := t.values[code]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %d", domain.ErrUnknownCode, t.kind, code)
	}
	return v, nil
}

var stationCodes = newOrdinalTable("station", map[domain.Station]int{
	domain.Nangang:  1,
	domain.Taipei:   2,
	domain.Banqiao:  3,
	domain.Taoyuan:  4,
	domain.Hsinchu:  5,
	domain.Miaoli:   6,
	domain.Taichung: 7,
	domain.Changhua: 8,
	domain.Yunlin:   9,
	domain.Chiayi:   10,
	domain.Tainan:   11,
	domain.Zuoying:  12,
})

var cabinClassCodes = newOrdinalTable("cabin class", map[domain.CabinClass]int{
	domain.Standard: 0,
	domain.Business: 1,
})

var seatPreferenceCodes = newOrdinalTable("seat preference", map[domain.SeatPreference]int{
	domain.NoPreference: 0,
	domain.Window:       1,
	domain.Aisle:        2,
})

var tripTypeCodes = newOrdinalTable("trip type", map[domain.TripType]int{
	domain.OneWay:    0,
	domain.RoundTrip: 1,
})

// ticketRow is a category's position among the booking form's ticket rows
// and the letter tagged onto its count.
type ticketRow struct {
	index  int
	suffix string
}

var ticketRows = map[domain.TicketCategory]ticketRow{
	domain.Adult:    {index: 0, suffix: "F"},
	domain.Child:    {index: 1, suffix: "H"},
	domain.Disabled: {index: 2, suffix: "W"},
	domain.Elder:    {index: 3, suffix: "E"},
	domain.College:  {index: 4, suffix: "P"},
}

func lookupTicketRow(c domain.TicketCategory) (ticketRow, error) {
	row, ok := ticketRows[c]
	if !ok {
		return ticketRow{}, fmt.Errorf("%w: ticket category %v", domain.ErrUnknownCode, c)
	}
	return row, nil
}

// TicketSuffix is the one-letter tag appended to a category's count.
func TicketSuffix(c domain.TicketCategory) (string, error) {
	row, err := lookupTicketRow(c)
	if err != nil {
		return "", err
	}
	return row.suffix, nil
}

// TicketRowField is the form field of a category's ticket count row.
func TicketRowField(c domain.TicketCategory) (string, error) {
	row, err := lookupTicketRow(c)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(ticketRowTemplate, row.index), nil
}

func StationCode(s domain.Station) (int, error) { return stationCodes.code(s) }

func StationFromCode(code int) (domain.Station, error) { return stationCodes.value(code) }

func CabinClassCode(c domain.CabinClass) (int, error) { return cabinClassCodes.code(c) }

func CabinClassFromCode(code int) (domain.CabinClass, error) { return cabinClassCodes.value(code) }

func SeatPreferenceCode(p domain.SeatPreference) (int, error) { return seatPreferenceCodes.code(p) }

func SeatPreferenceFromCode(code int) (domain.SeatPreference, error) {
	return seatPreferenceCodes.value(code)
}

func TripTypeCode(t domain.TripType) (int, error) { return tripTypeCodes.code(t) }
