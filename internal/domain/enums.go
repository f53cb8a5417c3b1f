package domain

import (
	"fmt"
	"strings"
)

// Station is one of the fixed high speed rail stations, listed north to south.
type Station int

const (
	Nangang Station = iota
	Taipei
	Banqiao
	Taoyuan
	Hsinchu
	Miaoli
	Taichung
	Changhua
	Yunlin
	Chiayi
	Tainan
	Zuoying
)

var stationNames = []string{
	"Nangang", "Taipei", "Banqiao", "Taoyuan", "Hsinchu", "Miaoli",
	"Taichung", "Changhua", "Yunlin", "Chiayi", "Tainan", "Zuoying",
}

func Stations() []Station {
	return enumValues[Station](len(stationNames))
}

func (s Station) String() string { return enumName(stationNames, int(s)) }

func ParseStation(name string) (Station, error) {
	return parseEnum[Station]("station", stationNames, name)
}

func (s Station) MarshalText() ([]byte, error) { return marshalEnum(stationNames, "station", int(s)) }

func (s *Station) UnmarshalText(b []byte) error {
	v, err := ParseStation(string(b))
	*s = v
	return err
}

type CabinClass int

const (
	Standard CabinClass = iota
	Business
)

var cabinClassNames = []string{"Standard", "Business"}

func CabinClasses() []CabinClass { return enumValues[CabinClass](len(cabinClassNames)) }

func (c CabinClass) String() string { return enumName(cabinClassNames, int(c)) }

func ParseCabinClass(name string) (CabinClass, error) {
	return parseEnum[CabinClass]("cabin class", cabinClassNames, name)
}

func (c CabinClass) MarshalText() ([]byte, error) {
	return marshalEnum(cabinClassNames, "cabin class", int(c))
}

func (c *CabinClass) UnmarshalText(b []byte) error {
	v, err := ParseCabinClass(string(b))
	*c = v
	return err
}

type SeatPreference int

const (
	NoPreference SeatPreference = iota
	Window
	Aisle
)

var seatPreferenceNames = []string{"NoPreference", "Window", "Aisle"}

func SeatPreferences() []SeatPreference {
	return enumValues[SeatPreference](len(seatPreferenceNames))
}

func (p SeatPreference) String() string { return enumName(seatPreferenceNames, int(p)) }

func ParseSeatPreference(name string) (SeatPreference, error) {
	return parseEnum[SeatPreference]("seat preference", seatPreferenceNames, name)
}

func (p SeatPreference) MarshalText() ([]byte, error) {
	return marshalEnum(seatPreferenceNames, "seat preference", int(p))
}

func (p *SeatPreference) UnmarshalText(b []byte) error {
	v, err := ParseSeatPreference(string(b))
	*p = v
	return err
}

// TripType is always OneWay for submitted bookings.
type TripType int

const (
	OneWay TripType = iota
	RoundTrip
)

var tripTypeNames = []string{"OneWay", "RoundTrip"}

func (t TripType) String() string { return enumName(tripTypeNames, int(t)) }

func enumValues[T ~int](n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = T(i)
	}
	return out
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("Unknown(%d)", i)
	}
	return names[i]
}

func parseEnum[T ~int](kind string, names []string, s string) (T, error) {
	s = strings.TrimSpace(s)
	for i, name := range names {
		if strings.EqualFold(name, s) {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}

func marshalEnum(names []string, kind string, i int) ([]byte, error) {
	if i < 0 || i >= len(names) {
		return nil, fmt.Errorf("unknown %s %d", kind, i)
	}
	return []byte(names[i]), nil
}
