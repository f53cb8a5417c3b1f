package domain

import (
	"fmt"
	"strings"
)

// TicketCategory is a passenger fare category.
type TicketCategory int

const (
	Adult TicketCategory = iota
	Child
	Disabled
	Elder
	College
)

var ticketCategoryNames = []string{"adult", "child", "disabled", "elder", "college"}

// TicketCategories returns every category in canonical order. Positional
// passenger keys are folded in this order.
func TicketCategories() []TicketCategory {
	return enumValues[TicketCategory](len(ticketCategoryNames))
}

func (c TicketCategory) String() string { return enumName(ticketCategoryNames, int(c)) }

func ParseTicketCategory(name string) (TicketCategory, error) {
	return parseEnum[TicketCategory]("ticket category", ticketCategoryNames, name)
}

func (c TicketCategory) MarshalText() ([]byte, error) {
	return marshalEnum(ticketCategoryNames, "ticket category", int(c))
}

func (c *TicketCategory) UnmarshalText(b []byte) error {
	v, err := ParseTicketCategory(string(b))
	*c = v
	return err
}

// ParseTicketCategories parses a list of category names, e.g. from config.
func ParseTicketCategories(names []string) ([]TicketCategory, error) {
	out := make([]TicketCategory, 0, len(names))
	for _, name := range names {
		c, err := ParseTicketCategory(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// TicketCounts holds the number of tickets per category.
type TicketCounts struct {
	Adult    int `json:"adult"`
	Child    int `json:"child"`
	Disabled int `json:"disabled"`
	Elder    int `json:"elder"`
	College  int `json:"college"`
}

func (t TicketCounts) Get(c TicketCategory) int {
	switch c {
	case Adult:
		return t.Adult
	case Child:
		return t.Child
	case Disabled:
		return t.Disabled
	case Elder:
		return t.Elder
	case College:
		return t.College
	}
	return 0
}

func (t *TicketCounts) Set(c TicketCategory, n int) {
	switch c {
	case Adult:
		t.Adult = n
	case Child:
		t.Child = n
	case Disabled:
		t.Disabled = n
	case Elder:
		t.Elder = n
	case College:
		t.College = n
	}
}

func (t TicketCounts) Total() int {
	total := 0
	for _, c := range TicketCategories() {
		total += t.Get(c)
	}
	return total
}

func (t TicketCounts) Validate() error {
	for _, c := range TicketCategories() {
		if t.Get(c) < 0 {
			return fmt.Errorf("%s ticket count must not be negative", c)
		}
	}
	if t.Total() == 0 {
		return fmt.Errorf("at least one ticket is required")
	}
	return nil
}

func (t TicketCounts) String() string {
	parts := make([]string, 0, 5)
	for _, c := range TicketCategories() {
		if n := t.Get(c); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, c))
		}
	}
	return strings.Join(parts, ", ")
}
