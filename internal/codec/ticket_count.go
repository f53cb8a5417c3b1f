package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Domenick1991/thsrbook/internal/domain"
)

// EncodeTicketCount renders a count followed by its category suffix, e.g. "1F".
func EncodeTicketCount(count int, suffix string) string {
	return strconv.Itoa(count) + suffix
}

// DecodeTicketCount is the inverse of EncodeTicketCount. The value must end
// with exactly the expected suffix and start with a non-negative integer.
func DecodeTicketCount(value, suffix string) (int, error) {
	if len(value) < len(suffix) || !strings.HasSuffix(value, suffix) {
		return 0, fmt.Errorf("%w: %q does not end with %q", domain.ErrMalformedCount, value, suffix)
	}
	digits := strings.TrimSuffix(value, suffix)
	n, err := strconv.ParseUint(digits, 10, strconv.IntSize-1)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %q is out of range", domain.ErrMalformedCount, value)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q has no numeric prefix", domain.ErrMalformedCount, value)
	}
	return int(n), nil
}
