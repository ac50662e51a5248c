package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Period identifies one class period. The legacy bell schedule uses labels
// like "4.5" and "7.8" for split blocks, so the canonical form is the label
// value scaled by ten and stored as an integer: "4.5" is 45, "7" is 70.
// Integer comparison keeps period equality exact and gives the schedule a
// total order.
type Period int

// ParsePeriod converts a schedule label such as "7" or "4.5" into its
// canonical form. At most one fractional digit is allowed.
func ParsePeriod(raw string) (Period, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty period")
	}

	whole := raw
	frac := ""
	if dot := strings.IndexByte(raw, '.'); dot >= 0 {
		whole = raw[:dot]
		frac = raw[dot+1:]
		if len(frac) != 1 {
			return 0, fmt.Errorf("invalid period %q", raw)
		}
	}

	w, err := strconv.Atoi(whole)
	if err != nil || w < 0 {
		return 0, fmt.Errorf("invalid period %q", raw)
	}
	p := Period(w * 10)
	if frac != "" {
		f, err := strconv.Atoi(frac)
		if err != nil {
			return 0, fmt.Errorf("invalid period %q", raw)
		}
		p += Period(f)
	}
	return p, nil
}

// String renders the schedule label: 45 prints as "4.5" and 70 as "7".
func (p Period) String() string {
	if p%10 == 0 {
		return strconv.Itoa(int(p) / 10)
	}
	return fmt.Sprintf("%d.%d", int(p)/10, int(p)%10)
}

// MarshalText keeps periods as schedule labels in JSON.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a schedule label.
func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriod(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
