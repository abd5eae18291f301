package domain

import "strings"

// Size is a garment size column of a performance record.
type Size int

const (
	SizeXS Size = iota
	SizeS
	SizeM
	SizeL
	SizeXL
	SizeXXL
	Size4XL
)

// Sizes lists every size in display order.
var Sizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL, Size4XL}

var sizeKeys = map[Size]string{
	SizeXS:  "xs",
	SizeS:   "s",
	SizeM:   "m",
	SizeL:   "l",
	SizeXL:  "xl",
	SizeXXL: "xxl",
	Size4XL: "fourxl",
}

var sizeLabels = map[Size]string{
	SizeXS:  "XS",
	SizeS:   "S",
	SizeM:   "M",
	SizeL:   "L",
	SizeXL:  "XL",
	SizeXXL: "XXL",
	Size4XL: "4XL",
}

var sizeAliases = map[string]Size{
	"XS":     SizeXS,
	"S":      SizeS,
	"M":      SizeM,
	"L":      SizeL,
	"XL":     SizeXL,
	"XXL":    SizeXXL,
	"2XL":    SizeXXL,
	"4XL":    Size4XL,
	"XXXXL":  Size4XL,
	"FOURXL": Size4XL,
}

// Key is the column / JSON prefix of the size ("fourxl" for 4XL).
func (s Size) Key() string {
	return sizeKeys[s]
}

// Label is the human readable size label.
func (s Size) Label() string {
	return sizeLabels[s]
}

// ParseSizeLabel matches a product specification against the size labels,
// case-insensitively.
func ParseSizeLabel(label string) (Size, bool) {
	size, ok := sizeAliases[strings.ToUpper(strings.TrimSpace(label))]
	return size, ok
}

// SizeSet holds order quantities per size.
type SizeSet struct {
	XS     int `json:"xs_size" db:"xs_size"`
	S      int `json:"s_size" db:"s_size"`
	M      int `json:"m_size" db:"m_size"`
	L      int `json:"l_size" db:"l_size"`
	XL     int `json:"xl_size" db:"xl_size"`
	XXL    int `json:"xxl_size" db:"xxl_size"`
	FourXL int `json:"fourxl_size" db:"fourxl_size"`
}

// Get returns the quantity of a size.
func (s SizeSet) Get(size Size) int {
	switch size {
	case SizeXS:
		return s.XS
	case SizeS:
		return s.S
	case SizeM:
		return s.M
	case SizeL:
		return s.L
	case SizeXL:
		return s.XL
	case SizeXXL:
		return s.XXL
	case Size4XL:
		return s.FourXL
	}
	return 0
}

// Add returns the per-size sum of both sets.
func (s SizeSet) Add(other SizeSet) SizeSet {
	return SizeSet{
		XS:     s.XS + other.XS,
		S:      s.S + other.S,
		M:      s.M + other.M,
		L:      s.L + other.L,
		XL:     s.XL + other.XL,
		XXL:    s.XXL + other.XXL,
		FourXL: s.FourXL + other.FourXL,
	}
}

// Total sums every size.
func (s SizeSet) Total() int {
	return s.XS + s.S + s.M + s.L + s.XL + s.XXL + s.FourXL
}
