package variant

import "strings"

const (
	CategoryButtons = "buttons"
	CategoryZippers = "zippers"
	CategoryElastic = "elastic"
	CategoryCords   = "cords"
)

// Axes lists which variant attributes a category takes into account.
type Axes struct {
	Size     bool
	Color    bool
	Pack     bool
	Quantity bool
}

func AxesFor(category string) Axes {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case CategoryZippers:
		return Axes{Size: true, Color: true, Pack: true, Quantity: true}
	case CategoryElastic:
		return Axes{Size: true, Color: true}
	default:
		return Axes{Size: true, Color: true, Pack: true}
	}
}
