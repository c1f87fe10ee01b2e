package facedetect

// Colour names the rectangle colour the detector draws around each face. The
// value is passed to the detector script verbatim.
type Colour string

const (
	ColourRed     Colour = "COLOUR_RED"
	ColourGreen   Colour = "COLOUR_GREEN"
	ColourBlue    Colour = "COLOUR_BLUE"
	ColourCyan    Colour = "COLOUR_CYAN"
	ColourMagenta Colour = "COLOUR_MAGENTA"
	ColourYellow  Colour = "COLOUR_YELLOW"

	DefaultColour = ColourGreen
)

var colourLabels = []struct {
	colour Colour
	label  string
}{
	{ColourRed, "Red"},
	{ColourGreen, "Green"},
	{ColourBlue, "Blue"},
	{ColourCyan, "Cyan"},
	{ColourMagenta, "Magenta"},
	{ColourYellow, "Yellow"},
}

// Colours returns every colour in menu order.
func Colours() []Colour {
	out := make([]Colour, len(colourLabels))
	for i, c := range colourLabels {
		out[i] = c.colour
	}
	return out
}

// Label is the name shown in the parameter dialog.
func (c Colour) Label() string {
	for _, entry := range colourLabels {
		if entry.colour == c {
			return entry.label
		}
	}
	return string(c)
}

func (c Colour) Valid() bool {
	for _, entry := range colourLabels {
		if entry.colour == c {
			return true
		}
	}
	return false
}
