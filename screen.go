package sifter

// Focus indicates which panel receives key presses
type Focus int

const (
	LocationFocus Focus = iota
	CriteriaFocus
	ResultsFocus
)

func (fcs Focus) String() string {
	switch fcs {
	case LocationFocus:
		return "location"
	case CriteriaFocus:
		return "criteria"
	case ResultsFocus:
		return "results"
	}
	return "unknown"
}
