package connection

const (
	CodeMove uint8 = iota
	CodeGridUpdate
	CodeTermination
	CodeReveal
)

// Every frame on the wire carries its code first; the code
// decides how the rest of the frame is read.
type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}

func CodeName(code uint8) string {
	switch code {
	case CodeMove:
		return "move"
	case CodeGridUpdate:
		return "grid update"
	case CodeTermination:
		return "termination"
	case CodeReveal:
		return "reveal"
	}
	return "unknown"
}
