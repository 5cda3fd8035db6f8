package machinae

import "fmt"

// Namer lets a state choose the name hooks, logs and trace journals report
// for it. Without it the machine falls back to fmt.Stringer, then to the
// dynamic type via %T.
type Namer interface {
	StateName() string
}

func stateName(v any) string {
	switch s := v.(type) {
	case Namer:
		return s.StateName()
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}
