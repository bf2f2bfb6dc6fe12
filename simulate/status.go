package simulate

import "fmt"

type Status int

const (
	StatusRunning   Status = iota // Breakeven not reached yet, horizon not exhausted
	StatusFound                   // Cumulative solar cost caught up with the standard cost
	StatusExhausted               // Horizon reached without breakeven
	statusCount
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusFound:
		return "found"
	case StatusExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

func (s Status) IsValid() bool {
	return s >= StatusRunning && s < statusCount
}

func ParseStatus(str string) Status {
	for s := StatusRunning; s < statusCount; s++ {
		if s.String() == str {
			return s
		}
	}
	return statusCount
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed := ParseStatus(string(text))
	if !parsed.IsValid() {
		return fmt.Errorf("unknown simulation status %q", text)
	}
	*s = parsed
	return nil
}
