package optimize

type Objective int

const (
	ObjectiveNetSavings        Objective = iota // Maximize savings over the whole horizon
	ObjectiveEarliestBreakeven                  // Pay the system off as soon as possible
	objectiveCount
)

func (o Objective) String() string {
	switch o {
	case ObjectiveNetSavings:
		return "net_savings"
	case ObjectiveEarliestBreakeven:
		return "earliest_breakeven"
	default:
		return "unknown"
	}
}

func (o Objective) IsValid() bool {
	return o >= ObjectiveNetSavings && o < objectiveCount
}

func ParseObjective(str string) (Objective, bool) {
	for o := ObjectiveNetSavings; o < objectiveCount; o++ {
		if o.String() == str {
			return o, true
		}
	}
	return ObjectiveNetSavings, false
}
