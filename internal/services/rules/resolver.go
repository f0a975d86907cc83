package rules

import "github.com/rpsduel/rpsduel-go/internal/model"

// Outcome is the result of comparing two played cards
type Outcome int

const (
	OutcomeTie Outcome = iota
	OutcomeFirstWins
	OutcomeSecondWins
)

// String returns a readable name for the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeFirstWins:
		return "first_wins"
	case OutcomeSecondWins:
		return "second_wins"
	default:
		return "tie"
	}
}

// Resolve compares two played cards. Type dominance decides first
// (rock beats scissors, scissors beats paper, paper beats rock); for
// matching types the higher power wins, and equal power ties. Every pair
// of distinct types has a defined dominance, so those are the only cases.
func Resolve(first, second model.Card) Outcome {
	if first.Type != second.Type {
		if first.Type.Beats(second.Type) {
			return OutcomeFirstWins
		}
		return OutcomeSecondWins
	}

	switch {
	case first.Power > second.Power:
		return OutcomeFirstWins
	case first.Power < second.Power:
		return OutcomeSecondWins
	default:
		return OutcomeTie
	}
}
