package txtrigger

import (
	"slices"
	"strconv"
)

// transferAmountArgumentIndex is the position of the amount argument in the
// native transfer entry functions ("transfer(recipient, amount)").
const transferAmountArgumentIndex = 1

// Match decides whether tx constitutes an automation trigger under rule.
//
// A transaction matches only when all of the following hold:
//   - it executed successfully on-chain;
//   - its entry function is one of rule.Functions;
//   - its amount argument parses as an unsigned integer and equals
//     rule.MatchAmount exactly. There is no tolerance: amounts are integer
//     octas, so exact equality is both well-defined and required.
//
// Ordinary non-matching input (wrong function, wrong amount, failed
// transaction, missing or malformed amount argument) yields ok == false;
// Match never panics on short argument lists or unparsable values.
func Match(tx Transaction, rule Rule) (trigger MatchedTrigger, ok bool) {
	if !tx.Success {
		return MatchedTrigger{}, false
	}

	if !slices.Contains(rule.Functions, tx.Function) {
		return MatchedTrigger{}, false
	}

	if len(tx.Arguments) <= transferAmountArgumentIndex {
		return MatchedTrigger{}, false
	}

	amount, err := strconv.ParseUint(tx.Arguments[transferAmountArgumentIndex], 10, 64)
	if err != nil {
		return MatchedTrigger{}, false
	}

	if amount != rule.MatchAmount {
		return MatchedTrigger{}, false
	}

	trigger = MatchedTrigger{
		Sender:     tx.Sender,
		SourceHash: tx.Hash,
		Amount:     amount,
	}
	return trigger, true
}
