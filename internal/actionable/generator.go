package actionable

import (
	"fmt"

	"fire-insights-go/internal/aggregator"
)

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

// Generate condenses an insight into the one-line highlights logged at the end
// of a run.
func Generate(ins aggregator.Insight) ActionCard {
	if len(ins.Frequency) == 0 {
		return ActionCard{
			Insight: "No typed calls in dataset",
			Action:  "Check the type column of the input",
			Impact:  "Charts cannot be produced",
		}
	}
	top := ins.Frequency[0]
	card := ActionCard{
		Insight: fmt.Sprintf("%s is the most frequent call type (%d calls)", top.Type, top.Count),
		Action:  "No duration data for the top call types",
		Impact:  fmt.Sprintf("%d call types seen", len(ins.Frequency)),
	}
	if len(ins.Medians) > 0 {
		longest := ins.Medians[0]
		card.Action = fmt.Sprintf("%s has the longest median duration (%.1f min over %d calls)", longest.Type, longest.MedianMin, longest.Samples)
	}
	if n := len(ins.DroppedTypes); n > 0 {
		card.Impact = fmt.Sprintf("%d call types seen, %d top types had no parseable duration", len(ins.Frequency), n)
	}
	return card
}
