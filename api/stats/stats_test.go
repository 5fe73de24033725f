package stats_test

import (
	"testing"

	"github.com/quorumhq/quorum/api/stats"
	"github.com/quorumhq/quorum/database"
)

func answersFor(choices ...string) []database.Answer {
	answers := make([]database.Answer, 0, len(choices))
	for i, choice := range choices {
		answers = append(answers, database.Answer{
			ID:         int64(i + 1),
			ResponseID: int64(i + 1),
			QuestionID: 1,
			Choice:     choice,
		})
	}
	return answers
}

func TestComputeEmptyInput(t *testing.T) {
	got := stats.Compute(3, "Should the guideline be adopted?", nil)

	if got.QuestionNumber != 3 {
		t.Errorf("question number = %d, want 3", got.QuestionNumber)
	}
	if got.TotalResponses != 0 || got.YesCount != 0 || got.NoCount != 0 || got.AbstainCount != 0 {
		t.Errorf("counts = %+v, want all zero", got)
	}
	if got.YesPercentage != 0.0 {
		t.Errorf("yes percentage = %v, want 0.0", got.YesPercentage)
	}
	if got.MeetsThreshold {
		t.Error("meets threshold = true, want false")
	}
}

func TestComputeAllAbstain(t *testing.T) {
	got := stats.Compute(1, "q", answersFor("Abstain", "Abstain"))

	if got.YesPercentage != 0.0 {
		t.Errorf("yes percentage = %v, want 0.0", got.YesPercentage)
	}
	if got.MeetsThreshold {
		t.Error("meets threshold = true, want false")
	}
	if got.AbstainCount != 2 || got.TotalResponses != 2 {
		t.Errorf("abstain count = %d, total = %d, want 2 and 2", got.AbstainCount, got.TotalResponses)
	}
}

func TestComputeThresholdBoundary(t *testing.T) {
	// 3 yes, 1 no, 2 abstain: 75.0% exactly, passes.
	got := stats.Compute(1, "q", answersFor("Yes", "Yes", "Yes", "No", "Abstain", "Abstain"))

	if got.TotalResponses != 6 {
		t.Errorf("total responses = %d, want 6", got.TotalResponses)
	}
	if got.YesPercentage != 75.0 {
		t.Errorf("yes percentage = %v, want 75.0", got.YesPercentage)
	}
	if !got.MeetsThreshold {
		t.Error("meets threshold = false, want true at exactly 75.0")
	}
}

func TestComputeJustBelowThreshold(t *testing.T) {
	// 749 yes, 251 no: 74.9%, fails.
	choices := make([]string, 0, 1000)
	for i := 0; i < 749; i++ {
		choices = append(choices, "Yes")
	}
	for i := 0; i < 251; i++ {
		choices = append(choices, "No")
	}
	got := stats.Compute(1, "q", answersFor(choices...))

	if got.YesPercentage != 74.9 {
		t.Errorf("yes percentage = %v, want 74.9", got.YesPercentage)
	}
	if got.MeetsThreshold {
		t.Error("meets threshold = true, want false at 74.9")
	}
}

func TestComputeMinorityYes(t *testing.T) {
	got := stats.Compute(2, "q", answersFor("Yes", "No", "No", "No"))

	if got.YesPercentage != 25.0 {
		t.Errorf("yes percentage = %v, want 25.0", got.YesPercentage)
	}
	if got.MeetsThreshold {
		t.Error("meets threshold = true, want false")
	}
	if noPct := stats.Percentage(got.NoCount, got.YesCount+got.NoCount); noPct != 75.0 {
		t.Errorf("no percentage = %v, want 75.0", noPct)
	}
}

func TestComputeAbstainsExcludedFromDenominator(t *testing.T) {
	withAbstains := stats.Compute(1, "q", answersFor("Yes", "Yes", "No", "Abstain", "Abstain", "Abstain"))
	withoutAbstains := stats.Compute(1, "q", answersFor("Yes", "Yes", "No"))

	if withAbstains.YesPercentage != withoutAbstains.YesPercentage {
		t.Errorf("yes percentage with abstains = %v, without = %v, want equal",
			withAbstains.YesPercentage, withoutAbstains.YesPercentage)
	}
}

func TestComputeUnrecognizedChoiceCountsTowardTotalOnly(t *testing.T) {
	got := stats.Compute(1, "q", answersFor("Yes", "Maybe", "No"))

	if got.TotalResponses != 3 {
		t.Errorf("total responses = %d, want 3", got.TotalResponses)
	}
	if sum := got.YesCount + got.NoCount + got.AbstainCount; sum != 2 {
		t.Errorf("tallied counts = %d, want 2", sum)
	}
	if got.YesPercentage != 50.0 {
		t.Errorf("yes percentage = %v, want 50.0", got.YesPercentage)
	}
}

func TestPercentageRounding(t *testing.T) {
	// 1/3 = 33.333... rounds to 33.3
	if got := stats.Percentage(1, 3); got != 33.3 {
		t.Errorf("percentage(1, 3) = %v, want 33.3", got)
	}
	// 2/3 = 66.666... rounds to 66.7
	if got := stats.Percentage(2, 3); got != 66.7 {
		t.Errorf("percentage(2, 3) = %v, want 66.7", got)
	}
	if got := stats.Percentage(0, 0); got != 0.0 {
		t.Errorf("percentage(0, 0) = %v, want 0.0", got)
	}
}
