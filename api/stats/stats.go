// Package stats computes consensus statistics for a single question's
// answers. Consensus is measured among respondents who took a position:
// abstentions count toward participation but never toward the percentage.
package stats

import (
	"math"

	"github.com/quorumhq/quorum/database"
)

const (
	ChoiceYes     = "Yes"
	ChoiceNo      = "No"
	ChoiceAbstain = "Abstain"
)

// ConsensusThreshold is the fixed pass mark for a question, in percent.
const ConsensusThreshold = 75.0

type Statistics struct {
	QuestionNumber int     `json:"question_number"`
	QuestionText   string  `json:"question_text"`
	TotalResponses int     `json:"total_responses"`
	YesCount       int     `json:"yes_count"`
	NoCount        int     `json:"no_count"`
	AbstainCount   int     `json:"abstain_count"`
	YesPercentage  float64 `json:"yes_percentage"`
	MeetsThreshold bool    `json:"meets_threshold"`
}

// Compute tallies the answers for one question. TotalResponses counts every
// answer, even one whose choice is outside the known set; such answers are
// otherwise ignored. Empty input yields a zero-valued result.
func Compute(questionNumber int, questionText string, answers []database.Answer) Statistics {
	statistics := Statistics{
		QuestionNumber: questionNumber,
		QuestionText:   questionText,
		TotalResponses: len(answers),
	}

	for _, answer := range answers {
		switch answer.Choice {
		case ChoiceYes:
			statistics.YesCount++
		case ChoiceNo:
			statistics.NoCount++
		case ChoiceAbstain:
			statistics.AbstainCount++
		}
	}

	statistics.YesPercentage = Percentage(statistics.YesCount, statistics.YesCount+statistics.NoCount)
	statistics.MeetsThreshold = statistics.YesPercentage >= ConsensusThreshold

	return statistics
}

// Percentage returns 100*count/total rounded to one decimal place, or 0.0
// when total is zero.
func Percentage(count, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}
