package surveys

import (
	"sort"

	"github.com/quorumhq/quorum/api/stats"
)

// AllQuestionsInOrder returns every question in the survey's canonical
// traversal order: sections by section_number ascending, questions by
// question_number ascending within each section. The ordering is recomputed
// on every call since an edit can rewrite sections at any time.
func AllQuestionsInOrder(detail SurveyDetail) []QuestionWithAnswers {
	sections := make([]SectionDetail, len(detail.Sections))
	copy(sections, detail.Sections)

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Section.SectionNumber < sections[j].Section.SectionNumber
	})

	var questions []QuestionWithAnswers
	for _, sectionDetail := range sections {
		sectionQuestions := make([]QuestionWithAnswers, len(sectionDetail.Questions))
		copy(sectionQuestions, sectionDetail.Questions)

		sort.SliceStable(sectionQuestions, func(i, j int) bool {
			return sectionQuestions[i].Question.QuestionNumber < sectionQuestions[j].Question.QuestionNumber
		})

		questions = append(questions, sectionQuestions...)
	}

	return questions
}

// AllStatistics maps the statistics engine over AllQuestionsInOrder,
// preserving order.
func AllStatistics(detail SurveyDetail) []stats.Statistics {
	questions := AllQuestionsInOrder(detail)

	allStats := make([]stats.Statistics, 0, len(questions))
	for _, questionWithAnswers := range questions {
		allStats = append(allStats, stats.Compute(
			int(questionWithAnswers.Question.QuestionNumber),
			questionWithAnswers.Question.QuestionText,
			questionWithAnswers.Answers,
		))
	}

	return allStats
}

// PassFailCounts tallies how many questions meet the consensus threshold.
func PassFailCounts(allStats []stats.Statistics) (passed, failed int) {
	for _, statistics := range allStats {
		if statistics.MeetsThreshold {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}
