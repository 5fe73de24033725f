package surveys_test

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/quorumhq/quorum/api/surveys"
	"github.com/quorumhq/quorum/database"
)

func yes(responseID, questionID int64) database.Answer {
	return database.Answer{ResponseID: responseID, QuestionID: questionID, Choice: "Yes"}
}

func no(responseID, questionID int64) database.Answer {
	return database.Answer{ResponseID: responseID, QuestionID: questionID, Choice: "No"}
}

// shuffledDetail returns a survey whose sections and questions are stored
// out of order, to prove ordering comes from the numbers and not slice
// position.
func shuffledDetail() surveys.SurveyDetail {
	return surveys.SurveyDetail{
		Survey: database.Survey{ID: 1, Title: "Charter Vote"},
		Sections: []surveys.SectionDetail{
			{
				Section: database.Section{ID: 20, SectionNumber: 2, Title: "Operations"},
				Questions: []surveys.QuestionWithAnswers{
					{Question: database.Question{ID: 4, QuestionNumber: 4, QuestionText: "Q4"}},
					{Question: database.Question{ID: 3, QuestionNumber: 3, QuestionText: "Q3"}},
				},
			},
			{
				Section: database.Section{ID: 10, SectionNumber: 1, Title: "Strategy"},
				Questions: []surveys.QuestionWithAnswers{
					{Question: database.Question{ID: 2, QuestionNumber: 2, QuestionText: "Q2"}},
					{Question: database.Question{ID: 1, QuestionNumber: 1, QuestionText: "Q1"}},
				},
			},
		},
	}
}

func TestAllQuestionsInOrder(t *testing.T) {
	detail := shuffledDetail()

	questions := surveys.AllQuestionsInOrder(detail)

	if len(questions) != 4 {
		t.Fatalf("questions = %d, want 4", len(questions))
	}
	for i, want := range []int32{1, 2, 3, 4} {
		if questions[i].Question.QuestionNumber != want {
			t.Errorf("position %d holds question %d, want %d", i, questions[i].Question.QuestionNumber, want)
		}
	}

	// The input must come through untouched.
	if detail.Sections[0].Section.SectionNumber != 2 {
		t.Error("AllQuestionsInOrder reordered the input detail")
	}
	if detail.Sections[0].Questions[0].Question.QuestionNumber != 4 {
		t.Error("AllQuestionsInOrder reordered the input questions")
	}
}

func TestAllStatisticsFollowsTraversalOrder(t *testing.T) {
	detail := shuffledDetail()
	detail.Sections[1].Questions[1].Answers = []database.Answer{yes(1, 1), yes(2, 1), no(3, 1)}

	allStats := surveys.AllStatistics(detail)

	if len(allStats) != 4 {
		t.Fatalf("stats = %d, want 4", len(allStats))
	}
	if allStats[0].QuestionNumber != 1 {
		t.Errorf("first stat is for question %d, want 1", allStats[0].QuestionNumber)
	}
	if allStats[0].YesCount != 2 || allStats[0].NoCount != 1 {
		t.Errorf("question 1 counts = %d yes / %d no, want 2/1", allStats[0].YesCount, allStats[0].NoCount)
	}
}

func TestPassFailCounts(t *testing.T) {
	detail := shuffledDetail()
	// Question 1: 3 of 4 yes -> exactly 75%, passes.
	detail.Sections[1].Questions[1].Answers = []database.Answer{yes(1, 1), yes(2, 1), yes(3, 1), no(4, 1)}
	// Question 3: 1 of 2 yes -> 50%, fails.
	detail.Sections[0].Questions[1].Answers = []database.Answer{yes(1, 3), no(2, 3)}

	allStats := surveys.AllStatistics(detail)
	passed, failed := surveys.PassFailCounts(allStats)

	if passed != 1 {
		t.Errorf("passed = %d, want 1", passed)
	}
	// Unanswered questions sit at 0% and count as failed.
	if failed != 3 {
		t.Errorf("failed = %d, want 3", failed)
	}
}

func TestNormalizeSections(t *testing.T) {
	sections, total := surveys.NormalizeSections([]surveys.SectionInput{
		{Title: "  Strategy  ", Questions: []string{" Approve the budget? ", "   ", "Renew the charter?"}},
		{Title: "   ", Questions: []string{"orphaned"}},
		{Title: "Operations", Description: " day to day ", Questions: nil},
	})

	if len(sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(sections))
	}
	if total != 2 {
		t.Errorf("total questions = %d, want 2", total)
	}
	if sections[0].Title != "Strategy" {
		t.Errorf("title = %q, want trimmed Strategy", sections[0].Title)
	}
	if len(sections[0].Questions) != 2 {
		t.Errorf("questions = %d, want 2 after dropping blanks", len(sections[0].Questions))
	}
	if sections[1].Description != "day to day" {
		t.Errorf("description = %q, want trimmed", sections[1].Description)
	}
}

func TestBuildResults(t *testing.T) {
	detail := shuffledDetail()
	detail.Sections[1].Questions[1].Answers = []database.Answer{
		yes(1, 1), yes(2, 1), yes(3, 1),
		{ResponseID: 4, QuestionID: 1, Choice: "No", Elaboration: pgtype.Text{String: "too expensive", Valid: true}},
	}

	responses := []database.Response{
		{ID: 1, SurveyID: 1, IsComplete: true},
		{ID: 2, SurveyID: 1, IsComplete: true},
		{ID: 3, SurveyID: 1, IsComplete: true},
		{ID: 4, SurveyID: 1, IsComplete: true},
	}

	results := surveys.BuildResults(detail, responses)

	if results.TotalResponses != 4 {
		t.Errorf("total responses = %d, want 4", results.TotalResponses)
	}
	if results.PassedCount != 1 || results.FailedCount != 3 {
		t.Errorf("pass/fail = %d/%d, want 1/3", results.PassedCount, results.FailedCount)
	}

	var found bool
	for _, section := range results.Sections {
		for _, question := range section.Questions {
			for _, entry := range question.Elaborations {
				if entry.Elaboration == "too expensive" && entry.Choice == "No" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Error("elaboration entry missing from results")
	}
}

func TestBuildRespondentRecords(t *testing.T) {
	detail := shuffledDetail()
	detail.Sections[1].Questions[1].Answers = []database.Answer{yes(1, 1)}

	responses := []database.Response{
		{ID: 1, SurveyID: 1, ParticipantName: pgtype.Text{String: "Dana", Valid: true}, IsComplete: true},
		{ID: 2, SurveyID: 1, IsComplete: false},
	}

	records := surveys.BuildRespondentRecords(detail, responses)

	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Name != "Dana" {
		t.Errorf("name = %q, want Dana", records[0].Name)
	}
	if records[1].Name != "Anonymous" {
		t.Errorf("name = %q, want Anonymous fallback", records[1].Name)
	}

	// Every question appears for every respondent, answered or not.
	totalAnswers := 0
	for _, section := range records[1].Sections {
		totalAnswers += len(section.Answers)
	}
	if totalAnswers != 4 {
		t.Errorf("record answers = %d, want 4", totalAnswers)
	}

	var choice string
	for _, section := range records[0].Sections {
		for _, answer := range section.Answers {
			if answer.QuestionNumber == 1 {
				choice = answer.Choice
			}
		}
	}
	if choice != "Yes" {
		t.Errorf("question 1 choice = %q, want Yes", choice)
	}
}
