package sessionconfig

import "github.com/yourusername/quizsetup-api/internal/domain/entity"

// Numeric floors applied when a field receives unparsable input, and the
// fallback upper bound used when live stats are missing.
const (
	FloorTotalQuestions     = 1
	FloorPerTypeCount       = 0
	FloorTotalTimeMinutes   = 1
	FloorPerQuestionSeconds = 10

	// FallbackTotalQuestionsMax caps totalQuestions when stats are absent.
	// Per-type fields have no such fallback: without stats their bound is 0,
	// i.e. not editable upward.
	FallbackTotalQuestionsMax = 50

	TotalTimeMinutesMin   = 1
	TotalTimeMinutesMax   = 180
	PerQuestionSecondsMin = 10
	PerQuestionSecondsMax = 600
)

// Bounds are the dynamic upper limits for the numeric settings fields,
// derived from live question stats.
type Bounds struct {
	MultipleChoiceMax int `json:"multiple_choice_max"`
	TrueFalseMax      int `json:"true_false_max"`
	WrittenAnswerMax  int `json:"written_answer_max"`
	FillInBlankMax    int `json:"fill_in_blank_max"`
	TotalQuestionsMax int `json:"total_questions_max"`
}

// BoundsFor derives the field bounds from stats. A nil stats value means the
// stats fetch failed: totalQuestions falls back to a fixed cap and every
// per-type field is bounded at 0.
func BoundsFor(stats *entity.QuestionStats) Bounds {
	if stats == nil {
		return Bounds{TotalQuestionsMax: FallbackTotalQuestionsMax}
	}
	return Bounds{
		MultipleChoiceMax: stats.ByType.MultipleChoice,
		TrueFalseMax:      stats.ByType.TrueFalse,
		WrittenAnswerMax:  stats.ByType.WrittenAnswer,
		FillInBlankMax:    stats.ByType.FillInBlank,
		TotalQuestionsMax: stats.Total,
	}
}
