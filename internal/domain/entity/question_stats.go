package entity

// TypeCounts breaks available questions down by question type.
type TypeCounts struct {
	MultipleChoice int `json:"multiple_choice"`
	TrueFalse      int `json:"true_false"`
	WrittenAnswer  int `json:"written_answer"`
	FillInBlank    int `json:"fill_in_blank"`
}

// DifficultyCounts breaks available questions down by difficulty.
type DifficultyCounts struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

// QuestionStats are the aggregate counts of available questions for one
// category. Per-type counts may sum to less than Total when some questions
// are uncategorized by type.
type QuestionStats struct {
	Total        int              `json:"total"`
	ByType       TypeCounts       `json:"by_type"`
	ByDifficulty DifficultyCounts `json:"by_difficulty"`
}

// Category is read-only metadata about a question category.
type Category struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	QuestionCount *int   `json:"question_count,omitempty"`
}
