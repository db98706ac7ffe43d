package entity

// QuizMode determines how a quiz session is run.
type QuizMode string

const (
	QuizModePractice QuizMode = "practice"
	QuizModeTimed    QuizMode = "timed"
	QuizModeExam     QuizMode = "exam"
)

// IsValid reports whether the mode is one of the known variants.
func (m QuizMode) IsValid() bool {
	switch m {
	case QuizModePractice, QuizModeTimed, QuizModeExam:
		return true
	}
	return false
}

// UsesTimer reports whether the mode requires timer settings.
// Practice is the only untimed mode.
func (m QuizMode) UsesTimer() bool {
	return m == QuizModeTimed || m == QuizModeExam
}

// Difficulty filters which questions are drawn into a session.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyMixed  Difficulty = "mixed"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyMixed:
		return true
	}
	return false
}

// SelectionMode determines whether questions are drawn from the whole pool
// (mixed) or with explicit per-type counts (custom).
type SelectionMode string

const (
	SelectionMixed  SelectionMode = "mixed"
	SelectionCustom SelectionMode = "custom"
)

func (s SelectionMode) IsValid() bool {
	return s == SelectionMixed || s == SelectionCustom
}

// TimerType determines whether the time budget covers the whole session or
// each question individually.
type TimerType string

const (
	TimerTotal       TimerType = "total"
	TimerPerQuestion TimerType = "per_question"
)

func (t TimerType) IsValid() bool {
	return t == TimerTotal || t == TimerPerQuestion
}

// QuizSettings is the mutable draft a user assembles before starting a quiz.
// JSON field names are fixed by the session-creation API contract; the full
// shape is always serialized regardless of which selection/timer mode is
// active — the backend honors only the relevant subset.
type QuizSettings struct {
	Mode                   QuizMode      `json:"mode"`
	Difficulty             Difficulty    `json:"difficulty"`
	SelectionMode          SelectionMode `json:"selectionMode"`
	MultipleChoice         int           `json:"multipleChoice"`
	TrueFalse              int           `json:"trueFalse"`
	WrittenAnswer          int           `json:"writtenAnswer"`
	FillInBlank            int           `json:"fillInBlank"`
	TotalQuestions         int           `json:"totalQuestions"`
	TimerType              TimerType     `json:"timerType"`
	TotalTimeMinutes       int           `json:"totalTimeMinutes"`
	PerQuestionSeconds     int           `json:"perQuestionSeconds"`
	AllowPartialCredit     bool          `json:"allowPartialCredit"`
	AllowHandwrittenUpload bool          `json:"allowHandwrittenUpload"`
	Chapter                string        `json:"chapter"`
}

// DefaultQuizSettings returns the fixed defaults every fresh draft starts
// from: untimed practice over the whole pool.
func DefaultQuizSettings() QuizSettings {
	return QuizSettings{
		Mode:                   QuizModePractice,
		Difficulty:             DifficultyMixed,
		SelectionMode:          SelectionMixed,
		MultipleChoice:         0,
		TrueFalse:              0,
		WrittenAnswer:          0,
		FillInBlank:            0,
		TotalQuestions:         10,
		TimerType:              TimerTotal,
		TotalTimeMinutes:       30,
		PerQuestionSeconds:     60,
		AllowPartialCredit:     true,
		AllowHandwrittenUpload: true,
		Chapter:                "",
	}
}

// CustomTotal is the derived sum of the four per-type counts. It is never
// stored, only displayed.
func (s QuizSettings) CustomTotal() int {
	return s.MultipleChoice + s.TrueFalse + s.WrittenAnswer + s.FillInBlank
}
