package sessionconfig

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/quizsetup-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizsetup-api/internal/pkg/errors"
)

// Flags are the derived presentation rules for one draft state. They are
// recomputed from settings + stats on every read, never stored.
type Flags struct {
	// SubmitEnabled is false whenever the category has no questions (or
	// stats are missing) — there is nothing to quiz on.
	SubmitEnabled bool `json:"submit_enabled"`

	// NoQuestionsNotice carries the visible message shown when submission
	// is disabled for lack of questions.
	NoQuestionsNotice string `json:"no_questions_notice,omitempty"`

	// TimerVisible: timer settings are shown for every mode except practice.
	TimerVisible bool `json:"timer_visible"`

	// ExamWarning: the focus-loss tracking notice, exam mode only.
	ExamWarning bool `json:"exam_warning"`

	// ChapterFilterVisible: the chapter control is offered only when the
	// category actually has chapters.
	ChapterFilterVisible bool `json:"chapter_filter_visible"`

	// CustomTotal is the derived sum of the four per-type counts.
	CustomTotal int `json:"custom_total"`
}

// DeriveFlags computes the presentation rules for the current draft state.
func DeriveFlags(settings entity.QuizSettings, stats *entity.QuestionStats, chapters []string) Flags {
	flags := Flags{
		SubmitEnabled:        stats != nil && stats.Total > 0,
		TimerVisible:         settings.Mode.UsesTimer(),
		ExamWarning:          settings.Mode == entity.QuizModeExam,
		ChapterFilterVisible: len(chapters) > 0,
		CustomTotal:          settings.CustomTotal(),
	}
	if !flags.SubmitEnabled {
		flags.NoQuestionsNotice = "No questions are available in this category yet."
	}
	return flags
}

// Settings field names as they appear on the wire. These match the
// session-creation request body verbatim.
const (
	FieldMode                   = "mode"
	FieldDifficulty             = "difficulty"
	FieldSelectionMode          = "selectionMode"
	FieldMultipleChoice         = "multipleChoice"
	FieldTrueFalse              = "trueFalse"
	FieldWrittenAnswer          = "writtenAnswer"
	FieldFillInBlank            = "fillInBlank"
	FieldTotalQuestions         = "totalQuestions"
	FieldTimerType              = "timerType"
	FieldTotalTimeMinutes       = "totalTimeMinutes"
	FieldPerQuestionSeconds     = "perQuestionSeconds"
	FieldAllowPartialCredit     = "allowPartialCredit"
	FieldAllowHandwrittenUpload = "allowHandwrittenUpload"
	FieldChapter                = "chapter"
)

// ApplyField returns a copy of settings with exactly one field replaced.
// No cross-field validation happens here — a user may freely switch modes
// without losing the values of fields the new mode does not use; validation
// is deferred to submission.
//
// Numeric fields self-correct: unparsable input becomes the field's floor
// instead of an error, mirroring how the input controls behave.
func ApplyField(settings entity.QuizSettings, field string, value json.RawMessage) (entity.QuizSettings, error) {
	next := settings

	switch field {
	case FieldMode:
		mode := entity.QuizMode(parseString(value))
		if !mode.IsValid() {
			return settings, fmt.Errorf("%w: unknown quiz mode %q", apperrors.ErrValidation, parseString(value))
		}
		next.Mode = mode
	case FieldDifficulty:
		difficulty := entity.Difficulty(parseString(value))
		if !difficulty.IsValid() {
			return settings, fmt.Errorf("%w: unknown difficulty %q", apperrors.ErrValidation, parseString(value))
		}
		next.Difficulty = difficulty
	case FieldSelectionMode:
		selection := entity.SelectionMode(parseString(value))
		if !selection.IsValid() {
			return settings, fmt.Errorf("%w: unknown selection mode %q", apperrors.ErrValidation, parseString(value))
		}
		next.SelectionMode = selection
	case FieldMultipleChoice:
		next.MultipleChoice = parseCount(value, FloorPerTypeCount)
	case FieldTrueFalse:
		next.TrueFalse = parseCount(value, FloorPerTypeCount)
	case FieldWrittenAnswer:
		next.WrittenAnswer = parseCount(value, FloorPerTypeCount)
	case FieldFillInBlank:
		next.FillInBlank = parseCount(value, FloorPerTypeCount)
	case FieldTotalQuestions:
		next.TotalQuestions = parseCount(value, FloorTotalQuestions)
	case FieldTimerType:
		timer := entity.TimerType(parseString(value))
		if !timer.IsValid() {
			return settings, fmt.Errorf("%w: unknown timer type %q", apperrors.ErrValidation, parseString(value))
		}
		next.TimerType = timer
	case FieldTotalTimeMinutes:
		next.TotalTimeMinutes = parseCount(value, FloorTotalTimeMinutes)
	case FieldPerQuestionSeconds:
		next.PerQuestionSeconds = parseCount(value, FloorPerQuestionSeconds)
	case FieldAllowPartialCredit:
		next.AllowPartialCredit = parseBool(value, settings.AllowPartialCredit)
	case FieldAllowHandwrittenUpload:
		next.AllowHandwrittenUpload = parseBool(value, settings.AllowHandwrittenUpload)
	case FieldChapter:
		next.Chapter = parseString(value)
	default:
		return settings, fmt.Errorf("%w: unknown settings field %q", apperrors.ErrValidation, field)
	}

	return next, nil
}

// ValidateForSubmit checks the draft against live availability right before
// the session-creation request is built. Only the fields relevant to the
// active selection/timer mode are checked; inactive fields may hold any
// preserved value.
func ValidateForSubmit(settings entity.QuizSettings, stats *entity.QuestionStats) error {
	if stats == nil || stats.Total <= 0 {
		return fmt.Errorf("%w: no questions are available in this category", apperrors.ErrValidation)
	}

	switch settings.SelectionMode {
	case entity.SelectionMixed:
		if settings.TotalQuestions < FloorTotalQuestions {
			return fmt.Errorf("%w: totalQuestions must be at least %d", apperrors.ErrValidation, FloorTotalQuestions)
		}
		if settings.TotalQuestions > stats.Total {
			return fmt.Errorf("%w: totalQuestions %d exceeds the %d available", apperrors.ErrValidation, settings.TotalQuestions, stats.Total)
		}
	case entity.SelectionCustom:
		if err := checkPerType(settings.MultipleChoice, stats.ByType.MultipleChoice, FieldMultipleChoice); err != nil {
			return err
		}
		if err := checkPerType(settings.TrueFalse, stats.ByType.TrueFalse, FieldTrueFalse); err != nil {
			return err
		}
		if err := checkPerType(settings.WrittenAnswer, stats.ByType.WrittenAnswer, FieldWrittenAnswer); err != nil {
			return err
		}
		if err := checkPerType(settings.FillInBlank, stats.ByType.FillInBlank, FieldFillInBlank); err != nil {
			return err
		}
		if settings.CustomTotal() < 1 {
			return fmt.Errorf("%w: custom selection needs at least one question", apperrors.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown selection mode %q", apperrors.ErrValidation, settings.SelectionMode)
	}

	if settings.Mode.UsesTimer() {
		switch settings.TimerType {
		case entity.TimerTotal:
			if settings.TotalTimeMinutes < TotalTimeMinutesMin || settings.TotalTimeMinutes > TotalTimeMinutesMax {
				return fmt.Errorf("%w: totalTimeMinutes must be within [%d, %d]", apperrors.ErrValidation, TotalTimeMinutesMin, TotalTimeMinutesMax)
			}
		case entity.TimerPerQuestion:
			if settings.PerQuestionSeconds < PerQuestionSecondsMin || settings.PerQuestionSeconds > PerQuestionSecondsMax {
				return fmt.Errorf("%w: perQuestionSeconds must be within [%d, %d]", apperrors.ErrValidation, PerQuestionSecondsMin, PerQuestionSecondsMax)
			}
		default:
			return fmt.Errorf("%w: unknown timer type %q", apperrors.ErrValidation, settings.TimerType)
		}
	}

	return nil
}

func checkPerType(value, available int, field string) error {
	if value < 0 {
		return fmt.Errorf("%w: %s cannot be negative", apperrors.ErrValidation, field)
	}
	if value > available {
		return fmt.Errorf("%w: %s %d exceeds the %d available", apperrors.ErrValidation, field, value, available)
	}
	return nil
}

// parseString accepts both a JSON string and a bare literal.
func parseString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// parseCount accepts a JSON number or a numeric string; anything unparsable
// (including empty input) self-corrects to the floor. Values below the floor
// are raised to it.
func parseCount(raw json.RawMessage, floor int) int {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return floor
		}
		parsed, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return floor
		}
		n = parsed
	}
	if n < floor {
		return floor
	}
	return n
}

// parseBool keeps the current value on unparsable input; a toggle has no
// meaningful floor.
func parseBool(raw json.RawMessage, current bool) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return current
	}
	return b
}
