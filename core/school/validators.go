package school

import (
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo/core"
)

var (
	examTypeTag  = "examtype"
	examTypeText = "{0} must be one of quiz, midterm or final"

	scoreMaxTag  = "scoremax"
	scoreMaxText = "{0} cannot be greater than the maximum score ({1})"
)

// InitValidators registers the school validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(examTypeTag, examTypeValidation)
	core.RegisterCustomTranslation(validate, translator, examTypeTag, examTypeText)

	validate.RegisterStructValidation(newMarkStructValidation, NewMark{})
	core.RegisterCustomTranslation(validate, translator, scoreMaxTag, scoreMaxText)
}

// Custom Validators

func examTypeValidation(fl validator.FieldLevel) bool {
	return ExamType(fl.Field().String()).IsValid()
}

// newMarkStructValidation checks that the score does not exceed the max score.
func newMarkStructValidation(sl validator.StructLevel) {
	nm, ok := sl.Current().Interface().(NewMark)
	if !ok || nm.Score == nil || nm.MaxScore <= 0 {
		return
	}
	if *nm.Score > nm.MaxScore {
		sl.ReportError(*nm.Score, "score", "Score", scoreMaxTag, strconv.FormatFloat(nm.MaxScore, 'f', -1, 64))
	}
}
