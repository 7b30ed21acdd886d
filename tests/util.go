package testutil

import (
	"sync"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/school"
	"github.com/trezcool/masomo/storage/database/inmem"
)

var (
	validatorOnce sync.Once
	validate      *validator.Validate
	translator    ut.Translator
)

// Validator returns the validator & translator shared by the test helpers, with every app validator & translation
// registered. Validation errors only translate with the translator their validator registered.
func Validator() (*validator.Validate, ut.Translator) {
	validatorOnce.Do(func() {
		validate = validator.New()
		translator = core.NewTranslator()
		core.InitValidators(validate, translator)
		school.InitValidators(validate, translator)
	})
	return validate, translator
}

// NewSchoolService returns a school.Service over a freshly seeded in-memory DB.
func NewSchoolService(t *testing.T) *school.Service {
	t.Helper()
	db, err := inmemdb.OpenSeeded()
	if err != nil {
		t.Fatalf("inmemdb.OpenSeeded() failed: %v", err)
	}
	return NewSchoolServiceWith(t, db)
}

// NewSchoolServiceWith returns a school.Service over db, continuing its mark ids.
func NewSchoolServiceWith(t *testing.T, db *inmemdb.DB) *school.Service {
	t.Helper()
	repo := inmemdb.NewSchoolRepository(db)
	count, err := repo.CountMarks()
	if err != nil {
		t.Fatalf("CountMarks() failed: %v", err)
	}
	v, _ := Validator()
	return school.NewService(repo, school.NewSequentialIDs(count), v, NopLogger{})
}

// NewMark builds a school.NewMark.
func NewMark(studentID, subjectID string, examType school.ExamType, score, maxScore float64, date string) school.NewMark {
	return school.NewMark{
		StudentID: studentID,
		SubjectID: subjectID,
		ExamType:  examType,
		Score:     &score,
		MaxScore:  maxScore,
		Date:      date,
	}
}

// NopLogger discards everything.
type NopLogger struct{}

var _ core.Logger = NopLogger{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}
