package school

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/user"
)

var (
	// errors
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("record id already taken")
)

type (
	// Repository is the record store backing the school Service.
	// Query results keep insertion order.
	Repository interface {
		GetStudent(id string) (Student, error)
		GetTeacher(id string) (Teacher, error)
		GetSubject(id string) (Subject, error)
		QueryStudents(filter StudentFilter) ([]Student, error)
		QueryTeachers() ([]Teacher, error)
		QuerySubjects(filter SubjectFilter) ([]Subject, error)
		QueryMarks(filter MarkFilter) ([]Mark, error)
		QueryAttendance(studentID string) ([]Attendance, error)
		CreateMark(mark Mark) (Mark, error)
		CountMarks() (int, error)
	}

	Service struct {
		repo     Repository
		ids      IDGenerator
		validate *validator.Validate
		logger   core.Logger
	}
)

func NewService(repo Repository, ids IDGenerator, validate *validator.Validate, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		ids:      ids,
		validate: validate,
		logger:   logger,
	}
}

// Lookups

func (svc *Service) StudentByID(id string) (Student, error) {
	return svc.repo.GetStudent(core.CleanString(id))
}

func (svc *Service) TeacherByID(id string) (Teacher, error) {
	return svc.repo.GetTeacher(core.CleanString(id))
}

func (svc *Service) SubjectByID(id string) (Subject, error) {
	return svc.repo.GetSubject(core.CleanString(id))
}

// SubjectName returns the subject's display name, or the id itself when the subject is unknown.
func (svc *Service) SubjectName(id string) string {
	if sub, err := svc.repo.GetSubject(id); err == nil {
		return sub.Name
	}
	return id
}

func (svc *Service) Students() ([]Student, error) {
	return svc.repo.QueryStudents(StudentFilter{})
}

func (svc *Service) Teachers() ([]Teacher, error) {
	return svc.repo.QueryTeachers()
}

func (svc *Service) Subjects() ([]Subject, error) {
	return svc.repo.QuerySubjects(SubjectFilter{})
}

func (svc *Service) Marks() ([]Mark, error) {
	return svc.repo.QueryMarks(MarkFilter{})
}

// Relations

func (svc *Service) StudentsByClass(class string) ([]Student, error) {
	class = core.CleanString(class)
	if class == "" {
		return nil, nil
	}
	return svc.repo.QueryStudents(StudentFilter{Class: class})
}

func (svc *Service) MarksByStudent(studentIDs ...string) ([]Mark, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	return svc.repo.QueryMarks(MarkFilter{StudentIDs: studentIDs})
}

func (svc *Service) MarksBySubject(subjectID string) ([]Mark, error) {
	subjectID = core.CleanString(subjectID)
	if subjectID == "" {
		return nil, nil
	}
	return svc.repo.QueryMarks(MarkFilter{SubjectID: subjectID})
}

func (svc *Service) SubjectsByTeacher(teacherID string) ([]Subject, error) {
	teacherID = core.CleanString(teacherID)
	if teacherID == "" {
		return nil, nil
	}
	return svc.repo.QuerySubjects(SubjectFilter{TeacherID: teacherID})
}

func (svc *Service) AttendanceByStudent(studentID string) ([]Attendance, error) {
	studentID = core.CleanString(studentID)
	if studentID == "" {
		return nil, nil
	}
	return svc.repo.QueryAttendance(studentID)
}

// Classes returns the distinct class labels in first-seen order.
func (svc *Service) Classes() ([]string, error) {
	students, err := svc.repo.QueryStudents(StudentFilter{})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	classes := make([]string, 0)
	for _, stu := range students {
		if !seen[stu.Class] {
			seen[stu.Class] = true
			classes = append(classes, stu.Class)
		}
	}
	return classes, nil
}

func (svc *Service) CountMarks() (int, error) {
	return svc.repo.CountMarks()
}

// Mutations

// ValidateMark cleans & validates nm, including that it references a known student and subject.
func (svc *Service) ValidateMark(nm *NewMark) error {
	nm.Clean()
	if err := svc.validate.Struct(nm); err != nil {
		return err
	}
	if _, err := svc.repo.GetStudent(nm.StudentID); err != nil {
		return svc.lookupError(err, "student_id", "unknown student")
	}
	if _, err := svc.repo.GetSubject(nm.SubjectID); err != nil {
		return svc.lookupError(err, "subject_id", "unknown subject")
	}
	return nil
}

func (svc *Service) lookupError(err error, field, msg string) error {
	if errors.Cause(err) == ErrNotFound {
		return core.NewValidationError(nil, core.FieldError{Field: field, Error: msg})
	}
	return errors.Wrapf(err, "checking %s", field)
}

// AddMark validates nm and appends it to the store. Nothing is stored when validation fails.
func (svc *Service) AddMark(nm NewMark) (Mark, error) {
	if err := svc.ValidateMark(&nm); err != nil {
		return Mark{}, err
	}

	mark := Mark{
		ID:        svc.ids.NextMarkID(),
		StudentID: nm.StudentID,
		SubjectID: nm.SubjectID,
		ExamType:  nm.ExamType,
		Score:     *nm.Score,
		MaxScore:  nm.MaxScore,
		Date:      nm.Date,
	}
	created, err := svc.repo.CreateMark(mark)
	if err != nil {
		if errors.Cause(err) == ErrDuplicateID {
			// the id generator is behind the store: every later mark would collide too
			return Mark{}, core.NewShutdownError(fmt.Sprintf("mark id %s already taken", mark.ID))
		}
		return Mark{}, errors.Wrap(err, "creating mark")
	}
	if svc.logger != nil {
		svc.logger.Info(fmt.Sprintf("mark %s recorded for %s in %s", created.ID, created.StudentID, created.SubjectID))
	}
	return created, nil
}

// AddMarkAs records nm on behalf of actor: admins may record any mark,
// teachers only marks in the subjects they own.
func (svc *Service) AddMarkAs(actor user.User, nm NewMark) (Mark, error) {
	switch actor.Role {
	case user.RoleAdmin:
	case user.RoleTeacher:
		if err := svc.ValidateMark(&nm); err != nil {
			return Mark{}, err
		}
		sub, err := svc.repo.GetSubject(nm.SubjectID)
		if err != nil {
			return Mark{}, errors.Wrap(err, "finding subject")
		}
		if sub.TeacherID != actor.ID {
			return Mark{}, core.ErrPermissionDenied
		}
	default:
		return Mark{}, core.ErrPermissionDenied
	}
	return svc.AddMark(nm)
}
