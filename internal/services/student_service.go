package services

import (
	"regexp"
	"strings"

	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/store"

	"go.uber.org/zap"
)

// College IDs are 2-4 letters followed by exactly 6 digits, e.g. "CSE123456".
// Input is uppercased before matching.
var collegeIDPattern = regexp.MustCompile(`^[A-Z]{2,4}[0-9]{6}$`)

// NormalizeCollegeID validates and canonicalizes a college id. The same rule
// applies to registration and history lookup.
func NormalizeCollegeID(raw string) (string, error) {
	id := strings.ToUpper(strings.TrimSpace(raw))
	if !collegeIDPattern.MatchString(id) {
		return "", domain.ValidationError{Field: "collegeId", Msg: "must be 2-4 letters followed by 6 digits"}
	}
	return id, nil
}

type StudentService struct {
	Store  store.Store
	Logger *zap.Logger
}

func NewStudentService(st store.Store, logger *zap.Logger) *StudentService {
	return &StudentService{Store: st, Logger: logger}
}

// Authenticate finds or creates the student for a college id. Calling it
// twice with the same id yields the same student record.
func (s *StudentService) Authenticate(collegeID, name, email, phone string) (models.Student, error) {
	id, err := NormalizeCollegeID(collegeID)
	if err != nil {
		return models.Student{}, err
	}

	if existing, err := s.Store.FindStudentByCollegeID(id); err == nil {
		return existing, nil
	} else if !domain.IsNotFound(err) {
		return models.Student{}, err
	}

	student, err := s.Store.CreateStudent(models.Student{
		CollegeID: id,
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Phone:     strings.TrimSpace(phone),
	})
	if err != nil {
		// lost a race with a concurrent first login for the same id
		if domain.IsConflict(err) {
			return s.Store.FindStudentByCollegeID(id)
		}
		return models.Student{}, err
	}

	s.Logger.Info("student registered", zap.String("college_id", id), zap.String("student_id", student.ID))
	return student, nil
}

// FindByCollegeID resolves a student without creating one.
func (s *StudentService) FindByCollegeID(collegeID string) (models.Student, error) {
	id, err := NormalizeCollegeID(collegeID)
	if err != nil {
		return models.Student{}, err
	}
	return s.Store.FindStudentByCollegeID(id)
}
