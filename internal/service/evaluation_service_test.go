package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/dto"
	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

type fakeGradeRepo struct {
	grades        map[uint]models.Grade
	finalizeCalls int
	surveyExists  bool
	savedReport   *models.GradeReport
}

func (f *fakeGradeRepo) List(ctx context.Context, filter repository.GradeFilter) ([]models.Grade, error) {
	result := make([]models.Grade, 0, len(f.grades))
	for _, grade := range f.grades {
		result = append(result, grade)
	}
	return result, nil
}

func (f *fakeGradeRepo) GetByID(ctx context.Context, id uint) (models.Grade, error) {
	grade, ok := f.grades[id]
	if !ok {
		return models.Grade{}, gorm.ErrRecordNotFound
	}
	return grade, nil
}

func (f *fakeGradeRepo) GetByStudentAndSubject(ctx context.Context, studentID, subjectID uint) (models.Grade, error) {
	for _, grade := range f.grades {
		if grade.StudentID == studentID && grade.SubjectID == subjectID {
			return grade, nil
		}
	}
	return models.Grade{}, gorm.ErrRecordNotFound
}

func (f *fakeGradeRepo) Create(ctx context.Context, grade *models.Grade) error {
	if f.grades == nil {
		f.grades = make(map[uint]models.Grade)
	}
	if grade.ID == 0 {
		grade.ID = uint(len(f.grades) + 1)
	}
	f.grades[grade.ID] = *grade
	return nil
}

func (f *fakeGradeRepo) Delete(ctx context.Context, id uint) error {
	delete(f.grades, id)
	return nil
}

func (f *fakeGradeRepo) Finalize(ctx context.Context, grade *models.Grade, report *models.GradeReport, survey *models.Survey) (bool, error) {
	f.finalizeCalls++
	f.grades[grade.ID] = *grade
	report.ID = uint(f.finalizeCalls)
	f.savedReport = report
	if f.surveyExists {
		return false, nil
	}
	f.surveyExists = true
	if survey != nil {
		survey.ID = 1
	}
	return true, nil
}

type fakeReportRepo struct {
	reports     map[uint]models.GradeReport
	updateCalls int
}

func (f *fakeReportRepo) List(ctx context.Context, filter repository.ReportFilter) ([]models.GradeReport, error) {
	result := make([]models.GradeReport, 0, len(f.reports))
	for _, report := range f.reports {
		result = append(result, report)
	}
	return result, nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id uint) (models.GradeReport, error) {
	report, ok := f.reports[id]
	if !ok {
		return models.GradeReport{}, gorm.ErrRecordNotFound
	}
	return report, nil
}

func (f *fakeReportRepo) Update(ctx context.Context, report *models.GradeReport) error {
	f.updateCalls++
	f.reports[report.ID] = *report
	return nil
}

type fakeUserRepo struct {
	users []models.User
}

func (f *fakeUserRepo) List(ctx context.Context) ([]models.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.users = append(f.users, *user)
	return nil
}

type fakeNotifier struct {
	published []dto.NotificationCreateRequest
}

func (f *fakeNotifier) Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	f.published = append(f.published, payload)
	return dto.NotificationResponse{UserID: payload.UserID, Type: payload.Type, Message: payload.Message}, nil
}

func newEvaluationFixture(t *testing.T) (*fakeGradeRepo, *fakeReportRepo, *fakeNotifier, EvaluationService) {
	t.Helper()

	gradeRepo := &fakeGradeRepo{
		grades: map[uint]models.Grade{
			1: {
				ID:        1,
				StudentID: 7,
				SubjectID: 3,
				Subject: models.Subject{
					ID:        3,
					Name:      "Emergency Department",
					TeacherID: 11,
				},
				Competencies: make(models.CompetencyScores, models.MaxCompetencyScores),
			},
		},
	}
	reportRepo := &fakeReportRepo{reports: map[uint]models.GradeReport{}}
	studentID := uint(7)
	userRepo := &fakeUserRepo{users: []models.User{
		{ID: 70, Name: "Jordan Reyes", Role: models.RoleStudent, StudentID: &studentID},
	}}
	notifier := &fakeNotifier{}

	template, err := LoadSurveyTemplate("")
	require.NoError(t, err)

	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewEvaluationService(gradeRepo, reportRepo, userRepo, validate, nil, notifier, template, testLogger())

	return gradeRepo, reportRepo, notifier, svc
}

func TestEvaluateFinalizesGradeAndCascadesSurvey(t *testing.T) {
	gradeRepo, _, notifier, svc := newEvaluationFixture(t)

	result, err := svc.Evaluate(context.Background(), 1, dto.EvaluateRequest{
		Grade1:       floatPtr(6.0),
		Grade3:       floatPtr(7.0),
		Competencies: []*int{intPtr(7), intPtr(7)},
		Feedback:     "Strong clinical reasoning.",
	}, ActivityActor{ID: 11, Role: models.RoleTeacher})
	require.NoError(t, err)

	require.True(t, result.Grade.IsFinalized)
	require.Equal(t, "6.4", result.Grade.FinalGrade)
	require.Equal(t, models.ReportStatusPendingAcceptance, result.Report.Status)
	require.NotEmpty(t, result.Report.Reference)
	require.Equal(t, "6.4", result.Report.FinalGrade)

	require.NotNil(t, result.Survey)
	require.Equal(t, uint(1), result.Survey.GradeID)
	require.Equal(t, models.SurveyStatusIncomplete, result.Survey.Status)
	require.NotEmpty(t, result.Survey.Answers)

	stored := gradeRepo.grades[1]
	require.True(t, stored.IsFinalized)
	require.NotNil(t, stored.Grade2)
	require.InDelta(t, 7.0, *stored.Grade2, 1e-9)

	require.Len(t, notifier.published, 1)
	require.Equal(t, uint(70), notifier.published[0].UserID)
}

func TestEvaluateRejectsEmptyPayload(t *testing.T) {
	gradeRepo, _, _, svc := newEvaluationFixture(t)

	_, err := svc.Evaluate(context.Background(), 1, dto.EvaluateRequest{}, ActivityActor{ID: 11, Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrNoComponents)
	require.Equal(t, 0, gradeRepo.finalizeCalls)
}

func TestEvaluateUnknownGrade(t *testing.T) {
	_, _, _, svc := newEvaluationFixture(t)

	_, err := svc.Evaluate(context.Background(), 99, dto.EvaluateRequest{Grade1: floatPtr(5)}, ActivityActor{ID: 11, Role: models.RoleTeacher})
	require.ErrorIs(t, err, ErrGradeNotFound)
}

func TestEvaluateAgainDoesNotCascadeSecondSurvey(t *testing.T) {
	gradeRepo, _, _, svc := newEvaluationFixture(t)
	actor := ActivityActor{ID: 11, Role: models.RoleTeacher}

	first, err := svc.Evaluate(context.Background(), 1, dto.EvaluateRequest{Grade1: floatPtr(5)}, actor)
	require.NoError(t, err)
	require.NotNil(t, first.Survey)

	second, err := svc.Evaluate(context.Background(), 1, dto.EvaluateRequest{Grade1: floatPtr(6)}, actor)
	require.NoError(t, err)
	require.Nil(t, second.Survey)
	require.Equal(t, "6.0", second.Grade.FinalGrade)
	require.Equal(t, 2, gradeRepo.finalizeCalls)
}

func TestAcceptReportCompletesOnce(t *testing.T) {
	_, reportRepo, _, svc := newEvaluationFixture(t)
	reportRepo.reports[5] = models.GradeReport{
		ID:        5,
		Reference: "ref-5",
		GradeID:   1,
		StudentID: 7,
		Status:    models.ReportStatusPendingAcceptance,
		SignedAt:  time.Now().Add(-time.Hour),
	}

	accepted, err := svc.AcceptReport(context.Background(), 5, dto.AcceptReportRequest{Consent: true}, ActivityActor{ID: 70, Role: models.RoleStudent})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusCompleted, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)
	require.Equal(t, 1, reportRepo.updateCalls)

	_, err = svc.AcceptReport(context.Background(), 5, dto.AcceptReportRequest{Consent: true}, ActivityActor{ID: 70, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrReportAlreadyAccepted)
	require.Equal(t, 1, reportRepo.updateCalls)
}

func TestAcceptReportRequiresConsent(t *testing.T) {
	_, reportRepo, _, svc := newEvaluationFixture(t)
	reportRepo.reports[5] = models.GradeReport{
		ID:     5,
		Status: models.ReportStatusPendingAcceptance,
	}

	_, err := svc.AcceptReport(context.Background(), 5, dto.AcceptReportRequest{}, ActivityActor{ID: 70, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrConsentRequired)
	require.Equal(t, 0, reportRepo.updateCalls)
}

func TestAcceptReportUnknown(t *testing.T) {
	_, _, _, svc := newEvaluationFixture(t)

	_, err := svc.AcceptReport(context.Background(), 404, dto.AcceptReportRequest{Consent: true}, ActivityActor{ID: 70, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrReportNotFound)
}
