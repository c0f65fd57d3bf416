package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/dto"
	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/repository"
)

type fakeSurveyRepo struct {
	surveys     map[uint]models.Survey
	updateCalls int
}

func (f *fakeSurveyRepo) List(ctx context.Context, filter repository.SurveyFilter) ([]models.Survey, error) {
	result := make([]models.Survey, 0, len(f.surveys))
	for _, survey := range f.surveys {
		if filter.StudentID != nil && survey.StudentID != *filter.StudentID {
			continue
		}
		if filter.Status != nil && survey.Status != *filter.Status {
			continue
		}
		result = append(result, survey)
	}
	return result, nil
}

func (f *fakeSurveyRepo) GetByID(ctx context.Context, id uint) (models.Survey, error) {
	survey, ok := f.surveys[id]
	if !ok {
		return models.Survey{}, gorm.ErrRecordNotFound
	}
	return survey, nil
}

func (f *fakeSurveyRepo) GetByGradeID(ctx context.Context, gradeID uint) (models.Survey, error) {
	for _, survey := range f.surveys {
		if survey.GradeID == gradeID {
			return survey, nil
		}
	}
	return models.Survey{}, gorm.ErrRecordNotFound
}

func (f *fakeSurveyRepo) Update(ctx context.Context, survey *models.Survey) error {
	f.updateCalls++
	f.surveys[survey.ID] = *survey
	return nil
}

func newSurveyFixture(t *testing.T) (SurveyService, *fakeSurveyRepo) {
	t.Helper()

	teacherID := uint(11)
	repo := &fakeSurveyRepo{surveys: map[uint]models.Survey{
		1: {
			ID:        1,
			GradeID:   1,
			StudentID: 7,
			SubjectID: 3,
			TeacherID: &teacherID,
			Status:    models.SurveyStatusIncomplete,
			Answers: datatypes.JSONSlice[models.SurveyAnswer]{
				{Question: "Was the supervision adequate?"},
			},
		},
	}}

	svc := NewSurveyService(repo, validator.New(validator.WithRequiredStructEnabled()), nil, testLogger())
	return svc, repo
}

func TestSurveyServiceComplete(t *testing.T) {
	svc, repo := newSurveyFixture(t)
	actor := ActivityActor{ID: 70, Role: models.RoleStudent}

	payload := dto.SurveyCompleteRequest{Answers: []dto.SurveyAnswerPayload{
		{Question: "Was the supervision adequate?", Answer: "  Yes, <script>alert(1)</script>very much so.  "},
	}}

	completed, err := svc.Complete(context.Background(), 1, payload, actor)
	require.NoError(t, err)
	require.Equal(t, models.SurveyStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	require.Len(t, completed.Answers, 1)
	require.Equal(t, "Yes, very much so.", completed.Answers[0].Answer)

	stored := repo.surveys[1]
	require.True(t, stored.IsCompleted())
	require.Equal(t, 1, repo.updateCalls)
}

func TestSurveyServiceCompleteTwice(t *testing.T) {
	svc, repo := newSurveyFixture(t)
	payload := dto.SurveyCompleteRequest{Answers: []dto.SurveyAnswerPayload{
		{Question: "Was the supervision adequate?", Answer: "Yes."},
	}}

	_, err := svc.Complete(context.Background(), 1, payload, ActivityActor{ID: 70, Role: models.RoleStudent})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), 1, payload, ActivityActor{ID: 70, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrSurveyAlreadyCompleted)
	require.Equal(t, 1, repo.updateCalls)
}

func TestSurveyServiceCompleteUnknown(t *testing.T) {
	svc, _ := newSurveyFixture(t)
	payload := dto.SurveyCompleteRequest{Answers: []dto.SurveyAnswerPayload{
		{Question: "Was the supervision adequate?", Answer: "Yes."},
	}}

	_, err := svc.Complete(context.Background(), 42, payload, ActivityActor{ID: 70, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrSurveyNotFound)
}

func TestSurveyServiceCompleteValidation(t *testing.T) {
	svc, repo := newSurveyFixture(t)

	_, err := svc.Complete(context.Background(), 1, dto.SurveyCompleteRequest{}, ActivityActor{})
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	require.Zero(t, repo.updateCalls)
}

func TestSurveyServiceListFilters(t *testing.T) {
	svc, repo := newSurveyFixture(t)
	repo.surveys[2] = models.Survey{ID: 2, GradeID: 2, StudentID: 8, SubjectID: 3, Status: models.SurveyStatusCompleted}

	studentID := uint(7)
	surveys, err := svc.List(context.Background(), dto.SurveyListRequest{StudentID: &studentID})
	require.NoError(t, err)
	require.Len(t, surveys, 1)
	require.Equal(t, uint(1), surveys[0].ID)

	status := models.SurveyStatusCompleted
	surveys, err = svc.List(context.Background(), dto.SurveyListRequest{Status: &status})
	require.NoError(t, err)
	require.Len(t, surveys, 1)
	require.Equal(t, uint(2), surveys[0].ID)

	bad := "pending"
	_, err = svc.List(context.Background(), dto.SurveyListRequest{Status: &bad})
	require.Error(t, err)
}
