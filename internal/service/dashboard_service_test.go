package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/remed-api/internal/models"
)

func testCache(t *testing.T) *redis.Client {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newDashboardFixture(t *testing.T, cache *redis.Client) (StudentDashboardService, *fakeGradeRepo, *fakeReportRepo, *fakeSurveyRepo) {
	t.Helper()

	grades := &fakeGradeRepo{grades: map[uint]models.Grade{
		1: {
			ID:          1,
			StudentID:   7,
			SubjectID:   3,
			Grade1:      floatPtr(6.0),
			Grade2:      floatPtr(7.0),
			Grade3:      floatPtr(7.0),
			IsFinalized: true,
		},
		2: {ID: 2, StudentID: 7, SubjectID: 4},
	}}
	reports := &fakeReportRepo{reports: map[uint]models.GradeReport{
		1: {ID: 1, GradeID: 1, StudentID: 7, Status: models.ReportStatusPendingAcceptance},
	}}
	surveys := &fakeSurveyRepo{surveys: map[uint]models.Survey{
		1: {ID: 1, GradeID: 1, StudentID: 7, SubjectID: 3, Status: models.SurveyStatusIncomplete},
	}}

	svc := NewStudentDashboardService(grades, reports, surveys, cache, time.Minute, testLogger())
	return svc, grades, reports, surveys
}

func TestStudentDashboardAggregation(t *testing.T) {
	svc, _, _, _ := newDashboardFixture(t, nil)

	dashboard, err := svc.GetDashboard(context.Background(), 7)
	require.NoError(t, err)

	require.Equal(t, 2, dashboard.Summary.TotalRotations)
	require.Equal(t, 1, dashboard.Summary.Finalized)
	require.Equal(t, 1, dashboard.Summary.InProgress)
	require.Equal(t, 1, dashboard.Summary.ReportsPending)
	require.Equal(t, 1, dashboard.Summary.SurveysOutstanding)
	require.NotNil(t, dashboard.Summary.AverageFinalGrade)
	require.InDelta(t, 6.4, *dashboard.Summary.AverageFinalGrade, 1e-9)
	require.Len(t, dashboard.Grades, 2)
	require.Len(t, dashboard.PendingReports, 1)
	require.Len(t, dashboard.OpenSurveys, 1)
}

func TestStudentDashboardCaching(t *testing.T) {
	cache := testCache(t)
	svc, grades, _, _ := newDashboardFixture(t, cache)

	first, err := svc.GetDashboard(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 2, first.Summary.TotalRotations)

	// Mutating the store must not show through while the cache entry lives.
	grades.grades[3] = models.Grade{ID: 3, StudentID: 7, SubjectID: 5}

	second, err := svc.GetDashboard(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 2, second.Summary.TotalRotations)
}

func TestStudentDashboardWithoutCache(t *testing.T) {
	svc, grades, _, _ := newDashboardFixture(t, nil)

	first, err := svc.GetDashboard(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 2, first.Summary.TotalRotations)

	grades.grades[3] = models.Grade{ID: 3, StudentID: 7, SubjectID: 5}

	second, err := svc.GetDashboard(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 3, second.Summary.TotalRotations)
}
