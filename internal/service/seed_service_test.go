package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/models"
)

type fakeTeacherRepo struct {
	teachers map[uint]models.Teacher
}

func (f *fakeTeacherRepo) List(ctx context.Context) ([]models.Teacher, error) {
	result := make([]models.Teacher, 0, len(f.teachers))
	for _, teacher := range f.teachers {
		result = append(result, teacher)
	}
	return result, nil
}

func (f *fakeTeacherRepo) GetByID(ctx context.Context, id uint) (models.Teacher, error) {
	teacher, ok := f.teachers[id]
	if !ok {
		return models.Teacher{}, gorm.ErrRecordNotFound
	}
	return teacher, nil
}

func (f *fakeTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	if f.teachers == nil {
		f.teachers = make(map[uint]models.Teacher)
	}
	if teacher.ID == 0 {
		teacher.ID = uint(len(f.teachers) + 1)
	}
	f.teachers[teacher.ID] = *teacher
	return nil
}

type seedFixture struct {
	service  SeedService
	users    *fakeUserRepo
	grades   *fakeGradeRepo
	teachers *fakeTeacherRepo
	news     *fakeNewsRepo
}

func newSeedFixture(t *testing.T, enabled bool, token string) seedFixture {
	t.Helper()

	users := &fakeUserRepo{}
	grades := &fakeGradeRepo{grades: map[uint]models.Grade{}}
	teachers := &fakeTeacherRepo{teachers: map[uint]models.Teacher{}}
	news := newNewsFixture(nil)

	svc := NewSeedService(
		&fakeStudentRepo{students: map[uint]models.Student{}},
		teachers,
		&fakeSubjectRepo{subjects: map[uint]models.Subject{}},
		users,
		grades,
		NewNewsService(news, nil, 0, testLogger()),
		enabled,
		token,
		testLogger(),
	)

	return seedFixture{service: svc, users: users, grades: grades, teachers: teachers, news: news}
}

func TestSeedDemoPopulatesRegistry(t *testing.T) {
	fixture := newSeedFixture(t, true, "local-secret")

	summary, err := fixture.service.SeedDemo(context.Background(), "local-secret")
	require.NoError(t, err)

	require.Positive(t, summary.Teachers)
	require.Positive(t, summary.Students)
	require.Positive(t, summary.Subjects)
	require.Positive(t, summary.Grades)
	require.Positive(t, summary.News)
	// One account per teacher and student, plus the coordinator.
	require.Equal(t, summary.Teachers+summary.Students+1, summary.Users)
	require.Len(t, fixture.users.users, summary.Users)

	for _, grade := range fixture.grades.grades {
		require.False(t, grade.IsFinalized)
		require.Len(t, grade.Competencies, models.MaxCompetencyScores)
	}
}

func TestSeedDemoDisabled(t *testing.T) {
	fixture := newSeedFixture(t, false, "local-secret")

	_, err := fixture.service.SeedDemo(context.Background(), "local-secret")
	require.ErrorIs(t, err, ErrSeedDisabled)
	require.Empty(t, fixture.users.users)
}

func TestSeedDemoBadToken(t *testing.T) {
	fixture := newSeedFixture(t, true, "local-secret")

	_, err := fixture.service.SeedDemo(context.Background(), "wrong")
	require.ErrorIs(t, err, ErrSeedUnauthorized)
	require.Empty(t, fixture.users.users)
}

func TestSeedDemoAlreadyApplied(t *testing.T) {
	fixture := newSeedFixture(t, true, "local-secret")

	_, err := fixture.service.SeedDemo(context.Background(), "local-secret")
	require.NoError(t, err)

	_, err = fixture.service.SeedDemo(context.Background(), "local-secret")
	require.ErrorIs(t, err, ErrSeedAlreadyApplied)
}
