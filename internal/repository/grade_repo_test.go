package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/remed-api/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Student{},
		&models.Teacher{},
		&models.Subject{},
		&models.Grade{},
		&models.GradeReport{},
		&models.Survey{},
	))
	return db
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func seedGrade(t *testing.T, db *gorm.DB) models.Grade {
	t.Helper()

	teacher := models.Teacher{Name: "Dr. Amara Boateng", Email: "amara@remed.example"}
	require.NoError(t, db.Create(&teacher).Error)

	student := models.Student{Name: "Jordan Reyes", Email: "jordan@remed.example", PromotionYear: 2024}
	require.NoError(t, db.Create(&student).Error)

	subject := models.Subject{Name: "Cardiology", TeacherID: teacher.ID}
	require.NoError(t, db.Omit("Teacher").Create(&subject).Error)

	grade := models.Grade{
		StudentID:    student.ID,
		SubjectID:    subject.ID,
		Competencies: make(models.CompetencyScores, models.MaxCompetencyScores),
	}
	require.NoError(t, db.Create(&grade).Error)
	return grade
}

func TestGradeRepositoryListFilters(t *testing.T) {
	db := testDB(t)
	repo := NewGradeRepository(db)
	ctx := context.Background()

	grade := seedGrade(t, db)

	finalized := true
	grades, err := repo.List(ctx, GradeFilter{IsFinalized: &finalized})
	require.NoError(t, err)
	require.Empty(t, grades)

	grades, err = repo.List(ctx, GradeFilter{StudentID: &grade.StudentID})
	require.NoError(t, err)
	require.Len(t, grades, 1)
	require.Equal(t, "Jordan Reyes", grades[0].Student.Name)
	require.Equal(t, "Dr. Amara Boateng", grades[0].Subject.Teacher.Name)
}

func TestGradeRepositoryGetByStudentAndSubject(t *testing.T) {
	db := testDB(t)
	repo := NewGradeRepository(db)
	ctx := context.Background()

	grade := seedGrade(t, db)

	found, err := repo.GetByStudentAndSubject(ctx, grade.StudentID, grade.SubjectID)
	require.NoError(t, err)
	require.Equal(t, grade.ID, found.ID)

	_, err = repo.GetByStudentAndSubject(ctx, grade.StudentID, grade.SubjectID+1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func buildFinalization(grade models.Grade, reference string) (models.Grade, models.GradeReport, models.Survey) {
	grade.Grade1 = floatPtr(6.0)
	grade.Grade3 = floatPtr(7.0)
	grade.Competencies = models.CompetencyScores{intPtr(7), intPtr(7), nil, nil, nil, nil, nil, nil}
	grade.IsFinalized = true

	report := models.GradeReport{
		Reference:    reference,
		GradeID:      grade.ID,
		StudentID:    grade.StudentID,
		SubjectID:    grade.SubjectID,
		TeacherID:    1,
		Grade1:       grade.Grade1,
		Grade3:       grade.Grade3,
		FinalGrade:   models.ComputeFinalGrade(grade),
		Competencies: grade.Competencies,
		Status:       models.ReportStatusPendingAcceptance,
		SignedAt:     time.Now(),
	}

	teacherID := uint(1)
	survey := models.Survey{
		GradeID:   grade.ID,
		StudentID: grade.StudentID,
		SubjectID: grade.SubjectID,
		TeacherID: &teacherID,
		Status:    models.SurveyStatusIncomplete,
	}

	return grade, report, survey
}

func TestGradeRepositoryFinalizePersistsAtomically(t *testing.T) {
	db := testDB(t)
	repo := NewGradeRepository(db)
	ctx := context.Background()

	grade, report, survey := buildFinalization(seedGrade(t, db), "RPT-0001")

	surveyCreated, err := repo.Finalize(ctx, &grade, &report, &survey)
	require.NoError(t, err)
	require.True(t, surveyCreated)

	stored, err := repo.GetByID(ctx, grade.ID)
	require.NoError(t, err)
	require.True(t, stored.IsFinalized)
	require.NotNil(t, stored.Grade1)

	var storedReport models.GradeReport
	require.NoError(t, db.Where("grade_id = ?", grade.ID).First(&storedReport).Error)
	require.Equal(t, "6.4", storedReport.FinalGrade)
	require.Equal(t, models.ReportStatusPendingAcceptance, storedReport.Status)

	var storedSurvey models.Survey
	require.NoError(t, db.Where("grade_id = ?", grade.ID).First(&storedSurvey).Error)
	require.Equal(t, models.SurveyStatusIncomplete, storedSurvey.Status)
}

func TestGradeRepositoryFinalizeCascadesSurveyOnce(t *testing.T) {
	db := testDB(t)
	repo := NewGradeRepository(db)
	ctx := context.Background()

	grade, report, survey := buildFinalization(seedGrade(t, db), "RPT-0001")

	surveyCreated, err := repo.Finalize(ctx, &grade, &report, &survey)
	require.NoError(t, err)
	require.True(t, surveyCreated)

	// Re-finalizing produces a second report but never a second survey.
	grade, report, survey = buildFinalization(grade, "RPT-0002")
	surveyCreated, err = repo.Finalize(ctx, &grade, &report, &survey)
	require.NoError(t, err)
	require.False(t, surveyCreated)

	var reportCount int64
	require.NoError(t, db.Model(&models.GradeReport{}).Where("grade_id = ?", grade.ID).Count(&reportCount).Error)
	require.EqualValues(t, 2, reportCount)

	var surveyCount int64
	require.NoError(t, db.Model(&models.Survey{}).Where("grade_id = ?", grade.ID).Count(&surveyCount).Error)
	require.EqualValues(t, 1, surveyCount)
}

func TestGradeRepositoryFinalizeRollsBackOnConflict(t *testing.T) {
	db := testDB(t)
	repo := NewGradeRepository(db)
	ctx := context.Background()

	grade, report, survey := buildFinalization(seedGrade(t, db), "RPT-0001")
	_, err := repo.Finalize(ctx, &grade, &report, &survey)
	require.NoError(t, err)

	// Reusing the report reference violates its unique index, so the whole
	// transaction must roll back, leaving the grade untouched.
	conflicting, badReport, _ := buildFinalization(grade, "RPT-0001")
	conflicting.Grade1 = floatPtr(4.0)
	badReport.Grade1 = conflicting.Grade1

	_, err = repo.Finalize(ctx, &conflicting, &badReport, nil)
	require.Error(t, err)

	stored, err := repo.GetByID(ctx, grade.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Grade1)
	require.InDelta(t, 6.0, *stored.Grade1, 1e-9)
}
