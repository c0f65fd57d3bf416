package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/remed-api/internal/models"
	"github.com/noah-isme/remed-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
	// ErrSeedAlreadyApplied indicates the registry already contains data.
	ErrSeedAlreadyApplied = errors.New("registry already seeded")
)

// SeedSummary reports how many records a demo seed run created.
type SeedSummary struct {
	Teachers int   `json:"teachers"`
	Students int   `json:"students"`
	Subjects int   `json:"subjects"`
	Users    int   `json:"users"`
	Grades   int   `json:"grades"`
	News     int64 `json:"news"`
}

// SeedService populates the registry with a demo dataset for local evaluation.
type SeedService interface {
	SeedDemo(ctx context.Context, token string) (SeedSummary, error)
}

type seedService struct {
	students repository.StudentRepository
	teachers repository.TeacherRepository
	subjects repository.SubjectRepository
	users    repository.UserRepository
	grades   repository.GradeRepository
	news     NewsService
	enabled  bool
	token    string
	logger   zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(
	students repository.StudentRepository,
	teachers repository.TeacherRepository,
	subjects repository.SubjectRepository,
	users repository.UserRepository,
	grades repository.GradeRepository,
	news NewsService,
	enabled bool,
	token string,
	logger zerolog.Logger,
) SeedService {
	return &seedService{
		students: students,
		teachers: teachers,
		subjects: subjects,
		users:    users,
		grades:   grades,
		news:     news,
		enabled:  enabled,
		token:    token,
		logger:   logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedDemo(ctx context.Context, token string) (SeedSummary, error) {
	if !s.enabled {
		return SeedSummary{}, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return SeedSummary{}, ErrSeedUnauthorized
	}

	existing, err := s.users.List(ctx)
	if err != nil {
		return SeedSummary{}, err
	}
	if len(existing) > 0 {
		return SeedSummary{}, ErrSeedAlreadyApplied
	}

	summary := SeedSummary{}

	teachers := demoTeachers()
	for i := range teachers {
		if err := s.teachers.Create(ctx, &teachers[i]); err != nil {
			return summary, err
		}
		summary.Teachers++
	}

	students := demoStudents()
	for i := range students {
		if err := s.students.Create(ctx, &students[i]); err != nil {
			return summary, err
		}
		summary.Students++
	}

	subjects := demoSubjects(teachers)
	for i := range subjects {
		if err := s.subjects.Create(ctx, &subjects[i]); err != nil {
			return summary, err
		}
		summary.Subjects++
	}

	users := demoUsers(teachers, students)
	for i := range users {
		if err := s.users.Create(ctx, &users[i]); err != nil {
			return summary, err
		}
		summary.Users++
	}

	for i := range students {
		for j := range subjects {
			if j > i {
				break
			}
			grade := models.Grade{
				StudentID:    students[i].ID,
				SubjectID:    subjects[j].ID,
				Competencies: make(models.CompetencyScores, models.MaxCompetencyScores),
			}
			if err := s.grades.Create(ctx, &grade); err != nil {
				return summary, err
			}
			summary.Grades++
		}
	}

	seeded, err := s.news.Seed(ctx, demoNews())
	if err != nil {
		return summary, err
	}
	summary.News = seeded

	s.logger.Info().
		Int("teachers", summary.Teachers).
		Int("students", summary.Students).
		Int("subjects", summary.Subjects).
		Int("users", summary.Users).
		Int("grades", summary.Grades).
		Int64("news", summary.News).
		Msg("demo dataset seeded")

	return summary, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return constantTimeEquals(expected, strings.TrimSpace(token))
}

func constantTimeEquals(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	mismatch := byte(0)
	for i := 0; i < len(a); i++ {
		mismatch |= a[i] ^ b[i]
	}
	return mismatch == 0
}

func demoTeachers() []models.Teacher {
	return []models.Teacher{
		{Name: "Dr. Elena Vasquez", Email: "elena.vasquez@remed.example", Specialty: "Internal Medicine"},
		{Name: "Dr. Marcus Chen", Email: "marcus.chen@remed.example", Specialty: "Emergency Medicine"},
		{Name: "Dr. Amara Okafor", Email: "amara.okafor@remed.example", Specialty: "Pediatrics"},
	}
}

func demoStudents() []models.Student {
	year := time.Now().Year()
	return []models.Student{
		{Name: "Jordan Reyes", Email: "jordan.reyes@remed.example", PromotionYear: year},
		{Name: "Priya Nair", Email: "priya.nair@remed.example", PromotionYear: year},
		{Name: "Tomasz Nowak", Email: "tomasz.nowak@remed.example", PromotionYear: year + 1},
	}
}

func demoSubjects(teachers []models.Teacher) []models.Subject {
	now := time.Now()
	start := now.AddDate(0, -2, 0)
	end := now.AddDate(0, 1, 0)
	subjects := []models.Subject{
		{Name: "Internal Medicine Ward", StartsAt: &start, EndsAt: &end},
		{Name: "Emergency Department", StartsAt: &start, EndsAt: &end},
		{Name: "Pediatric Clinic", StartsAt: &start, EndsAt: &end},
	}
	for i := range subjects {
		if i < len(teachers) {
			subjects[i].TeacherID = teachers[i].ID
		}
	}
	return subjects
}

func demoUsers(teachers []models.Teacher, students []models.Student) []models.User {
	users := []models.User{
		{Name: "Program Coordinator", Email: "coordinator@remed.example", Role: models.RoleAdministrator},
	}
	for i := range teachers {
		id := teachers[i].ID
		users = append(users, models.User{
			Name:      teachers[i].Name,
			Email:     teachers[i].Email,
			Role:      models.RoleTeacher,
			TeacherID: &id,
		})
	}
	for i := range students {
		id := students[i].ID
		users = append(users, models.User{
			Name:      students[i].Name,
			Email:     students[i].Email,
			Role:      models.RoleStudent,
			StudentID: &id,
		})
	}
	return users
}

func demoNews() []models.NewsItem {
	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)
	return []models.NewsItem{
		{
			Slug:     "welcome-to-the-records-dashboard",
			Title:    "Welcome to the records dashboard",
			Body:     "Rotation evaluations, reports and surveys are now managed here.",
			StartsAt: weekAgo,
			IsPinned: true,
		},
		{
			Slug:     "survey-completion-reminder",
			Title:    "Complete your rotation surveys",
			Body:     "Outstanding rotation surveys must be completed before the end of the block.",
			StartsAt: weekAgo,
		},
	}
}
