package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
	"github.com/fefu-lab/course-service/internal/utils"
)

// Seeder loads demo data through the repositories. Existing catalog and
// enrollment data is replaced.
type Seeder struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewSeeder(repo repositories.Repository, logger *slog.Logger) *Seeder {
	return &Seeder{repo: repo, logger: logger}
}

type studentSeed struct {
	firstName string
	lastName  string
	email     string
	birthDate time.Time
	faculty   models.Faculty
}

type courseSeed struct {
	title       string
	description string
	duration    int
	instructor  int // index into the instructor slice
	level       models.CourseLevel
	maxStudents int
	price       string
}

var instructorSeeds = []models.Instructor{
	{FirstName: "Анна", LastName: "Иванова", Email: "a.ivanova@fefu.ru",
		Specialization: "Кибербезопасность и криптография", Degree: "Доктор технических наук", IsActive: true},
	{FirstName: "Михаил", LastName: "Петров", Email: "m.petrov@fefu.ru",
		Specialization: "Веб-технологии и разработка", Degree: "Кандидат технических наук", IsActive: true},
	{FirstName: "Ольга", LastName: "Сидорова", Email: "o.sidorova@fefu.ru",
		Specialization: "Искусственный интеллект и машинное обучение", Degree: "Доктор физико-математических наук", IsActive: true},
}

var studentSeeds = []studentSeed{
	{"Дмитрий", "Смирнов", "d.smirnov@fefu.ru", date(2000, 5, 15), models.FacultyCyberSecurity},
	{"Екатерина", "Кузнецова", "e.kuznetsova@fefu.ru", date(2001, 8, 22), models.FacultyInfoTech},
	{"Артем", "Попов", "a.popov@fefu.ru", date(1999, 3, 10), models.FacultySoftwareEng},
	{"София", "Васильева", "s.vasilyeva@fefu.ru", date(2002, 11, 5), models.FacultyDataScience},
	{"Иван", "Новиков", "i.novikov@fefu.ru", date(2000, 12, 30), models.FacultyWebTech},
	{"Анастасия", "Морозова", "a.morozova@fefu.ru", date(2001, 7, 18), models.FacultyCyberSecurity},
	{"Кирилл", "Волков", "k.volkov@fefu.ru", date(1999, 9, 25), models.FacultyInfoTech},
	{"Мария", "Алексеева", "m.alekseeva@fefu.ru", date(2000, 4, 12), models.FacultySoftwareEng},
}

var courseSeeds = []courseSeed{
	{"Основы Python для начинающих",
		"Базовый курс по программированию на Python. Изучение синтаксиса, типов данных и основных конструкций языка.",
		36, 0, models.LevelBeginner, 25, "0"},
	{"Продвинутая кибербезопасность",
		"Изучение современных методов защиты информации: криптография, анализ уязвимостей, пентестинг.",
		48, 0, models.LevelAdvanced, 20, "15000"},
	{"Веб-разработка на Django",
		"Полный курс по созданию веб-приложений с использованием Django, REST API и современных фронтенд-технологий.",
		42, 1, models.LevelIntermediate, 30, "12000"},
	{"Машинное обучение на практике",
		"Прикладной курс по машинному обучению: от предобработки данных до deployment моделей.",
		40, 2, models.LevelAdvanced, 15, "18000"},
	{"JavaScript и современные фреймворки",
		"Изучение современного JavaScript и популярных фреймворков: React, Vue.js, Angular.",
		35, 1, models.LevelIntermediate, 25, "10000"},
}

// Run loads the demo dataset in one transaction: instructors, student
// profiles, courses, and one to three random enrollments per student.
func (s *Seeder) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "seeding demo data")

	return s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		// Fresh slate: demo data replaces whatever is there, children first.
		if err := tx.Enrollment().DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to clear enrollments: %w", err)
		}
		if err := tx.Course().DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to clear courses: %w", err)
		}
		if err := tx.Profile().DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to clear profiles: %w", err)
		}
		if err := tx.Instructor().DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to clear instructors: %w", err)
		}

		instructors := make([]*models.Instructor, 0, len(instructorSeeds))
		for i := range instructorSeeds {
			instructor := instructorSeeds[i]
			if err := tx.Instructor().Create(ctx, &instructor); err != nil {
				return fmt.Errorf("failed to seed instructor %s: %w", instructor.Email, err)
			}
			instructors = append(instructors, &instructor)
		}

		profiles := make([]*models.Profile, 0, len(studentSeeds))
		for _, seed := range studentSeeds {
			birthDate := seed.birthDate
			profile := &models.Profile{
				FirstName: seed.firstName,
				LastName:  seed.lastName,
				Email:     seed.email,
				BirthDate: &birthDate,
				Faculty:   seed.faculty,
				Role:      models.RoleStudent,
				IsActive:  true,
			}
			if err := tx.Profile().Create(ctx, profile); err != nil {
				return fmt.Errorf("failed to seed profile %s: %w", seed.email, err)
			}
			profiles = append(profiles, profile)
		}

		courses := make([]*models.Course, 0, len(courseSeeds))
		for _, seed := range courseSeeds {
			course := &models.Course{
				Title:        seed.title,
				Slug:         utils.Slugify(seed.title),
				Description:  seed.description,
				Duration:     seed.duration,
				Level:        seed.level,
				MaxStudents:  seed.maxStudents,
				Price:        seed.price,
				InstructorID: &instructors[seed.instructor].ID,
				IsActive:     true,
			}
			if err := tx.Course().Create(ctx, course); err != nil {
				return fmt.Errorf("failed to seed course %q: %w", seed.title, err)
			}
			courses = append(courses, course)
		}

		enrolled := 0
		for _, profile := range profiles {
			for _, idx := range rand.Perm(len(courses))[:1+rand.Intn(3)] {
				enrollment := &models.Enrollment{
					ProfileID: profile.ID,
					CourseID:  courses[idx].ID,
					Status:    models.EnrollmentActive,
				}
				if err := tx.Enrollment().Create(ctx, enrollment); err != nil {
					return fmt.Errorf("failed to seed enrollment: %w", err)
				}
				enrolled++
			}
		}

		s.logger.InfoContext(ctx, "seed complete",
			"instructors", len(instructors),
			"profiles", len(profiles),
			"courses", len(courses),
			"enrollments", enrolled)
		return nil
	})
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
