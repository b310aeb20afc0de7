package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/fefu-lab/course-service/internal/models"
	"github.com/fefu-lab/course-service/internal/repositories"
)

// memRepo is an in-memory Repository used by the service tests. Transactions
// are not isolated; WithTransaction simply runs the function against the same
// store, which is enough to exercise the service logic.
type memRepo struct {
	mu sync.Mutex

	users       map[uint]*models.User
	profiles    map[uint]*models.Profile
	instructors map[uint]*models.Instructor
	courses     map[uint]*models.Course
	enrollments map[uint]*models.Enrollment
	feedback    map[uint]*models.Feedback
	tokens      map[uint]*models.PasswordResetToken
	outbox      map[uint]*models.OutboxEvent

	nextID uint
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:       make(map[uint]*models.User),
		profiles:    make(map[uint]*models.Profile),
		instructors: make(map[uint]*models.Instructor),
		courses:     make(map[uint]*models.Course),
		enrollments: make(map[uint]*models.Enrollment),
		feedback:    make(map[uint]*models.Feedback),
		tokens:      make(map[uint]*models.PasswordResetToken),
		outbox:      make(map[uint]*models.OutboxEvent),
	}
}

func (m *memRepo) id() uint {
	m.nextID++
	return m.nextID
}

func (m *memRepo) User() repositories.UserRepository             { return &memUserRepo{m} }
func (m *memRepo) Profile() repositories.ProfileRepository       { return &memProfileRepo{m} }
func (m *memRepo) Instructor() repositories.InstructorRepository { return &memInstructorRepo{m} }
func (m *memRepo) Course() repositories.CourseRepository         { return &memCourseRepo{m} }
func (m *memRepo) Enrollment() repositories.EnrollmentRepository { return &memEnrollmentRepo{m} }
func (m *memRepo) Feedback() repositories.FeedbackRepository     { return &memFeedbackRepo{m} }
func (m *memRepo) PasswordResetToken() repositories.PasswordResetTokenRepository {
	return &memTokenRepo{m}
}
func (m *memRepo) Outbox() repositories.OutboxRepository { return &memOutboxRepo{m} }

func (m *memRepo) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *memRepo) Ping(ctx context.Context) error { return nil }
func (m *memRepo) Close() error                   { return nil }

// ----- users -----

type memUserRepo struct{ m *memRepo }

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = r.m.id()
	r.m.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	user, ok := r.m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var matches []*models.User
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, identifier) || strings.EqualFold(u.Username, identifier) {
			matches = append(matches, u)
		}
	}
	if len(matches) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches[0], nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) Update(_ context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.m.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.users, id)
	return nil
}

// ----- profiles -----

type memProfileRepo struct{ m *memRepo }

func (r *memProfileRepo) Create(_ context.Context, profile *models.Profile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	profile.ID = r.m.id()
	r.m.profiles[profile.ID] = profile
	return nil
}

func (r *memProfileRepo) GetByID(_ context.Context, id uint) (*models.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	profile, ok := r.m.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (r *memProfileRepo) GetByUserID(_ context.Context, userID uint) (*models.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.profiles {
		if p.UserID != nil && *p.UserID == userID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memProfileRepo) List(_ context.Context, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Profile
	for _, p := range r.m.profiles {
		if filters.Role != nil && p.Role != *filters.Role {
			continue
		}
		if filters.IsActive != nil && p.IsActive != *filters.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memProfileRepo) Update(_ context.Context, profile *models.Profile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.profiles[profile.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.m.profiles[profile.ID] = profile
	return nil
}

func (r *memProfileRepo) ExistsByID(_ context.Context, id uint) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.profiles[id]
	return ok, nil
}

func (r *memProfileRepo) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.profiles, id)
	return nil
}

func (r *memProfileRepo) DeleteAll(_ context.Context) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.profiles = make(map[uint]*models.Profile)
	return nil
}

// ----- instructors -----

type memInstructorRepo struct{ m *memRepo }

func (r *memInstructorRepo) Create(_ context.Context, instructor *models.Instructor) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.instructors {
		if strings.EqualFold(existing.Email, instructor.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	instructor.ID = r.m.id()
	r.m.instructors[instructor.ID] = instructor
	return nil
}

func (r *memInstructorRepo) GetByID(_ context.Context, id uint) (*models.Instructor, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	instructor, ok := r.m.instructors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return instructor, nil
}

func (r *memInstructorRepo) List(_ context.Context, filters repositories.InstructorFilters) ([]*models.Instructor, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Instructor
	for _, instructor := range r.m.instructors {
		if filters.IsActive != nil && instructor.IsActive != *filters.IsActive {
			continue
		}
		if filters.ProfileID != nil && (instructor.ProfileID == nil || *instructor.ProfileID != *filters.ProfileID) {
			continue
		}
		out = append(out, instructor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memInstructorRepo) Update(_ context.Context, instructor *models.Instructor) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.instructors[instructor.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.m.instructors[instructor.ID] = instructor
	return nil
}

func (r *memInstructorRepo) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, course := range r.m.courses {
		if course.InstructorID != nil && *course.InstructorID == id {
			course.InstructorID = nil
		}
	}
	delete(r.m.instructors, id)
	return nil
}

func (r *memInstructorRepo) DeleteAll(_ context.Context) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.instructors = make(map[uint]*models.Instructor)
	return nil
}

// ----- courses -----

type memCourseRepo struct{ m *memRepo }

func (r *memCourseRepo) Create(_ context.Context, course *models.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.courses {
		if existing.Title == course.Title || existing.Slug == course.Slug {
			return gorm.ErrDuplicatedKey
		}
	}
	course.ID = r.m.id()
	r.m.courses[course.ID] = course
	return nil
}

func (r *memCourseRepo) GetByID(_ context.Context, id uint) (*models.Course, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	course, ok := r.m.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (r *memCourseRepo) GetBySlug(_ context.Context, slug string) (*models.Course, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, course := range r.m.courses {
		if course.Slug == slug {
			return course, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCourseRepo) GetByIDForUpdate(ctx context.Context, id uint) (*models.Course, error) {
	return r.GetByID(ctx, id)
}

func (r *memCourseRepo) List(_ context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Course
	for _, course := range r.m.courses {
		if filters.IsActive != nil && course.IsActive != *filters.IsActive {
			continue
		}
		if filters.InstructorID != nil && (course.InstructorID == nil || *course.InstructorID != *filters.InstructorID) {
			continue
		}
		if filters.Level != nil && course.Level != *filters.Level {
			continue
		}
		out = append(out, course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memCourseRepo) ExistsByTitle(_ context.Context, title string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, course := range r.m.courses {
		if course.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCourseRepo) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, course := range r.m.courses {
		if course.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCourseRepo) Update(_ context.Context, course *models.Course) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.courses[course.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.m.courses[course.ID] = course
	return nil
}

func (r *memCourseRepo) Delete(_ context.Context, id uint) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.courses, id)
	return nil
}

func (r *memCourseRepo) DeleteAll(_ context.Context) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.courses = make(map[uint]*models.Course)
	return nil
}

// ----- enrollments -----

type memEnrollmentRepo struct{ m *memRepo }

func (r *memEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.enrollments {
		if existing.ProfileID == enrollment.ProfileID && existing.CourseID == enrollment.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	enrollment.ID = r.m.id()
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now()
	}
	r.m.enrollments[enrollment.ID] = enrollment
	return nil
}

func (r *memEnrollmentRepo) GetByID(_ context.Context, id uint) (*models.Enrollment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	enrollment, ok := r.m.enrollments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return enrollment, nil
}

func (r *memEnrollmentRepo) GetByPair(_ context.Context, profileID, courseID uint) (*models.Enrollment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, enrollment := range r.m.enrollments {
		if enrollment.ProfileID == profileID && enrollment.CourseID == courseID {
			return enrollment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memEnrollmentRepo) CountActiveByCourse(_ context.Context, courseID uint) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var count int64
	for _, enrollment := range r.m.enrollments {
		if enrollment.CourseID == courseID && enrollment.Status == models.EnrollmentActive {
			count++
		}
	}
	return count, nil
}

func (r *memEnrollmentRepo) List(_ context.Context, filters repositories.EnrollmentFilters) ([]*models.Enrollment, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Enrollment
	for _, enrollment := range r.m.enrollments {
		if filters.ProfileID != nil && enrollment.ProfileID != *filters.ProfileID {
			continue
		}
		if filters.CourseID != nil && enrollment.CourseID != *filters.CourseID {
			continue
		}
		if filters.Status != nil && enrollment.Status != *filters.Status {
			continue
		}
		out = append(out, enrollment)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memEnrollmentRepo) UpdateStatus(_ context.Context, id uint, status models.EnrollmentStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	enrollment, ok := r.m.enrollments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	enrollment.Status = status
	return nil
}

func (r *memEnrollmentRepo) DeleteAll(_ context.Context) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.enrollments = make(map[uint]*models.Enrollment)
	return nil
}

// ----- feedback -----

type memFeedbackRepo struct{ m *memRepo }

func (r *memFeedbackRepo) Create(_ context.Context, feedback *models.Feedback) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	feedback.ID = r.m.id()
	feedback.CreatedAt = time.Now()
	r.m.feedback[feedback.ID] = feedback
	return nil
}

func (r *memFeedbackRepo) List(_ context.Context, filters repositories.FeedbackFilters) ([]*models.Feedback, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Feedback
	for _, f := range r.m.feedback {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

// ----- password reset tokens -----

type memTokenRepo struct{ m *memRepo }

func (r *memTokenRepo) Create(_ context.Context, token *models.PasswordResetToken) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	token.ID = r.m.id()
	r.m.tokens[token.ID] = token
	return nil
}

func (r *memTokenRepo) GetByToken(_ context.Context, value string) (*models.PasswordResetToken, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, token := range r.m.tokens {
		if token.Token == value {
			return token, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memTokenRepo) MarkUsed(_ context.Context, id uint, usedAt time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	token, ok := r.m.tokens[id]
	if !ok || token.UsedAt != nil {
		return gorm.ErrRecordNotFound
	}
	token.UsedAt = &usedAt
	return nil
}

// ----- outbox -----

type memOutboxRepo struct{ m *memRepo }

func (r *memOutboxRepo) Create(_ context.Context, event *models.OutboxEvent) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	event.ID = r.m.id()
	r.m.outbox[event.ID] = event
	return nil
}

func (r *memOutboxRepo) ListUnpublished(_ context.Context, limit int) ([]*models.OutboxEvent, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.OutboxEvent
	for _, event := range r.m.outbox {
		if event.PublishedAt == nil {
			out = append(out, event)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memOutboxRepo) MarkPublished(_ context.Context, ids []uint, publishedAt time.Time) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, id := range ids {
		if event, ok := r.m.outbox[id]; ok {
			event.PublishedAt = &publishedAt
		}
	}
	return nil
}
