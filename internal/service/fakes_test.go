package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
	"github.com/learnhub-io/learnhub-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New()
}

type userCourseKey struct {
	userID   uint
	courseID uint
}

type userResourceKey struct {
	userID     uint
	resourceID uint
}

type userAssignmentKey struct {
	userID       uint
	assignmentID uint
}

type fakeUserRepo struct {
	users map[uint]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[uint]models.User{}}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]models.User, error) {
	var result []models.User
	for _, user := range f.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.Status != nil && user.Status != *filter.Status {
			continue
		}
		result = append(result, user)
	}
	return result, nil
}

func (f *fakeUserRepo) CountByRole(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, user := range f.users {
		counts[user.Role]++
	}
	return counts, nil
}

type fakeCourseRepo struct {
	courses        map[uint]models.Course
	resourceIDs    map[uint][]uint
	resources      map[uint]models.CourseResource
	resourceCourse map[uint]uint
}

func newFakeCourseRepo(courses ...models.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{
		courses:        map[uint]models.Course{},
		resourceIDs:    map[uint][]uint{},
		resources:      map[uint]models.CourseResource{},
		resourceCourse: map[uint]uint{},
	}
	for _, course := range courses {
		repo.courses[course.ID] = course
	}
	return repo
}

func (f *fakeCourseRepo) addResource(courseID, resourceID uint) {
	f.resourceIDs[courseID] = append(f.resourceIDs[courseID], resourceID)
	f.resources[resourceID] = models.CourseResource{ID: resourceID}
	f.resourceCourse[resourceID] = courseID
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, id uint) (models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (f *fakeCourseRepo) GetWithContent(ctx context.Context, id uint) (models.Course, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeCourseRepo) ListResourceIDs(ctx context.Context, courseID uint) ([]uint, error) {
	return append([]uint(nil), f.resourceIDs[courseID]...), nil
}

func (f *fakeCourseRepo) GetResource(ctx context.Context, resourceID uint) (models.CourseResource, error) {
	resource, ok := f.resources[resourceID]
	if !ok {
		return models.CourseResource{}, gorm.ErrRecordNotFound
	}
	return resource, nil
}

func (f *fakeCourseRepo) CourseIDForResource(ctx context.Context, resourceID uint) (uint, error) {
	courseID, ok := f.resourceCourse[resourceID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return courseID, nil
}

func (f *fakeCourseRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, course := range f.courses {
		counts[course.Status]++
	}
	return counts, nil
}

type fakeProgressRepo struct {
	resourceRows map[userResourceKey]models.ResourceProgress
	courseRows   map[userCourseKey]models.CourseProgress
	nextID       uint
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{
		resourceRows: map[userResourceKey]models.ResourceProgress{},
		courseRows:   map[userCourseKey]models.CourseProgress{},
	}
}

func (f *fakeProgressRepo) GetResourceProgress(ctx context.Context, userID, resourceID uint) (models.ResourceProgress, error) {
	row, ok := f.resourceRows[userResourceKey{userID, resourceID}]
	if !ok {
		return models.ResourceProgress{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (f *fakeProgressRepo) SaveResourceProgress(ctx context.Context, progress *models.ResourceProgress) error {
	if progress.ID == 0 {
		f.nextID++
		progress.ID = f.nextID
	}
	f.resourceRows[userResourceKey{progress.UserID, progress.ResourceID}] = *progress
	return nil
}

func (f *fakeProgressRepo) CountCompletedResources(ctx context.Context, userID uint, resourceIDs []uint) (int64, error) {
	var count int64
	for _, resourceID := range resourceIDs {
		if row, ok := f.resourceRows[userResourceKey{userID, resourceID}]; ok && row.Completed {
			count++
		}
	}
	return count, nil
}

func (f *fakeProgressRepo) GetCourseProgress(ctx context.Context, userID, courseID uint) (models.CourseProgress, error) {
	row, ok := f.courseRows[userCourseKey{userID, courseID}]
	if !ok {
		return models.CourseProgress{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (f *fakeProgressRepo) SaveCourseProgress(ctx context.Context, progress *models.CourseProgress) error {
	if progress.ID == 0 {
		f.nextID++
		progress.ID = f.nextID
	}
	f.courseRows[userCourseKey{progress.UserID, progress.CourseID}] = *progress
	return nil
}

func (f *fakeProgressRepo) DeleteCourseProgress(ctx context.Context, userID, courseID uint) error {
	delete(f.courseRows, userCourseKey{userID, courseID})
	return nil
}

func (f *fakeProgressRepo) ListCourseProgress(ctx context.Context, courseID uint) ([]models.CourseProgress, error) {
	var rows []models.CourseProgress
	for key, row := range f.courseRows {
		if key.courseID == courseID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

type fakeAssignmentRepo struct {
	assignments map[uint]models.Assignment
}

func newFakeAssignmentRepo(assignments ...models.Assignment) *fakeAssignmentRepo {
	repo := &fakeAssignmentRepo{assignments: map[uint]models.Assignment{}}
	for _, assignment := range assignments {
		repo.assignments[assignment.ID] = assignment
	}
	return repo
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	assignment, ok := f.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return assignment, nil
}

func (f *fakeAssignmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error) {
	var result []models.Assignment
	for _, assignment := range f.assignments {
		if assignment.CourseID == courseID {
			result = append(result, assignment)
		}
	}
	return result, nil
}

func (f *fakeAssignmentRepo) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	assignments, _ := f.ListByCourse(ctx, courseID)
	return int64(len(assignments)), nil
}

type fakeSubmissionRepo struct {
	assignments *fakeAssignmentRepo
	rows        map[userAssignmentKey]models.AssignmentSubmission
	nextID      uint
}

func newFakeSubmissionRepo(assignments *fakeAssignmentRepo) *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		assignments: assignments,
		rows:        map[userAssignmentKey]models.AssignmentSubmission{},
	}
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id uint) (models.AssignmentSubmission, error) {
	for _, row := range f.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return models.AssignmentSubmission{}, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionRepo) GetByAssignmentAndUser(ctx context.Context, assignmentID, userID uint) (models.AssignmentSubmission, error) {
	row, ok := f.rows[userAssignmentKey{userID, assignmentID}]
	if !ok {
		return models.AssignmentSubmission{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (f *fakeSubmissionRepo) Save(ctx context.Context, submission *models.AssignmentSubmission) error {
	if submission.ID == 0 {
		f.nextID++
		submission.ID = f.nextID
	}
	f.rows[userAssignmentKey{submission.UserID, submission.AssignmentID}] = *submission
	return nil
}

func (f *fakeSubmissionRepo) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.AssignmentSubmission, error) {
	var result []models.AssignmentSubmission
	for key, row := range f.rows {
		if key.assignmentID == assignmentID {
			result = append(result, row)
		}
	}
	return result, nil
}

func (f *fakeSubmissionRepo) CountByAssignment(ctx context.Context, assignmentID uint) (int64, error) {
	rows, _ := f.ListByAssignment(ctx, assignmentID)
	return int64(len(rows)), nil
}

func (f *fakeSubmissionRepo) CountForCourseByUser(ctx context.Context, courseID, userID uint) (int64, error) {
	var count int64
	for key, row := range f.rows {
		if key.userID != userID {
			continue
		}
		assignment, ok := f.assignments.assignments[row.AssignmentID]
		if ok && assignment.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

type fakeGradeRepo struct {
	settings map[uint]models.GradeSetting
	grades   map[userCourseKey]models.StudentGrade
	nextID   uint
}

func newFakeGradeRepo() *fakeGradeRepo {
	return &fakeGradeRepo{
		settings: map[uint]models.GradeSetting{},
		grades:   map[userCourseKey]models.StudentGrade{},
	}
}

func (f *fakeGradeRepo) GetSetting(ctx context.Context, courseID uint) (models.GradeSetting, error) {
	setting, ok := f.settings[courseID]
	if !ok {
		return models.GradeSetting{}, gorm.ErrRecordNotFound
	}
	return setting, nil
}

func (f *fakeGradeRepo) SaveSetting(ctx context.Context, setting *models.GradeSetting) error {
	if setting.ID == 0 {
		f.nextID++
		setting.ID = f.nextID
	}
	f.settings[setting.CourseID] = *setting
	return nil
}

func (f *fakeGradeRepo) GetStudentGrade(ctx context.Context, userID, courseID uint) (models.StudentGrade, error) {
	grade, ok := f.grades[userCourseKey{userID, courseID}]
	if !ok {
		return models.StudentGrade{}, gorm.ErrRecordNotFound
	}
	return grade, nil
}

func (f *fakeGradeRepo) SaveStudentGrade(ctx context.Context, grade *models.StudentGrade) error {
	if grade.ID == 0 {
		f.nextID++
		grade.ID = f.nextID
	}
	f.grades[userCourseKey{grade.UserID, grade.CourseID}] = *grade
	return nil
}

func (f *fakeGradeRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.StudentGrade, error) {
	var rows []models.StudentGrade
	for key, grade := range f.grades {
		if key.courseID == courseID {
			rows = append(rows, grade)
		}
	}
	return rows, nil
}

type fakeEnrollmentRepo struct {
	rows   map[userCourseKey]models.Enrollment
	nextID uint
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{rows: map[userCourseKey]models.Enrollment{}}
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	f.nextID++
	enrollment.ID = f.nextID
	f.rows[userCourseKey{enrollment.UserID, enrollment.CourseID}] = *enrollment
	return nil
}

func (f *fakeEnrollmentRepo) Delete(ctx context.Context, userID, courseID uint) error {
	delete(f.rows, userCourseKey{userID, courseID})
	return nil
}

func (f *fakeEnrollmentRepo) GetByUserAndCourse(ctx context.Context, userID, courseID uint) (models.Enrollment, error) {
	row, ok := f.rows[userCourseKey{userID, courseID}]
	if !ok {
		return models.Enrollment{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (f *fakeEnrollmentRepo) ListByUser(ctx context.Context, userID uint) ([]models.Enrollment, error) {
	var rows []models.Enrollment
	for key, row := range f.rows {
		if key.userID == userID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeEnrollmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Enrollment, error) {
	var rows []models.Enrollment
	for key, row := range f.rows {
		if key.courseID == courseID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeEnrollmentRepo) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	rows, _ := f.ListByCourse(ctx, courseID)
	return int64(len(rows)), nil
}
