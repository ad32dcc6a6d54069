package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

func TestProgressRepositoryCountCompletedResources(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)

	rows := []models.ResourceProgress{
		{UserID: 1, ResourceID: 10, Completed: true},
		{UserID: 1, ResourceID: 11, Completed: false},
		{UserID: 1, ResourceID: 12, Completed: true},
		{UserID: 2, ResourceID: 10, Completed: true},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	count, err := repo.CountCompletedResources(context.Background(), 1, []uint{10, 11, 12})
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	count, err = repo.CountCompletedResources(context.Background(), 1, nil)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestProgressRepositoryCourseProgressRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProgressRepository(db)

	progress := models.CourseProgress{UserID: 3, CourseID: 7, ProgressPercent: 42.5}
	require.NoError(t, repo.SaveCourseProgress(context.Background(), &progress))

	loaded, err := repo.GetCourseProgress(context.Background(), 3, 7)
	require.NoError(t, err)
	require.Equal(t, 42.5, loaded.ProgressPercent)

	loaded.ProgressPercent = 67.5
	require.NoError(t, repo.SaveCourseProgress(context.Background(), &loaded))

	reloaded, err := repo.GetCourseProgress(context.Background(), 3, 7)
	require.NoError(t, err)
	require.Equal(t, 67.5, reloaded.ProgressPercent)
	require.Equal(t, loaded.ID, reloaded.ID, "save must update the existing row, not insert")

	require.NoError(t, repo.DeleteCourseProgress(context.Background(), 3, 7))
	_, err = repo.GetCourseProgress(context.Background(), 3, 7)
	require.Error(t, err)
}

func TestCourseRepositoryListResourceIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)

	course := models.Course{Title: "Algorithms", TeacherID: 1, Status: models.CourseStatusActive}
	require.NoError(t, db.Create(&course).Error)
	other := models.Course{Title: "Databases", TeacherID: 1, Status: models.CourseStatusActive}
	require.NoError(t, db.Create(&other).Error)

	sectionA := models.CourseSection{CourseID: course.ID, Title: "Sorting"}
	sectionB := models.CourseSection{CourseID: course.ID, Title: "Graphs"}
	sectionC := models.CourseSection{CourseID: other.ID, Title: "SQL"}
	require.NoError(t, db.Create(&sectionA).Error)
	require.NoError(t, db.Create(&sectionB).Error)
	require.NoError(t, db.Create(&sectionC).Error)

	resources := []models.CourseResource{
		{SectionID: sectionA.ID, Title: "Quicksort", ResourceType: models.ResourceTypeVideo},
		{SectionID: sectionB.ID, Title: "BFS", ResourceType: models.ResourceTypeDocument},
		{SectionID: sectionC.ID, Title: "Joins", ResourceType: models.ResourceTypeDocument},
	}
	for i := range resources {
		require.NoError(t, db.Create(&resources[i]).Error)
	}

	ids, err := repo.ListResourceIDs(context.Background(), course.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []uint{resources[0].ID, resources[1].ID}, ids)

	courseID, err := repo.CourseIDForResource(context.Background(), resources[1].ID)
	require.NoError(t, err)
	require.Equal(t, course.ID, courseID)

	_, err = repo.CourseIDForResource(context.Background(), 9999)
	require.Error(t, err)
}
