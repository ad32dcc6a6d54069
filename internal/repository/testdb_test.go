package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.CourseSection{},
		&models.CourseResource{},
		&models.Enrollment{},
		&models.Activity{},
		&models.Assignment{},
		&models.AssignmentSubmission{},
		&models.ResourceProgress{},
		&models.CourseProgress{},
		&models.GradeSetting{},
		&models.StudentGrade{},
		&models.Review{},
		&models.Discussion{},
		&models.DiscussionReply{},
	))
	return db
}
