package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

func TestGetCourseContentReturnsSectionTree(t *testing.T) {
	course := models.Course{
		ID:        7,
		Title:     "Intro to Databases",
		TeacherID: 3,
		Status:    models.CourseStatusActive,
		Sections: []models.CourseSection{
			{
				ID:       1,
				CourseID: 7,
				Title:    "Relational Basics",
				Position: 0,
				Resources: []models.CourseResource{
					{ID: 10, SectionID: 1, Title: "What is a table", ResourceType: models.ResourceTypeDocument, Position: 0},
					{ID: 11, SectionID: 1, Title: "Keys quiz", ResourceType: models.ResourceTypeQuiz, Position: 1},
				},
			},
			{ID: 2, CourseID: 7, Title: "SQL", Position: 1},
		},
	}

	svc := NewCourseService(newFakeCourseRepo(course), testLogger())

	content, err := svc.GetCourseContent(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "Intro to Databases", content.Title)
	require.Len(t, content.Sections, 2)
	require.Len(t, content.Sections[0].Resources, 2)
	require.Equal(t, "Keys quiz", content.Sections[0].Resources[1].Title)
	require.Empty(t, content.Sections[1].Resources)
}

func TestGetCourseContentUnknownCourse(t *testing.T) {
	svc := NewCourseService(newFakeCourseRepo(), testLogger())

	_, err := svc.GetCourseContent(context.Background(), 99)
	require.ErrorIs(t, err, ErrCourseNotFound)
}
