package dto

import (
	"time"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

// CourseResourceItem is one unit of course content.
type CourseResourceItem struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	ResourceType string `json:"resource_type"`
	URL          string `json:"url"`
	Position     int    `json:"position"`
}

// CourseSectionItem groups resources inside the content tree.
type CourseSectionItem struct {
	ID        uint                 `json:"id"`
	Title     string               `json:"title"`
	Position  int                  `json:"position"`
	Resources []CourseResourceItem `json:"resources"`
}

// CourseContentResponse is a course with its full section/resource tree.
type CourseContentResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	TeacherID   uint                `json:"teacher_id"`
	Status      string              `json:"status"`
	CoverURL    string              `json:"cover_url"`
	Sections    []CourseSectionItem `json:"sections"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NewCourseContentResponse converts a Course model with preloaded sections
// into its DTO.
func NewCourseContentResponse(model models.Course) CourseContentResponse {
	sections := make([]CourseSectionItem, 0, len(model.Sections))
	for _, section := range model.Sections {
		resources := make([]CourseResourceItem, 0, len(section.Resources))
		for _, resource := range section.Resources {
			resources = append(resources, CourseResourceItem{
				ID:           resource.ID,
				Title:        resource.Title,
				ResourceType: resource.ResourceType,
				URL:          resource.URL,
				Position:     resource.Position,
			})
		}
		sections = append(sections, CourseSectionItem{
			ID:        section.ID,
			Title:     section.Title,
			Position:  section.Position,
			Resources: resources,
		})
	}

	return CourseContentResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		TeacherID:   model.TeacherID,
		Status:      model.Status,
		CoverURL:    model.CoverURL,
		Sections:    sections,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
