package catalog

import "github.com/sgharlow/adaptlearn/internal/models"

// lessonsFile is the on-disk shape of a *.lessons.yaml content file.
type lessonsFile struct {
	Lessons []models.Lesson `yaml:"lessons"`
}

// pathsFile is the on-disk shape of a *.paths.yaml content file.
type pathsFile struct {
	Paths []models.LearningPath `yaml:"paths"`
}
