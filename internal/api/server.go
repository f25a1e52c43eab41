package api

import (
	"github.com/sgharlow/adaptlearn/internal/catalog"
	"github.com/sgharlow/adaptlearn/internal/db"
	"github.com/sgharlow/adaptlearn/internal/services"
)

// Server holds the dependencies of the HTTP API.
type Server struct {
	DB              *db.DB
	Catalog         *catalog.Loader
	Learners        services.LearnerService
	Progress        services.ProgressService
	Recommendations services.RecommendationService
	Narration       services.NarrationService
	Tutor           services.TutorService
}
