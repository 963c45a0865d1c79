package api

import (
	"context"
	"io"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler        authHandler
	projectHandler     contentRoutes
	certificateHandler contentRoutes
	skillHandler       contentRoutes
	contactHandler     contactHandler
	statsHandler       statsHandler
	healthHandler      healthHandler
	uploadHandler      *uploadHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"project not found"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Missing required field: title"`
}

// SessionVerifier turns a bearer or cookie token into a user id.
type SessionVerifier interface {
	Verify(token string) (string, bool)
}

// Authenticator is the login flow behind the auth endpoints.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (services.LoginResult, error)
	CurrentUser(ctx context.Context, userID string) (models.PublicAdminUser, error)
}

// ContactNotifier is told about every stored contact message.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, msg models.ContactMessage) error
}

// ImageUploader stores an uploaded image and returns where it lives.
type ImageUploader interface {
	Put(ctx context.Context, filename, contentType string, body io.Reader) (services.StoredImage, error)
}

// Dependencies is everything the router needs. Notifier and Images are
// optional and must be left nil when the feature is not configured.
type Dependencies struct {
	Config      config.Config
	Database    database.Database
	Sessions    SessionVerifier
	Auth        Authenticator
	SessionTTL  time.Duration
	Notifier    ContactNotifier
	Images      ImageUploader
	StartupTime time.Time
}
