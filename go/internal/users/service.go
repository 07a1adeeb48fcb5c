package users

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mcdev12/auctionpro/go/internal/api"
	"github.com/mcdev12/auctionpro/go/internal/models"
)

// UsersApp defines what the service layer needs from the users application
type UsersApp interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	Authenticate(ctx context.Context, email string) (*models.User, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, req UpsertProfileRequest) (*models.Profile, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// Service implements the AccountService RPCs
type Service struct {
	app            UsersApp
	startingBudget decimal.Decimal
}

// NewService creates a new account service
func NewService(app UsersApp, startingBudget decimal.Decimal) *Service {
	return &Service{
		app:            app,
		startingBudget: startingBudget,
	}
}

// Register mounts the service's handlers on mux
func (s *Service) Register(mux *http.ServeMux) {
	mux.Handle(api.Unary(api.CreateAccountProcedure, s.CreateAccount))
	mux.Handle(api.Unary(api.AuthenticateProcedure, s.Authenticate))
	mux.Handle(api.Unary(api.GetUserProcedure, s.GetUser))
	mux.Handle(api.Unary(api.UpsertProfileProcedure, s.UpsertProfile))
	mux.Handle(api.Unary(api.GetProfileProcedure, s.GetProfile))
}

// CreateAccount registers a host or buyer
func (s *Service) CreateAccount(ctx context.Context, req *api.CreateAccountRequest) (*api.CreateAccountResponse, error) {
	user, err := s.app.CreateUser(ctx, CreateUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Type:     req.UserType,
	})
	if err != nil {
		return nil, err
	}
	return &api.CreateAccountResponse{User: user}, nil
}

// Authenticate looks up the account for an email
func (s *Service) Authenticate(ctx context.Context, req *api.AuthenticateRequest) (*api.AuthenticateResponse, error) {
	user, err := s.app.Authenticate(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	return &api.AuthenticateResponse{User: user}, nil
}

// GetUser retrieves a user by ID
func (s *Service) GetUser(ctx context.Context, req *api.GetUserRequest) (*api.GetUserResponse, error) {
	user, err := s.app.GetUser(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &api.GetUserResponse{User: user}, nil
}

// UpsertProfile replaces a bidder's preferences
func (s *Service) UpsertProfile(ctx context.Context, req *api.UpsertProfileRequest) (*api.ProfileResponse, error) {
	profile, err := s.app.UpsertProfile(ctx, req.UserID, UpsertProfileRequest{Preferences: req.Preferences})
	if err != nil {
		return nil, err
	}
	return &api.ProfileResponse{Profile: profile, StartingBudget: s.startingBudget}, nil
}

// GetProfile returns a bidder's preferences and budget
func (s *Service) GetProfile(ctx context.Context, req *api.GetProfileRequest) (*api.ProfileResponse, error) {
	profile, err := s.app.GetProfile(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return &api.ProfileResponse{Profile: profile, StartingBudget: s.startingBudget}, nil
}
