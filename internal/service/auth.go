package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nawedy/melting-pot-plus/internal/dto"
	"github.com/nawedy/melting-pot-plus/internal/model"
	"github.com/nawedy/melting-pot-plus/internal/repository"
)

const minPasswordLength = 8

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrUserNotFound       = errors.New("user not found")
	ErrProductNotFound    = errors.New("product not found")
)

// ProductLookup is the slice of the catalog the auth service needs to
// validate wishlist entries.
type ProductLookup interface {
	GetByID(id string) (*model.Product, bool)
}

type AuthService struct {
	userRepo  repository.UserRepository
	products  ProductLookup
	jwtSecret []byte
	jwtExpiry time.Duration
}

func NewAuthService(userRepo repository.UserRepository, products ProductLookup, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{userRepo: userRepo, products: products, jwtSecret: []byte(jwtSecret), jwtExpiry: jwtExpiry}
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email: req.Email, Password: string(hashed),
		Name: req.Name, Role: model.RoleCustomer,
		Preferences: model.Preferences{Language: "en", Currency: "USD", Theme: "light"},
	}
	if req.Language != "" {
		user.Preferences.Language = req.Language
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: dto.ToUserResponse(user)}, nil
}

// Login checks the password length before touching the repository; a
// sub-minimum password can never match a stored hash.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &dto.AuthResponse{Token: token, User: dto.ToUserResponse(user)}, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateUser shallow-merges the patch into the stored record. Only the fields
// present in the request change.
func (s *AuthService) UpdateUser(ctx context.Context, id uuid.UUID, req dto.UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Language != nil {
		user.Preferences.Language = *req.Language
	}
	if req.Currency != nil {
		user.Preferences.Currency = *req.Currency
	}
	if req.Theme != nil {
		user.Preferences.Theme = *req.Theme
	}
	if req.Addresses != nil {
		user.Addresses = req.Addresses
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// AddToWishlist is idempotent; adding an already-listed product changes
// nothing.
func (s *AuthService) AddToWishlist(ctx context.Context, userID uuid.UUID, productID string) (*model.User, error) {
	if _, ok := s.products.GetByID(productID); !ok {
		return nil, ErrProductNotFound
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	for _, id := range user.Wishlist {
		if id == productID {
			return user, nil
		}
	}
	user.Wishlist = append(user.Wishlist, productID)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *AuthService) RemoveFromWishlist(ctx context.Context, userID uuid.UUID, productID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	kept := user.Wishlist[:0]
	for _, id := range user.Wishlist {
		if id != productID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(user.Wishlist) {
		return user, nil
	}
	user.Wishlist = kept

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *AuthService) generateToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  time.Now().Add(s.jwtExpiry).Unix(),
		"iat":  time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
