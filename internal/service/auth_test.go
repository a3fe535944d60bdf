package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nawedy/melting-pot-plus/internal/dto"
	"github.com/nawedy/melting-pot-plus/internal/model"
)

type mockUserRepo struct {
	users map[string]*model.User
	byID  map[uuid.UUID]*model.User
	calls int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), byID: make(map[uuid.UUID]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.calls++
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.calls++
	return m.byID[id], nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.calls++
	return m.users[email], nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.calls++
	m.users[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

type mockProducts struct {
	products map[string]*model.Product
}

func newMockProducts(ids ...string) *mockProducts {
	m := &mockProducts{products: make(map[string]*model.Product)}
	for _, id := range ids {
		m.products[id] = &model.Product{ID: id, Price: decimal.NewFromInt(10), InStock: true}
	}
	return m
}

func (m *mockProducts) GetByID(id string) (*model.Product, bool) {
	p, ok := m.products[id]
	return p, ok
}

func newTestAuthService(repo *mockUserRepo, products *mockProducts) *AuthService {
	return NewAuthService(repo, products, "test-secret", time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo, newMockProducts())

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "test@example.com", Password: "password123", Name: "John Doe", Language: "fr",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "test@example.com", resp.User.Email)
	assert.Equal(t, model.RoleCustomer, resp.User.Role)
	assert.Equal(t, "fr", resp.User.Preferences.Language)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo, newMockProducts())

	repo.users["test@example.com"] = &model.User{Email: "test@example.com"}

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Email: "test@example.com", Password: "password123", Name: "John Doe",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo, newMockProducts())

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo.users["test@example.com"] = &model.User{
		ID: uuid.New(), Email: "test@example.com", Password: string(hashed), Role: model.RoleCustomer,
	}

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "test@example.com", Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo, newMockProducts())

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	repo.users["test@example.com"] = &model.User{
		ID: uuid.New(), Email: "test@example.com", Password: string(hashed),
	}

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "test@example.com", Password: "wrongpassword",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// A password below the minimum fails before the repository is ever consulted.
func TestAuthService_Login_ShortPasswordSkipsRepo(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo, newMockProducts())

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email: "a@b.com", Password: "short",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.Zero(t, repo.calls)
}

func TestAuthService_UpdateUser_PartialMerge(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo, newMockProducts())

	user := &model.User{
		Email: "u@example.com", Password: "h", Name: "Before",
		Preferences: model.Preferences{Language: "en", Currency: "USD", Theme: "light"},
	}
	require.NoError(t, repo.Create(context.Background(), user))

	name := "After"
	theme := "dark"
	updated, err := svc.UpdateUser(context.Background(), user.ID, dto.UpdateUserRequest{
		Name: &name, Theme: &theme,
	})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, "dark", updated.Preferences.Theme)
	// Untouched fields survive the merge.
	assert.Equal(t, "en", updated.Preferences.Language)
	assert.Equal(t, "USD", updated.Preferences.Currency)
}

func TestAuthService_UpdateUser_NotLoggedIn(t *testing.T) {
	svc := newTestAuthService(newMockUserRepo(), newMockProducts())

	name := "X"
	_, err := svc.UpdateUser(context.Background(), uuid.New(), dto.UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Wishlist(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo, newMockProducts("p1"))
	ctx := context.Background()

	user := &model.User{Email: "w@example.com", Password: "h", Name: "W"}
	require.NoError(t, repo.Create(ctx, user))

	updated, err := svc.AddToWishlist(ctx, user.ID, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, updated.Wishlist)

	// Re-adding is idempotent.
	updated, err = svc.AddToWishlist(ctx, user.ID, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, updated.Wishlist)

	updated, err = svc.RemoveFromWishlist(ctx, user.ID, "p1")
	require.NoError(t, err)
	assert.Empty(t, updated.Wishlist)

	// Removing again is a no-op.
	_, err = svc.RemoveFromWishlist(ctx, user.ID, "p1")
	require.NoError(t, err)
}

func TestAuthService_Wishlist_UnknownProduct(t *testing.T) {
	repo := newMockUserRepo()
	svc := newTestAuthService(repo, newMockProducts())
	ctx := context.Background()

	user := &model.User{Email: "w@example.com", Password: "h", Name: "W"}
	require.NoError(t, repo.Create(ctx, user))

	_, err := svc.AddToWishlist(ctx, user.ID, "ghost")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
