package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nawedy/melting-pot-plus/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
	Language string `json:"language" binding:"omitempty,oneof=en es fr ar am"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID          uuid.UUID         `json:"id"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	Avatar      string            `json:"avatar,omitempty"`
	Role        string            `json:"role"`
	Preferences model.Preferences `json:"preferences"`
	Addresses   []model.Address   `json:"addresses,omitempty"`
	Wishlist    []string          `json:"wishlist"`
}

type UpdateUserRequest struct {
	Name      *string         `json:"name"`
	Avatar    *string         `json:"avatar"`
	Language  *string         `json:"language" binding:"omitempty,oneof=en es fr ar am"`
	Currency  *string         `json:"currency"`
	Theme     *string         `json:"theme" binding:"omitempty,oneof=light dark"`
	Addresses []model.Address `json:"addresses"`
}

func ToUserResponse(user *model.User) UserResponse {
	wishlist := user.Wishlist
	if wishlist == nil {
		wishlist = []string{}
	}
	return UserResponse{
		ID: user.ID, Email: user.Email, Name: user.Name, Avatar: user.Avatar,
		Role: user.Role, Preferences: user.Preferences,
		Addresses: user.Addresses, Wishlist: wishlist,
	}
}

// --- Catalog ---

type ListProductsRequest struct {
	Category    string `form:"category"`
	Country     string `form:"country"`
	Search      string `form:"search"`
	InStockOnly bool   `form:"in_stock"`
}

type ProductResponse struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Price           decimal.Decimal   `json:"price"`
	Currency        string            `json:"currency"`
	Images          []string          `json:"images"`
	Category        string            `json:"category"`
	CountryOfOrigin string            `json:"country_of_origin"`
	InStock         bool              `json:"in_stock"`
	Rating          float64           `json:"rating"`
	Specifications  map[string]string `json:"specifications,omitempty"`
	Tags            []string          `json:"tags"`
	Reviews         []model.Review    `json:"reviews,omitempty"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

type UpdateStockRequest struct {
	InStock *bool `json:"in_stock" binding:"required"`
}

func ToProductResponse(p *model.Product, lang string) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		Name:            p.Name.In(lang),
		Description:     p.Description.In(lang),
		Price:           p.Price,
		Currency:        p.Currency,
		Images:          p.Images,
		Category:        p.Category,
		CountryOfOrigin: p.CountryOfOrigin,
		InStock:         p.InStock,
		Rating:          p.Rating,
		Specifications:  p.Specifications,
		Tags:            p.Tags,
		Reviews:         p.Reviews,
	}
}

// --- Cart ---

type AddCartItemRequest struct {
	ProductID       string            `json:"product_id" binding:"required"`
	Quantity        int               `json:"quantity" binding:"required,min=1"`
	SelectedOptions map[string]string `json:"selected_options"`
}

// UpdateCartItemRequest carries no binding constraint on purpose: a
// non-positive quantity reaches the cart and is swallowed there, so the
// client observes a 200 with unchanged state rather than a 400.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items  []CartItemResponse `json:"items"`
	IsOpen bool               `json:"is_open"`
	Total  decimal.Decimal    `json:"total"`
}

type CartItemResponse struct {
	ProductID       string            `json:"product_id"`
	Name            string            `json:"name,omitempty"`
	Price           decimal.Decimal   `json:"price"`
	Quantity        int               `json:"quantity"`
	InStock         bool              `json:"in_stock"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}

// --- Blog ---

type ListPostsRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
}

type BlogPostResponse struct {
	ID           string              `json:"id"`
	Title        string              `json:"title"`
	Excerpt      string              `json:"excerpt"`
	Content      string              `json:"content,omitempty"`
	Author       model.Author        `json:"author"`
	Category     string              `json:"category"`
	CategorySlug string              `json:"category_slug"`
	Tags         []string            `json:"tags"`
	Image        string              `json:"image"`
	PublishedAt  time.Time           `json:"published_at"`
	ReadTime     int                 `json:"read_time"`
	Likes        int                 `json:"likes"`
	Shares       int                 `json:"shares"`
	Comments     []model.BlogComment `json:"comments,omitempty"`
}

type BlogListResponse struct {
	Posts []BlogPostResponse `json:"posts"`
	Total int                `json:"total"`
}

func ToBlogPostResponse(p *model.BlogPost, lang string, includeBody bool) BlogPostResponse {
	resp := BlogPostResponse{
		ID:           p.ID,
		Title:        p.Title.In(lang),
		Excerpt:      p.Excerpt.In(lang),
		Author:       p.Author,
		Category:     p.Category.Name.In(lang),
		CategorySlug: p.Category.Slug,
		Tags:         p.Tags,
		Image:        p.Image,
		PublishedAt:  p.PublishedAt,
		ReadTime:     p.ReadTime,
		Likes:        p.Likes,
		Shares:       p.Shares,
	}
	if includeBody {
		resp.Content = p.Content.In(lang)
		resp.Comments = p.Comments
	}
	return resp
}

type AddCommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type ShareRequest struct {
	Platform string `json:"platform" binding:"required,oneof=facebook twitter instagram whatsapp"`
}

type SubmitPostRequest struct {
	Type     string   `json:"type" binding:"required,oneof=story recipe photo review"`
	Title    string   `json:"title" binding:"required,max=200"`
	Content  string   `json:"content" binding:"required"`
	Images   []string `json:"images"`
	Category string   `json:"category" binding:"required"`
	Tags     []string `json:"tags"`
	Language string   `json:"language" binding:"required,oneof=en es fr ar am"`
}

type SubmissionResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}
