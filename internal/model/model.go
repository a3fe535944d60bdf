package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Supported language codes. Catalog and blog fixtures carry one entry per code.
const (
	LangEnglish = "en"
	LangSpanish = "es"
	LangFrench  = "fr"
	LangArabic  = "ar"
	LangAmharic = "am"
)

// Localized maps a language code to a translated string.
type Localized map[string]string

// In returns the translation for lang, falling back to English and then to
// any non-empty entry.
func (l Localized) In(lang string) string {
	if s, ok := l[lang]; ok && s != "" {
		return s
	}
	if s, ok := l[LangEnglish]; ok && s != "" {
		return s
	}
	for _, s := range l {
		if s != "" {
			return s
		}
	}
	return ""
}

const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

type User struct {
	ID          uuid.UUID
	Email       string
	Password    string
	Name        string
	Avatar      string
	Role        string
	Preferences Preferences
	Addresses   []Address
	Wishlist    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Preferences struct {
	Language string `json:"language"`
	Currency string `json:"currency"`
	Theme    string `json:"theme"`
}

type Address struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"is_default"`
}

type Product struct {
	ID              string            `json:"id"`
	Name            Localized         `json:"name"`
	Description     Localized         `json:"description"`
	Price           decimal.Decimal   `json:"price"`
	Currency        string            `json:"currency"`
	Images          []string          `json:"images"`
	Category        string            `json:"category"`
	CountryOfOrigin string            `json:"country_of_origin"`
	InStock         bool              `json:"in_stock"`
	Rating          float64           `json:"rating"`
	Reviews         []Review          `json:"reviews"`
	Specifications  map[string]string `json:"specifications"`
	Tags            []string          `json:"tags"`
}

type Review struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	UserName string    `json:"user_name"`
	Rating   float64   `json:"rating"`
	Comment  string    `json:"comment"`
	Date     time.Time `json:"date"`
	Helpful  int       `json:"helpful"`
	Language string    `json:"language"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        Localized `json:"name"`
	Description Localized `json:"description"`
	Image       string    `json:"image"`
	Slug        string    `json:"slug"`
}

// CartItem references a catalog product by ID. The reference is not enforced
// structurally; the cart re-validates it against the catalog on every
// mutation and on total computation.
type CartItem struct {
	ProductID       string            `json:"product_id"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}

type BlogPost struct {
	ID               string         `json:"id"`
	Title            Localized      `json:"title"`
	Excerpt          Localized      `json:"excerpt"`
	Content          Localized      `json:"content"`
	Author           Author         `json:"author"`
	Category         BlogCategory   `json:"category"`
	Tags             []string       `json:"tags"`
	Image            string         `json:"image"`
	PublishedAt      time.Time      `json:"published_at"`
	ReadTime         int            `json:"read_time"`
	Likes            int            `json:"likes"`
	Shares           int            `json:"shares"`
	SocialShares     map[string]int `json:"social_shares,omitempty"`
	Comments         []BlogComment  `json:"comments"`
	IsUserSubmission bool           `json:"is_user_submission,omitempty"`
	Status           string         `json:"status,omitempty"`
}

type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role,omitempty"`
}

type BlogCategory struct {
	ID   string    `json:"id"`
	Name Localized `json:"name"`
	Slug string    `json:"slug"`
}

// BlogComment supports a single level of replies; replies never nest further.
type BlogComment struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	UserName   string        `json:"user_name"`
	UserAvatar string        `json:"user_avatar,omitempty"`
	Content    string        `json:"content"`
	CreatedAt  time.Time     `json:"created_at"`
	Likes      int           `json:"likes"`
	Replies    []BlogComment `json:"replies,omitempty"`
}

const (
	SubmissionTypeStory  = "story"
	SubmissionTypeRecipe = "recipe"
	SubmissionTypePhoto  = "photo"
	SubmissionTypeReview = "review"
)

const (
	SubmissionStatusPending  = "pending"
	SubmissionStatusApproved = "approved"
	SubmissionStatusRejected = "rejected"
)

// UserSubmission is a community blog contribution. It travels through the
// submissions queue as JSON and is published into the blog store once the
// worker approves it.
type UserSubmission struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Images      []string  `json:"images,omitempty"`
	Author      Author    `json:"author"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags,omitempty"`
	Language    string    `json:"language"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}
