package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserID = uuid.UUID

// Admin panel user.
type User struct {
	ID        UserID    `json:"id"`
	Login     string    `json:"login"`
	PassHash  string    `json:"-"` // argon2id encoded hash, never exposed
	CreatedAt time.Time `json:"created_at"`
}

// Category levels. The catalog tree is fixed at three levels: a child's
// type is always parent type + 1.
const (
	CategoryTypeMacro    = 0
	CategoryTypeCategory = 1
	CategoryTypeSub      = 2
)

type Category struct {
	ID        int64     `json:"id"`
	LabelIta  string    `json:"label_ita"`
	LabelEng  string    `json:"label_eng"`
	Type      int       `json:"type"`
	ParentID  *int64    `json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Condition struct {
	ID        int64     `json:"id"`
	LabelIta  string    `json:"label_ita"`
	LabelEng  string    `json:"label_eng"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID             int64     `json:"id"`
	Quantity       int       `json:"quantity"`
	LabelIta       string    `json:"label_ita"`
	LabelEng       string    `json:"label_eng"`
	DescriptionIta string    `json:"description_ita"`
	DescriptionEng string    `json:"description_eng"`
	Creator        string    `json:"creator"`
	Price          *float64  `json:"price"`
	Draft          bool      `json:"draft"`
	InEvidence     bool      `json:"in_evidence"`
	Deleting       bool      `json:"deleting"`
	Year           *int      `json:"year"`
	Code           *string   `json:"code"`
	ConditionID    *int64    `json:"condition_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Faq struct {
	ID        int64     `json:"id"`
	LabelIta  string    `json:"label_ita"`
	LabelEng  string    `json:"label_eng"`
	AnswerIta string    `json:"answer_ita"`
	AnswerEng string    `json:"answer_eng"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Contact struct {
	ID        int64     `json:"id"`
	LabelIta  string    `json:"label_ita"`
	LabelEng  string    `json:"label_eng"`
	LinkValue string    `json:"link_value"`
	ImageID   *int64    `json:"image_id"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Show struct {
	ID             int64      `json:"id"`
	LabelIta       string     `json:"label_ita"`
	LabelEng       string     `json:"label_eng"`
	Location       string     `json:"location"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        *time.Time `json:"end_date"`
	DescriptionIta *string    `json:"description_ita"`
	DescriptionEng *string    `json:"description_eng"`
	Link           *string    `json:"link"`
	ImageID        *int64     `json:"image_id"`
	ImageURL       *string    `json:"image_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Stored image record produced by the media processor.
type Image struct {
	ID        int64     `json:"id"`
	Path      string    `json:"path"`
	AltIta    *string   `json:"alt_ita"`
	AltEng    *string   `json:"alt_eng"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is the paginated listing envelope shared by all admin listings.
type Page[T any] struct {
	Data        []T   `json:"data"`
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
}

func NewPage[T any](data []T, total int64, page, limit int) Page[T] {
	last := int(total) / limit
	if int(total)%limit != 0 || last == 0 {
		last++
	}
	if data == nil {
		data = []T{}
	}
	return Page[T]{Data: data, Total: total, PerPage: limit, CurrentPage: page, LastPage: last}
}
