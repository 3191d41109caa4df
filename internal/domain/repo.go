package domain

import (
	"context"
	"time"
)

// ListParams covers the shared paginate/order query parameters of the
// admin listings. OrderBy is validated against a per-repo whitelist.
type ListParams struct {
	Page    int
	Limit   int
	OrderBy string
	Order   string
}

func (p ListParams) Normalize() ListParams {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = 10
	}
	if p.Order != "asc" && p.Order != "desc" {
		p.Order = "desc"
	}
	if p.OrderBy == "" {
		p.OrderBy = "updated_at"
	}
	return p
}

func (p ListParams) Offset() uint64 { return uint64((p.Page - 1) * p.Limit) }

// ProductFilter drives the public catalog listing. CategoryID expands to
// the category and all of its descendants.
type ProductFilter struct {
	ListParams
	CategoryID    *int64
	InEvidence    bool
	IncludeDrafts bool
}

type ProductSearch struct {
	ListParams
	Query string
	Lang  string
}

type SearchHit struct {
	ID        int64     `json:"id"`
	LabelIta  string    `json:"label_ita"`
	Creator   *string   `json:"creator,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UsersRepo interface {
	Close()
	Ping(ctx context.Context) error
	CreateUser(ctx context.Context, login, passHash string) (User, error)
	UserByLogin(ctx context.Context, login string) (User, error)
	UserByID(ctx context.Context, id UserID) (User, error)
	UsersPage(ctx context.Context, p ListParams) (Page[User], error)
	DeleteUser(ctx context.Context, id UserID) error
}

type CategoriesRepo interface {
	AllCategories(ctx context.Context) ([]Category, error)
	CategoryByID(ctx context.Context, id int64) (Category, error)
	CategoriesPage(ctx context.Context, typeFilter *int, p ListParams) (Page[Category], error)
	CategoriesByType(ctx context.Context, typeFilter *int) ([]Category, error)
	FindCategoryDuplicate(ctx context.Context, labelIta, labelEng string, typ int, parentID *int64, excludeID int64) (Category, bool, error)
	CreateCategory(ctx context.Context, c Category) (Category, error)
	UpdateCategory(ctx context.Context, c Category) error
	DeleteCategory(ctx context.Context, id int64) error
	CategoryHasProducts(ctx context.Context, id int64) (bool, error)
	CategoryHasChildren(ctx context.Context, id int64) (bool, error)
	// Category and all descendants, for product filtering by category.
	CategoryWithDescendants(ctx context.Context, id int64) ([]int64, error)
	CategoryProductsPage(ctx context.Context, id int64, p ListParams) (Page[Product], error)
}

type ProductsRepo interface {
	ProductByID(ctx context.Context, id int64) (Product, error)
	ProductsPage(ctx context.Context, deleting bool, p ListParams) (Page[Product], error)
	FilterProducts(ctx context.Context, f ProductFilter) (Page[Product], error)
	SearchProducts(ctx context.Context, s ProductSearch) (Page[Product], error)
	// FindProductByLabels looks up a product matching either exact label.
	FindProductByLabels(ctx context.Context, labelIta, labelEng string) (Product, bool, error)
	CreateProduct(ctx context.Context, pr Product) (Product, error)
	UpdateProduct(ctx context.Context, pr Product) error
	DeleteProduct(ctx context.Context, id int64) error
	SetProductDraft(ctx context.Context, id int64, draft bool) error
	SetProductDeleting(ctx context.Context, id int64, deleting bool) error
	DeleteTrashedProducts(ctx context.Context) (int64, error)
}

type ConditionsRepo interface {
	AllConditions(ctx context.Context) ([]Condition, error)
	ConditionByID(ctx context.Context, id int64) (Condition, error)
	ConditionsPage(ctx context.Context, p ListParams) (Page[Condition], error)
	FindConditionDuplicate(ctx context.Context, labelIta, labelEng string, excludeID int64) (Condition, bool, error)
	CreateCondition(ctx context.Context, c Condition) (Condition, error)
	UpdateCondition(ctx context.Context, c Condition) error
	DeleteCondition(ctx context.Context, id int64) error
	ConditionInUse(ctx context.Context, id int64) (bool, error)
}

type ContactsRepo interface {
	AllContacts(ctx context.Context) ([]Contact, error)
	FilteredContacts(ctx context.Context, keywords []string, limit int) ([]Contact, error)
	ContactByID(ctx context.Context, id int64) (Contact, error)
	ContactsPage(ctx context.Context, p ListParams) (Page[Contact], error)
	CreateContact(ctx context.Context, c Contact) (Contact, error)
	UpdateContact(ctx context.Context, c Contact) error
	DeleteContact(ctx context.Context, id int64) error
}

type FaqsRepo interface {
	AllFaqs(ctx context.Context) ([]Faq, error)
	FaqByID(ctx context.Context, id int64) (Faq, error)
	FaqsPage(ctx context.Context, p ListParams) (Page[Faq], error)
	CreateFaq(ctx context.Context, f Faq) (Faq, error)
	UpdateFaq(ctx context.Context, f Faq) error
	DeleteFaq(ctx context.Context, id int64) error
}

type ShowsRepo interface {
	OldShowsPage(ctx context.Context, now time.Time, p ListParams) (Page[Show], error)
	NewShows(ctx context.Context, now time.Time, limit int) ([]Show, error)
	ShowByID(ctx context.Context, id int64) (Show, error)
	ShowsPage(ctx context.Context, p ListParams) (Page[Show], error)
	CreateShow(ctx context.Context, s Show) (Show, error)
	UpdateShow(ctx context.Context, s Show) error
	DeleteShow(ctx context.Context, id int64) error
}

type ImagesRepo interface {
	CreateImage(ctx context.Context, img Image) (Image, error)
	ImageByID(ctx context.Context, id int64) (Image, error)
	DeleteImage(ctx context.Context, id int64) error
	ProductImages(ctx context.Context, productID int64) ([]Image, error)
	LinkImage(ctx context.Context, imageID int64, entity string, entityID int64, ord int) error
	// UnlinkEntityImages removes the associations of an entity and
	// returns the ids of the images that are no longer referenced.
	UnlinkEntityImages(ctx context.Context, entity string, entityID int64) ([]int64, error)
}

// RelationsRepo manages the category_product join table.
type RelationsRepo interface {
	ProductIDsForCategory(ctx context.Context, categoryID int64) ([]int64, error)
	CategoryIDsForProduct(ctx context.Context, productID int64) ([]int64, error)
	// Replace-style upsert: rows not present in ids are removed.
	SetProductsForCategory(ctx context.Context, categoryID int64, productIDs []int64) error
	SetCategoriesForProduct(ctx context.Context, productID int64, categoryIDs []int64) error
	UnlinkCategoryProducts(ctx context.Context, categoryID int64) (int64, error)
}

// SearchRepo backs the admin panel cross-entity label search.
type SearchRepo interface {
	SearchByLabel(ctx context.Context, entity, query string, p ListParams) (Page[SearchHit], error)
}
