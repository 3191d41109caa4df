package web

import "github.com/ValerioGc/shop-manager/internal/domain"

type Repos struct {
	Users      domain.UsersRepo
	Categories domain.CategoriesRepo
	Products   domain.ProductsRepo
	Conditions domain.ConditionsRepo
	Contacts   domain.ContactsRepo
	Faqs       domain.FaqsRepo
	Shows      domain.ShowsRepo
	Images     domain.ImagesRepo
	Relations  domain.RelationsRepo
	Search     domain.SearchRepo
}

type AuthDeps struct {
	Hasher    domain.PasswordHasher
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
}
