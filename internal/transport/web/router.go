package web

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/ValerioGc/shop-manager/internal/docs"
	"github.com/ValerioGc/shop-manager/internal/domain"
	"github.com/ValerioGc/shop-manager/internal/respcache"
	"github.com/ValerioGc/shop-manager/internal/transport/web/mw"
	"github.com/ValerioGc/shop-manager/internal/transport/web/v1/auth"
	"github.com/ValerioGc/shop-manager/internal/transport/web/v1/category"
	"github.com/ValerioGc/shop-manager/internal/transport/web/v1/condition"
	"github.com/ValerioGc/shop-manager/internal/transport/web/v1/configjson"
	"github.com/ValerioGc/shop-manager/internal/transport/web/v1/contact"
	"github.com/ValerioGc/shop-manager/internal/transport/web/v1/faq"
	"github.com/ValerioGc/shop-manager/internal/transport/web/v1/health"
	"github.com/ValerioGc/shop-manager/internal/transport/web/v1/product"
	"github.com/ValerioGc/shop-manager/internal/transport/web/v1/relation"
	"github.com/ValerioGc/shop-manager/internal/transport/web/v1/search"
	"github.com/ValerioGc/shop-manager/internal/transport/web/v1/show"
	"github.com/ValerioGc/shop-manager/internal/transport/web/v1/upload"
)

func sub(logger *log.Logger, name string) *log.Logger {
	return log.New(logger.Writer(), logger.Prefix()+"["+name+"] ", logger.Flags())
}

func newRouter(
	logger *log.Logger,
	repos Repos,
	authDeps AuthDeps,
	storage domain.BlobStorage,
	media domain.MediaProcessor,
	respCache *respcache.Service,
	db, cache health.Pinger,
) http.Handler {
	healthHandler := &health.Handler{Log: sub(logger, "health"), DB: db, Cache: cache}
	categoryHandler := &category.Handler{
		Log: sub(logger, "category"), Categories: repos.Categories,
		Relations: repos.Relations, Cache: respCache,
	}
	productHandler := &product.Handler{
		Log: sub(logger, "product"), Products: repos.Products, Relations: repos.Relations,
		Images: repos.Images, Conditions: repos.Conditions, Storage: storage, Cache: respCache,
	}
	relationHandler := &relation.Handler{
		Log: sub(logger, "relation"), Relations: repos.Relations, Cache: respCache,
	}
	conditionHandler := &condition.Handler{
		Log: sub(logger, "condition"), Conditions: repos.Conditions, Cache: respCache,
	}
	faqHandler := &faq.Handler{Log: sub(logger, "faq"), Faqs: repos.Faqs, Cache: respCache}
	contactHandler := &contact.Handler{
		Log: sub(logger, "contact"), Contacts: repos.Contacts,
		Images: repos.Images, Storage: storage, Cache: respCache,
	}
	showHandler := &show.Handler{
		Log: sub(logger, "show"), Shows: repos.Shows,
		Images: repos.Images, Storage: storage, Cache: respCache,
	}
	searchHandler := &search.Handler{Log: sub(logger, "search"), Search: repos.Search}
	configHandler := &configjson.Handler{Log: sub(logger, "config"), Storage: storage, Cache: respCache}
	authHandler := &auth.Handler{
		Log: sub(logger, "auth"), Users: repos.Users,
		Hasher: authDeps.Hasher, Tokens: authDeps.Tokens, Blacklist: authDeps.Blacklist,
	}
	uploadHandler := &upload.Handler{
		Log: sub(logger, "upload"), Media: media, Images: repos.Images, Cache: respCache,
	}

	guard := mw.AuthDeps{Tokens: authDeps.Tokens, Blacklist: authDeps.Blacklist}
	mux := http.NewServeMux()

	// Public reads go through the response cache. Private reads go
	// through it too, but only behind auth so a cache hit can never
	// leak an admin payload to an anonymous client.
	pub := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, respCache.Middleware(h))
	}
	priv := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, mw.RequireAuth(guard, respCache.Middleware(h)))
	}

	// ops
	mux.HandleFunc("GET /api/healthz", healthHandler.Liveness)
	mux.HandleFunc("GET /api/readyz", healthHandler.Readiness)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// public site
	pub("GET /api/public/category/tree", categoryHandler.Tree)
	pub("GET /api/public/category/products/{id}", categoryHandler.Products)
	pub("GET /api/public/product/get/{id}", productHandler.GetPublic)
	pub("GET /api/public/product/paginate", productHandler.Paginate)
	pub("GET /api/public/product/filter", productHandler.Filter)
	pub("GET /api/public/product/search", productHandler.Search)
	pub("GET /api/public/condition", conditionHandler.All)
	pub("GET /api/public/faq", faqHandler.All)
	pub("GET /api/public/contact", contactHandler.All)
	pub("GET /api/public/contact/specific", contactHandler.Specific)
	pub("GET /api/public/show/old", showHandler.Old)
	pub("GET /api/public/show/new", showHandler.New)
	pub("GET /api/public/show/get/{id}", showHandler.GetPublic)
	pub("GET /api/public/config", configHandler.Read)

	// auth
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	// admin: categories
	priv("GET /api/private/category/get/{id}", categoryHandler.Get)
	priv("GET /api/private/category/paginate", categoryHandler.Paginate)
	priv("GET /api/private/category/all", categoryHandler.All)
	mux.Handle("POST /api/private/category/create", mw.RequireAuth(guard, http.HandlerFunc(categoryHandler.Create)))
	mux.Handle("PUT /api/private/category/update/{id}", mw.RequireAuth(guard, http.HandlerFunc(categoryHandler.Update)))
	mux.Handle("PUT /api/private/category/unlink/{id}", mw.RequireAuth(guard, http.HandlerFunc(categoryHandler.Unlink)))
	mux.Handle("DELETE /api/private/category/delete/{id}", mw.RequireAuth(guard, http.HandlerFunc(categoryHandler.Delete)))

	// admin: products
	priv("GET /api/private/product/get/{id}", productHandler.Get)
	priv("GET /api/private/product/paginate", productHandler.Paginate)
	priv("GET /api/private/product/filter", productHandler.FilterAll)
	priv("GET /api/private/product/trash", productHandler.Trash)
	mux.Handle("POST /api/private/product/create", mw.RequireAuth(guard, http.HandlerFunc(productHandler.Create)))
	mux.Handle("POST /api/private/product/clone/{id}", mw.RequireAuth(guard, http.HandlerFunc(productHandler.Clone)))
	mux.Handle("PUT /api/private/product/update/{id}", mw.RequireAuth(guard, http.HandlerFunc(productHandler.Update)))
	mux.Handle("PUT /api/private/product/draft/{id}", mw.RequireAuth(guard, http.HandlerFunc(productHandler.SetDraft)))
	mux.Handle("PUT /api/private/product/restore/{id}", mw.RequireAuth(guard, http.HandlerFunc(productHandler.Restore)))
	mux.Handle("DELETE /api/private/product/delete/{id}", mw.RequireAuth(guard, http.HandlerFunc(productHandler.Delete)))
	mux.Handle("DELETE /api/private/product/trash/empty", mw.RequireAuth(guard, http.HandlerFunc(productHandler.EmptyTrash)))

	// admin: conditions
	priv("GET /api/private/condition/get/{id}", conditionHandler.Get)
	priv("GET /api/private/condition/paginate", conditionHandler.Paginate)
	priv("GET /api/private/condition/all", conditionHandler.All)
	mux.Handle("POST /api/private/condition/create", mw.RequireAuth(guard, http.HandlerFunc(conditionHandler.Create)))
	mux.Handle("PUT /api/private/condition/update/{id}", mw.RequireAuth(guard, http.HandlerFunc(conditionHandler.Update)))
	mux.Handle("DELETE /api/private/condition/delete/{id}", mw.RequireAuth(guard, http.HandlerFunc(conditionHandler.Delete)))

	// admin: faqs
	priv("GET /api/private/faq/get/{id}", faqHandler.Get)
	priv("GET /api/private/faq/paginate", faqHandler.Paginate)
	mux.Handle("POST /api/private/faq/create", mw.RequireAuth(guard, http.HandlerFunc(faqHandler.Create)))
	mux.Handle("PUT /api/private/faq/update/{id}", mw.RequireAuth(guard, http.HandlerFunc(faqHandler.Update)))
	mux.Handle("DELETE /api/private/faq/delete/{id}", mw.RequireAuth(guard, http.HandlerFunc(faqHandler.Delete)))

	// admin: contacts
	priv("GET /api/private/contact/get/{id}", contactHandler.Get)
	priv("GET /api/private/contact/paginate", contactHandler.Paginate)
	mux.Handle("POST /api/private/contact/create", mw.RequireAuth(guard, http.HandlerFunc(contactHandler.Create)))
	mux.Handle("PUT /api/private/contact/update/{id}", mw.RequireAuth(guard, http.HandlerFunc(contactHandler.Update)))
	mux.Handle("DELETE /api/private/contact/delete/{id}", mw.RequireAuth(guard, http.HandlerFunc(contactHandler.Delete)))

	// admin: shows
	priv("GET /api/private/show/get/{id}", showHandler.Get)
	priv("GET /api/private/show/paginate", showHandler.Paginate)
	mux.Handle("POST /api/private/show/create", mw.RequireAuth(guard, http.HandlerFunc(showHandler.Create)))
	mux.Handle("PUT /api/private/show/update/{id}", mw.RequireAuth(guard, http.HandlerFunc(showHandler.Update)))
	mux.Handle("DELETE /api/private/show/delete/{id}", mw.RequireAuth(guard, http.HandlerFunc(showHandler.Delete)))

	// admin: category<->product links. Reads bypass the cache: relation
	// edits ride several write paths and the entity segment here would
	// sit outside the product/category invalidation fan-out.
	mux.Handle("GET /api/private/catProduct/category/{id}", mw.RequireAuth(guard, http.HandlerFunc(relationHandler.CategoryProducts)))
	mux.Handle("GET /api/private/catProduct/product/{id}", mw.RequireAuth(guard, http.HandlerFunc(relationHandler.ProductCategories)))
	mux.Handle("PUT /api/private/catProduct/category/{id}", mw.RequireAuth(guard, http.HandlerFunc(relationHandler.SetCategoryProducts)))
	mux.Handle("PUT /api/private/catProduct/product/{id}", mw.RequireAuth(guard, http.HandlerFunc(relationHandler.SetProductCategories)))

	// admin: search
	priv("GET /api/private/search/{entity}", searchHandler.ByLabel)

	// admin: FE config document, excluded from the response cache
	mux.Handle("GET /api/private/config", mw.RequireAuth(guard, http.HandlerFunc(configHandler.Read)))
	mux.Handle("POST /api/private/config", mw.RequireAuth(guard, http.HandlerFunc(configHandler.Write)))

	// admin: users
	priv("GET /api/private/user/paginate", authHandler.ListUsers)
	mux.Handle("POST /api/private/user/create", mw.RequireAuth(guard, http.HandlerFunc(authHandler.Register)))
	mux.Handle("DELETE /api/private/user/delete/{id}", mw.RequireAuth(guard, http.HandlerFunc(authHandler.DeleteUser)))

	// admin: images
	mux.Handle("POST /api/private/image/upload", mw.RequireAuth(guard, limitBody(16<<20, uploadHandler.Upload)))
	mux.Handle("DELETE /api/private/image/delete/{id}", mw.RequireAuth(guard, http.HandlerFunc(uploadHandler.Delete)))

	return mw.WithRequestID(mw.Logging(logger)(mw.Metrics(mux)))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}
