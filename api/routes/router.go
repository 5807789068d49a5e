package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kisanbazar/kisanbazar-backend/api/controllers"
	"github.com/kisanbazar/kisanbazar-backend/api/middleware"
	internalauth "github.com/kisanbazar/kisanbazar-backend/internal/auth"
	"github.com/kisanbazar/kisanbazar-backend/internal/cart"
	"github.com/kisanbazar/kisanbazar-backend/internal/categories"
	"github.com/kisanbazar/kisanbazar-backend/internal/farmers"
	"github.com/kisanbazar/kisanbazar-backend/internal/messages"
	"github.com/kisanbazar/kisanbazar-backend/internal/orders"
	"github.com/kisanbazar/kisanbazar-backend/internal/products"
	"github.com/kisanbazar/kisanbazar-backend/internal/users"
	"github.com/kisanbazar/kisanbazar-backend/pkg/auth/session"
	"github.com/kisanbazar/kisanbazar-backend/pkg/config"
	dbpkg "github.com/kisanbazar/kisanbazar-backend/pkg/db"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
	"github.com/kisanbazar/kisanbazar-backend/pkg/logger"
	"github.com/kisanbazar/kisanbazar-backend/pkg/metrics"
	redispkg "github.com/kisanbazar/kisanbazar-backend/pkg/redis"
)

// Services bundles every domain service the router mounts.
type Services struct {
	Auth       internalauth.Service
	Register   internalauth.RegisterService
	Users      users.Service
	Farmers    farmers.Service
	Categories categories.Service
	Products   products.Service
	Orders     orders.Service
	Messages   messages.Service
	Cart       cart.Service
}

// NewRouter assembles the full HTTP surface: health probes, metrics, the
// public catalog, and the authenticated marketplace routes.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP dbpkg.Pinger,
	redisClient *redispkg.Client,
	sessions session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.Live())
		r.Get("/ready", controllers.Ready(dbP, redisClient, logg))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	authed := middleware.Auth(cfg.JWT, sessions, logg)
	consumerOnly := middleware.RequireRole(logg, enums.RoleConsumer)
	farmerOnly := middleware.RequireRole(logg, enums.RoleFarmer)
	adminOnly := middleware.RequireRole(logg, enums.RoleAdmin)
	farmerOrAdmin := middleware.RequireRole(logg, enums.RoleFarmer, enums.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
				Post("/register", controllers.Register(svcs.Register, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
				Post("/login", controllers.Login(svcs.Auth, logg))
			r.Post("/refresh", controllers.Refresh(svcs.Auth, logg))
			r.With(authed).Post("/logout", controllers.Logout(svcs.Auth, logg))
			r.With(authed).Get("/me", controllers.Me(svcs.Users, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/farmers", controllers.ListFarmers(svcs.Farmers, logg))
			r.Get("/farmers/{id}", controllers.GetFarmer(svcs.Farmers, logg))

			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.Put("/profile", controllers.UpdateProfile(svcs.Users, logg))
				r.With(farmerOnly).Put("/farmers/profile", controllers.UpsertFarmerProfile(svcs.Farmers, logg))
				r.With(adminOnly).Put("/farmers/{id}/verify", controllers.VerifyFarmer(svcs.Farmers, logg))
				r.With(adminOnly).Get("/", controllers.ListUsers(svcs.Users, logg))
				r.With(adminOnly).Delete("/{id}", controllers.DeleteUser(svcs.Users, logg))
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.ListCategories(svcs.Categories, logg))
			r.Get("/{id}", controllers.GetCategory(svcs.Categories, logg))

			r.Group(func(r chi.Router) {
				r.Use(authed, adminOnly)
				r.Post("/", controllers.CreateCategory(svcs.Categories, logg))
				r.Put("/{id}", controllers.UpdateCategory(svcs.Categories, logg))
				r.Delete("/{id}", controllers.DeleteCategory(svcs.Categories, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Products, logg))

			r.Group(func(r chi.Router) {
				r.Use(authed)
				r.With(farmerOnly).Get("/farmer/me", controllers.ListMyProducts(svcs.Products, logg))
				r.With(farmerOnly).Post("/", controllers.CreateProduct(svcs.Products, logg))
				r.With(farmerOrAdmin).Put("/{id}", controllers.UpdateProduct(svcs.Products, logg))
				r.With(farmerOrAdmin).Delete("/{id}", controllers.DeleteProduct(svcs.Products, logg))
			})

			r.Get("/{id}", controllers.GetProduct(svcs.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authed)
			r.With(consumerOnly).Post("/", controllers.CreateOrder(svcs.Orders, svcs.Cart, logg))
			r.With(consumerOnly).Get("/consumer", controllers.ListMyOrders(svcs.Orders, logg))
			r.With(farmerOnly).Get("/farmer", controllers.ListFarmerOrders(svcs.Orders, logg))
			r.With(adminOnly).Get("/", controllers.ListAllOrders(svcs.Orders, logg))
			r.Get("/{id}", controllers.GetOrder(svcs.Orders, logg))
			r.With(farmerOrAdmin).Put("/{id}", controllers.UpdateOrderStatus(svcs.Orders, logg))
		})

		r.Route("/messages", func(r chi.Router) {
			r.Use(authed)
			r.Post("/", controllers.SendMessage(svcs.Messages, logg))
			r.Get("/", controllers.ListConversations(svcs.Messages, logg))
			r.Put("/read/{userId}", controllers.MarkThreadRead(svcs.Messages, logg))
			r.Get("/{userId}", controllers.GetThread(svcs.Messages, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(authed, consumerOnly)
			r.Get("/", controllers.GetCart(svcs.Cart, logg))
			r.Post("/items", controllers.AddCartItem(svcs.Cart, logg))
			r.Put("/items/{productId}", controllers.UpdateCartItem(svcs.Cart, logg))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(svcs.Cart, logg))
			r.Delete("/", controllers.ClearCart(svcs.Cart, logg))
		})
	})

	return r
}
