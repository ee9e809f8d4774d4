package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront-backend/api/controllers"
	"storefront-backend/api/middleware"
	"storefront-backend/internal/auth"
	"storefront-backend/internal/banners"
	"storefront-backend/internal/brands"
	"storefront-backend/internal/cart"
	"storefront-backend/internal/categories"
	"storefront-backend/internal/home"
	"storefront-backend/internal/notifications"
	"storefront-backend/internal/orders"
	"storefront-backend/internal/products"
	"storefront-backend/internal/ratings"
	"storefront-backend/internal/users"
	"storefront-backend/internal/wishlist"
	"storefront-backend/pkg/auth/session"
	"storefront-backend/pkg/config"
	"storefront-backend/pkg/db"
	"storefront-backend/pkg/enums"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/metrics"
	"storefront-backend/pkg/redis"
)

// Deps carries everything the route tree needs. Optional fields
// (MetricsHandler, HTTPMetrics, RedisClient, Idempotency) may be nil.
type Deps struct {
	Cfg            *config.Config
	Logger         *logger.Logger
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
	DBPinger       db.Pinger
	RedisClient    *redis.Client
	Idempotency    redis.IdempotencyStore
	Sessions       session.AccessSessionChecker

	Auth          auth.Service
	Users         *users.Service
	Products      *products.Service
	Categories    *categories.Service
	Brands        *brands.Service
	Banners       *banners.Service
	Ratings       *ratings.Service
	Cart          *cart.Service
	Wishlist      *wishlist.Service
	Orders        *orders.Service
	Notifications *notifications.Service
	Home          *home.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Cfg, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DBPinger, d.RedisClient))
	})

	if d.MetricsHandler != nil {
		r.Handle("/metrics", d.MetricsHandler)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, d.RedisClient, logg)).Post("/signup", controllers.AuthSignup(d.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.RedisClient, logg)).Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(d.Auth, cfg.JWT, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, d.RedisClient, logg)).Post("/forgot-password", controllers.AuthForgotPassword(d.Auth, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(d.Auth, logg))
		r.Post("/verify", controllers.AuthVerify(d.Auth, logg))
	})

	// Public catalog surface.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/home", controllers.HomePage(d.Home, logg))
		r.Get("/categories", controllers.CategoryList(d.Categories, logg))
		r.Get("/categories/{categoryId}", controllers.CategoryDetail(d.Categories, logg))
		r.Get("/brands", controllers.BrandList(d.Brands, logg))
		r.Get("/banners", controllers.BannerList(d.Banners, logg))
		r.Get("/products", controllers.ProductList(d.Products, logg))
		r.Get("/products/search", controllers.ProductList(d.Products, logg))
		r.Get("/products/sale", controllers.SaleProducts(d.Products, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(d.Products, logg))
		r.Get("/products/{productId}/ratings", controllers.ProductRatings(d.Ratings, logg))

		// Authenticated shopper surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Use(middleware.Idempotency(d.Idempotency, logg))

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", controllers.UserProfile(d.Users, logg))
				r.Put("/", controllers.UserUpdateProfile(d.Users, logg))
				r.Patch("/", controllers.UserUpdateProfile(d.Users, logg))
				r.Delete("/", controllers.UserDeactivate(d.Users, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(d.Cart, logg))
				r.Put("/", controllers.CartUpsert(d.Cart, logg))
				r.Delete("/", controllers.CartClear(d.Cart, logg))
				r.Delete("/{variantId}", controllers.CartRemove(d.Cart, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderCreate(d.Orders, logg))
				r.Get("/", controllers.OrderList(d.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(d.Orders, logg))
				r.Delete("/{orderId}", controllers.OrderCancel(d.Orders, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistFetch(d.Wishlist, logg))
				r.Post("/", controllers.WishlistAdd(d.Wishlist, logg))
				r.Delete("/{productId}", controllers.WishlistRemove(d.Wishlist, logg))
			})

			r.Post("/products/{productId}/ratings", controllers.RateProduct(d.Ratings, logg))
			r.Delete("/products/{productId}/ratings", controllers.DeleteRating(d.Ratings, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(d.Notifications, logg))
				r.Post("/{notificationId}/read", controllers.MarkNotificationRead(d.Notifications, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(d.Notifications, logg))
			})
		})

		// Staff surface. Catalog management is admin-only; employees may run
		// order fulfilment.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Use(middleware.RequireStaff(logg))
			r.Use(middleware.Idempotency(d.Idempotency, logg))

			adminOnly := middleware.RequireRole(enums.UserRoleAdmin.String(), logg)

			r.With(adminOnly).Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminProductCreate(d.Products, logg))
				r.Get("/{productId}", controllers.AdminProductDetail(d.Products, logg))
				r.Patch("/{productId}", controllers.AdminProductUpdate(d.Products, logg))
				r.Delete("/{productId}", controllers.AdminProductDelist(d.Products, logg))
				r.Put("/{productId}/variants", controllers.AdminVariantUpsert(d.Products, logg))
				r.Delete("/{productId}/variants/{variantId}", controllers.AdminVariantDelete(d.Products, logg))
			})

			r.With(adminOnly).Route("/categories", func(r chi.Router) {
				r.Post("/", controllers.AdminCategoryCreate(d.Categories, logg))
				r.Patch("/{categoryId}", controllers.AdminCategoryUpdate(d.Categories, logg))
			})

			r.With(adminOnly).Route("/brands", func(r chi.Router) {
				r.Post("/", controllers.AdminBrandCreate(d.Brands, logg))
				r.Patch("/{brandId}", controllers.AdminBrandUpdate(d.Brands, logg))
			})

			r.With(adminOnly).Route("/banners", func(r chi.Router) {
				r.Post("/", controllers.AdminBannerCreate(d.Banners, logg))
				r.Patch("/{bannerId}", controllers.AdminBannerUpdate(d.Banners, logg))
				r.Delete("/{bannerId}", controllers.AdminBannerDelete(d.Banners, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrderList(d.Orders, logg))
				r.Get("/{orderId}", controllers.AdminOrderDetail(d.Orders, logg))
				r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(d.Orders, logg))
			})
		})
	})

	return r
}
