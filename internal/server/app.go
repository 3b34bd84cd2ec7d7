package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fekuna/trimstore-service/internal/cart"
	carthandler "github.com/fekuna/trimstore-service/internal/cart/handler"
	"github.com/fekuna/trimstore-service/internal/cart/storage"
	cartusecase "github.com/fekuna/trimstore-service/internal/cart/usecase"
	"github.com/fekuna/trimstore-service/internal/inventory"
	invhandler "github.com/fekuna/trimstore-service/internal/inventory/handler"
	invrepo "github.com/fekuna/trimstore-service/internal/inventory/repository"
	invusecase "github.com/fekuna/trimstore-service/internal/inventory/usecase"
	"github.com/fekuna/trimstore-service/internal/middlewares"
	"github.com/fekuna/trimstore-service/internal/order"
	orderhandler "github.com/fekuna/trimstore-service/internal/order/handler"
	orderrepo "github.com/fekuna/trimstore-service/internal/order/repository"
	orderusecase "github.com/fekuna/trimstore-service/internal/order/usecase"
	"github.com/fekuna/trimstore-service/internal/product"
	prodhandler "github.com/fekuna/trimstore-service/internal/product/handler"
	prodrepo "github.com/fekuna/trimstore-service/internal/product/repository"
	produsecase "github.com/fekuna/trimstore-service/internal/product/usecase"
	"github.com/fekuna/trimstore-service/pkg/cache"
	"github.com/fekuna/trimstore-service/pkg/logger"
	"github.com/fekuna/trimstore-service/pkg/search"
)

// Infra is what the process hands to the use cases. Cache, Search and
// Publisher may be nil.
type Infra struct {
	Products  product.Repository
	Inventory inventory.Repository
	Orders    order.Repository
	Carts     cart.Store
	Cache     *cache.RedisClient
	Search    *search.Client
	Publisher order.Publisher
}

// NewMemoryInfra keeps everything in process memory.
func NewMemoryInfra() *Infra {
	products := prodrepo.NewMemoryRepository()
	return &Infra{
		Products:  products,
		Inventory: invrepo.NewMemoryRepository(products),
		Orders:    orderrepo.NewMemoryRepository(),
		Carts:     storage.NewMemoryStore(),
	}
}

type App struct {
	Products  product.UseCase
	Carts     cart.UseCase
	Orders    order.UseCase
	Inventory inventory.UseCase
	Router    http.Handler
}

func NewApp(infra *Infra, allowedOrigins []string, log logger.ZapLogger) *App {
	app := &App{
		Products:  produsecase.NewProductUseCase(infra.Products, infra.Cache, infra.Search, log),
		Carts:     cartusecase.NewCartUseCase(infra.Carts, infra.Products, log),
		Orders:    orderusecase.NewOrderUseCase(infra.Orders, infra.Carts, infra.Products, infra.Publisher, log),
		Inventory: invusecase.NewInventoryUseCase(infra.Inventory, infra.Cache, log),
	}

	mw := middlewares.NewMiddleware(log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mw.RequestLogger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", carthandler.CartIDHeader, invhandler.UserIDHeader},
		ExposedHeaders:   []string{carthandler.CartIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	v1 := chi.NewRouter()
	prodhandler.NewProductHandler(app.Products, mw, log).RegisterRoutes(v1)
	carthandler.NewCartHandler(app.Carts, mw, log).RegisterRoutes(v1)
	orderhandler.NewOrderHandler(app.Orders, mw, log).RegisterRoutes(v1)
	invhandler.NewInventoryHandler(app.Inventory, mw, log).RegisterRoutes(v1)
	router.Mount("/api/v1", v1)

	app.Router = router
	return app
}
