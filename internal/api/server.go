package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/uniclub/uniclub-api/docs"
	v1 "github.com/uniclub/uniclub-api/internal/api/handler/v1"
	"github.com/uniclub/uniclub-api/internal/api/middleware"
	"github.com/uniclub/uniclub-api/internal/config"
	"github.com/uniclub/uniclub-api/internal/notification"
	"github.com/uniclub/uniclub-api/internal/repository"
	"github.com/uniclub/uniclub-api/internal/repository/dao"
	"github.com/uniclub/uniclub-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	productRepo := repository.NewProductRepository(dao.NewProductDAO(db))
	uSvc := service.NewUserService(userRepo)

	// The cart store is shared: the cart endpoints fill it and checkout
	// drains it, so both handlers must see the same instance.
	cartSvc := service.NewCartService(productRepo)

	authHandler := s.initAuthHandler(userRepo)
	userHandler := v1.NewUserHandler(uSvc)
	productHandler := s.initProductHandler(productRepo, uSvc)
	cartHandler := v1.NewCartHandler(cartSvc, uSvc)
	orderHandler := s.initOrderHandler(db, productRepo, userRepo, cartSvc, uSvc)
	pollHandler := s.initPollHandler(db, uSvc)
	clubHandler := s.initClubHandler(db, userRepo, uSvc)

	go pollHandler.Run()

	s.MountHandlers(authHandler, userHandler, productHandler, cartHandler, orderHandler, pollHandler, clubHandler)

	return s
}

func (s *Server) initAuthHandler(userRepo *repository.UserRepository) *v1.AuthHandler {
	svc := service.NewAuthService(userRepo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initProductHandler(productRepo *repository.ProductRepository, uSvc *service.UserService) *v1.ProductHandler {
	svc := service.NewProductService(productRepo)
	handler := v1.NewProductHandler(svc, uSvc)

	return handler
}

func (s *Server) initOrderHandler(
	db *gorm.DB,
	productRepo *repository.ProductRepository,
	userRepo *repository.UserRepository,
	cartSvc *service.CartService,
	uSvc *service.UserService,
) *v1.OrderHandler {
	orderRepo := repository.NewOrderRepository(dao.NewOrderDAO(db))
	mailer := notification.NewMailer(s.Config.SMTP)
	svc := service.NewCheckoutService(productRepo, orderRepo, userRepo, cartSvc, mailer)
	handler := v1.NewOrderHandler(svc, uSvc)

	return handler
}

func (s *Server) initPollHandler(db *gorm.DB, uSvc *service.UserService) *v1.PollHandler {
	pollRepo := repository.NewPollRepository(dao.NewPollDAO(db))
	svc := service.NewPollService(pollRepo)
	handler := v1.NewPollHandler(svc, uSvc)

	return handler
}

func (s *Server) initClubHandler(db *gorm.DB, userRepo *repository.UserRepository, uSvc *service.UserService) *v1.ClubHandler {
	clubRepo := repository.NewClubRepository(dao.NewClubDAO(db), userRepo)
	svc := service.NewClubService(clubRepo)
	handler := v1.NewClubHandler(svc, uSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	productHandler *v1.ProductHandler,
	cartHandler *v1.CartHandler,
	orderHandler *v1.OrderHandler,
	pollHandler *v1.PollHandler,
	clubHandler *v1.ClubHandler,
) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)

		authed.GET("/products", productHandler.HandleListProducts)
		authed.GET("/products/:productID", productHandler.HandleGetProduct)
		authed.POST("/products", productHandler.HandleCreateProduct)
		authed.PUT("/products/:productID", productHandler.HandleUpdateProduct)

		authed.GET("/cart", cartHandler.HandleGetCart)
		authed.POST("/cart/items", cartHandler.HandleAddCartItem)
		authed.POST("/cart/items/:productID/decrement", cartHandler.HandleDecrementCartItem)
		authed.DELETE("/cart/items/:productID", cartHandler.HandleRemoveCartItem)

		authed.POST("/orders/checkout", orderHandler.HandleCheckout)
		authed.GET("/orders", orderHandler.HandleListOrders)
		authed.GET("/orders/:orderID", orderHandler.HandleGetOrder)
		authed.POST("/orders/:orderID/confirm", orderHandler.HandleConfirmOrder)
		authed.POST("/orders/:orderID/cancel", orderHandler.HandleCancelOrder)

		authed.POST("/polls", pollHandler.HandleCreatePoll)
		authed.GET("/polls", pollHandler.HandleListPolls)
		authed.GET("/polls/:pollID", pollHandler.HandleGetPoll)
		authed.POST("/polls/:pollID/vote", pollHandler.HandleVote)
		authed.GET("/polls/:pollID/results", pollHandler.HandleGetResults)
		authed.GET("/polls/:pollID/live", pollHandler.HandleLiveResults)
		authed.POST("/polls/:pollID/comments", pollHandler.HandleAddComment)
		authed.GET("/polls/:pollID/comments", pollHandler.HandleListComments)

		authed.POST("/clubs", clubHandler.HandleCreateClub)
		authed.GET("/clubs", clubHandler.HandleListClubs)
		authed.GET("/clubs/:clubID", clubHandler.HandleGetClub)
		authed.GET("/clubs/:clubID/products", productHandler.HandleListClubProducts)
		authed.POST("/clubs/:clubID/join", clubHandler.HandleJoinClub)

		authed.POST("/competitions", clubHandler.HandleCreateCompetition)
		authed.GET("/competitions", clubHandler.HandleListCompetitions)
		authed.POST("/competitions/:competitionID/enter", clubHandler.HandleEnterCompetition)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "UniClub API"
	docs.SwaggerInfo.Description = "REST API for university club sales, polls and competitions."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
