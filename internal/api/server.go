package api

import (
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/venuepass/checkin-api/docs"
	v1 "github.com/venuepass/checkin-api/internal/api/handler/v1"
	"github.com/venuepass/checkin-api/internal/api/middleware"
	"github.com/venuepass/checkin-api/internal/config"
	"github.com/venuepass/checkin-api/internal/pkg/credential"
	"github.com/venuepass/checkin-api/internal/repository"
	"github.com/venuepass/checkin-api/internal/repository/dao"
	"github.com/venuepass/checkin-api/internal/service"
)

const scanAuditBuffer = 256

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	audit *service.ScanAudit
}

func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	if err := dao.InitTables(db); err != nil {
		return nil, fmt.Errorf("dao.InitTables -> %w", err)
	}

	issuer, err := credential.NewIssuer(conf.API.CredentialSecret)
	if err != nil {
		return nil, fmt.Errorf("credential.NewIssuer -> %w", err)
	}

	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	uSvc := service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(db)))
	s.audit = service.NewScanAudit(repository.NewScanLogRepository(dao.NewScanLogDAO(db)), scanAuditBuffer)

	feedHandler := v1.NewFeedHandler(uSvc)
	go feedHandler.Run()

	authHandler := s.initAuthHandler(db)
	userHandler := v1.NewUserHandler(uSvc)
	eventHandler := s.initEventHandler(db, uSvc)
	checkpointHandler := s.initCheckpointHandler(db, uSvc)
	registrationHandler := s.initRegistrationHandler(db, uSvc, issuer)
	scanHandler := s.initScanHandler(db, uSvc, issuer, feedHandler)
	scanLogHandler := v1.NewScanLogHandler(s.audit, uSvc)

	s.MountHandlers(authHandler, userHandler, eventHandler, checkpointHandler,
		registrationHandler, scanHandler, scanLogHandler, feedHandler)

	return s, nil
}

// Close flushes the scan audit writer. Call it before the process exits
// so buffered audit entries reach the database.
func (s *Server) Close() {
	s.audit.Close()
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB, uSvc v1.UserService) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(repo)
	handler := v1.NewEventHandler(svc, uSvc)

	return handler
}

func (s *Server) initCheckpointHandler(db *gorm.DB, uSvc v1.UserService) *v1.CheckpointHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewCheckpointService(repo)
	handler := v1.NewCheckpointHandler(svc, uSvc)

	return handler
}

func (s *Server) initRegistrationHandler(db *gorm.DB, uSvc v1.UserService, issuer *credential.Issuer) *v1.RegistrationHandler {
	regRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	evtRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewRegistrationService(regRepo, evtRepo, userRepo, issuer)
	handler := v1.NewRegistrationHandler(svc, uSvc)

	return handler
}

func (s *Server) initScanHandler(db *gorm.DB, uSvc v1.UserService, issuer *credential.Issuer, feed *v1.FeedHandler) *v1.ScanHandler {
	regRepo := repository.NewRegistrationRepository(dao.NewRegistrationDAO(db))
	evtRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewScanService(issuer, regRepo, evtRepo, userRepo, s.audit)
	handler := v1.NewScanHandler(svc, uSvc, feed)

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
	eventHandler *v1.EventHandler,
	checkpointHandler *v1.CheckpointHandler,
	registrationHandler *v1.RegistrationHandler,
	scanHandler *v1.ScanHandler,
	scanLogHandler *v1.ScanLogHandler,
	feedHandler *v1.FeedHandler,
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

		authed.POST("/events", eventHandler.HandleCreateEvent)
		authed.GET("/events/:eventID", eventHandler.HandleGetEvent)
		authed.POST("/events/:eventID/checkpoints/toggle", checkpointHandler.HandleToggleCheckpoint)
		authed.POST("/events/:eventID/registrations", registrationHandler.HandleSubmitRegistration)
		authed.GET("/events/:eventID/scan-logs", scanLogHandler.HandleListScanLogs)
		authed.GET("/events/:eventID/scan-feed", feedHandler.HandleScanFeed)

		authed.GET("/registrations/:registrationID", registrationHandler.HandleGetRegistration)
		authed.POST("/registrations/:registrationID/approve", registrationHandler.HandleApproveRegistration)
		authed.POST("/registrations/:registrationID/reject", registrationHandler.HandleRejectRegistration)

		authed.POST("/scan", scanHandler.HandleScan)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Event Check-In API"
	docs.SwaggerInfo.Description = "Event registration, credential issuing and checkpoint scanning."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
