package routes

import (
	"time"

	"signage/controllers"
	"signage/middlewares"
	"signage/models"
	"signage/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies carries everything SetupRouter needs to build the services
// and controllers. SNS and Media are optional; their routes answer 503 when
// unset.
type Dependencies struct {
	DB                *gorm.DB
	Notifier          services.Notifier
	Hub               *services.DeviceHub
	SNS               *services.SNSNotifier
	Media             *services.MediaService
	DeviceCallTimeout time.Duration
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()

	answerSvc := services.NewAnswerService(deps.DB)
	deviceSvc := services.NewDeviceService(deps.DB, answerSvc)
	deviceAuthSvc := services.NewDeviceAuthService(deps.DB)
	surveySvc := services.NewSurveyService(deps.DB)
	deviceSurveySvc := services.NewDeviceSurveyService(deps.DB, deps.Notifier)
	adminAuthSvc := services.NewAdminAuthService(deps.DB)

	authCtl := controllers.NewAuthController(adminAuthSvc)
	deviceCtl := controllers.NewDeviceController(deviceSvc, deps.SNS)
	deviceSurveyCtl := controllers.NewDeviceSurveyController(deviceSurveySvc)
	surveyCtl := controllers.NewSurveyController(surveySvc)
	answerCtl := controllers.NewAnswerController(answerSvc)
	deviceAPICtl := controllers.NewDeviceAPIController(surveySvc, answerSvc, deps.Hub)
	mediaCtl := controllers.NewMediaController(deps.Media)

	// Public: admin login and kiosk enrollment intake.
	auth := r.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
		auth.POST("/device-requests", deviceCtl.RequestEnrollment)
		auth.POST("/device-requests/claim", deviceCtl.Claim)
	}

	// Administrative surface, JWT-gated.
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/devices", deviceCtl.List)
		api.GET("/devices/:deviceId", deviceCtl.Find)
		api.POST("/devices/:deviceId/endpoint", deviceCtl.RegisterEndpoint)

		api.GET("/devices/:deviceId/surveys", deviceSurveyCtl.List)
		api.GET("/devices/:deviceId/surveys/:id", deviceSurveyCtl.Find)

		api.GET("/surveys/:id", surveyCtl.Find)
		api.GET("/pages/:pageId/answers", answerCtl.ListByPage)
		api.GET("/pages/:pageId/stats", surveyCtl.PageStats)

		api.GET("/media", mediaCtl.List)

		// Mutations need the manager role.
		manage := api.Group("")
		manage.Use(middlewares.RequireRole(string(models.RoleManager)))
		{
			manage.POST("/device-requests/:id/approve", deviceCtl.Approve)
			manage.POST("/device-requests/:id/reject", deviceCtl.Reject)
			manage.DELETE("/devices/:deviceId", deviceCtl.Delete)

			manage.POST("/devices/:deviceId/surveys", deviceSurveyCtl.Create)
			manage.PUT("/devices/:deviceId/surveys/:id", deviceSurveyCtl.Update)
			manage.DELETE("/devices/:deviceId/surveys/:id", deviceSurveyCtl.Delete)

			manage.POST("/surveys", surveyCtl.Create)
			manage.POST("/surveys/:id/approve", surveyCtl.Approve)
			manage.DELETE("/answers/:id", answerCtl.Delete)
		}
	}

	// Kiosk-facing surface, device-key gated.
	deviceAPI := r.Group("/device-api/devices/:deviceId")
	deviceAPI.Use(middlewares.DeviceAuthMiddleware(deviceAuthSvc, deviceSvc, deps.DeviceCallTimeout))
	{
		deviceAPI.GET("/survey", deviceAPICtl.CurrentSurvey)
		deviceAPI.POST("/pages/:pageId/answers", deviceAPICtl.SubmitAnswer)
		deviceAPI.GET("/ws", deviceAPICtl.Connect)
	}

	return r
}
