package routes

import (
	"github.com/gin-gonic/gin"

	"hermexpress-io/api/controllers"
	"hermexpress-io/api/middleware"
)

func InitRoute() *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CorsMiddleware())

	api := router.Group("/api", middleware.HermesRateLimiter())
	{
		// Auth
		api.POST("/auth/register", controllers.Register())
		api.POST("/auth/login", controllers.Login())
		api.POST("/auth/verify-otp", controllers.VerifyOtp())
		api.POST("/auth/resend-otp", controllers.ResendOtp())
		api.POST("/auth/refresh", controllers.RefreshToken())
		api.POST("/auth/logout", middleware.Auth(), controllers.Logout())

		// Public catalog
		api.GET("/regions", controllers.GetRegions())
		api.GET("/countries", controllers.GetCountries())
		api.GET("/countries/:countryId/cities", controllers.GetCitiesByCountry())
		api.GET("/shipment-options", controllers.GetShipmentOptions())
		api.GET("/insurance-policies", controllers.GetInsurancePolicies())
		api.GET("/payment-methods", controllers.GetPaymentMethods())
		api.GET("/package-categories", controllers.GetPackageCategories())

		// Quoting and booking work for guests; a token sharpens the price.
		api.POST("/quote", middleware.OptionalAuth(), controllers.GetQuote())
		api.POST("/shipments", middleware.OptionalAuth(), controllers.BookShipment())

		// Tracking and payment callbacks take no token.
		api.GET("/track/:trackingNumber", controllers.TrackShipment())
		api.POST("/payment/initialize", controllers.InitializeTransaction())
		api.GET("/payment/callback/:provider", controllers.HandlePaymentCallback())

		api.POST("/contact", controllers.SubmitContactMessage())
	}

	secured := router.Group("/api/user", middleware.HermesRateLimiter(), middleware.Auth())
	{
		secured.GET("/me", controllers.CurrentUser())
		secured.PATCH("/me", controllers.UpdateProfile())
		secured.GET("/dashboard", controllers.GetUserDashboard())
		secured.GET("/shipments", controllers.GetMyShipments())
		secured.GET("/shipments/:shipmentId", controllers.GetShipmentDetails())

		secured.GET("/wallet", controllers.GetWallet())
		secured.GET("/wallet/transactions", controllers.GetWalletTransactions())
		secured.POST("/wallet/fund", controllers.FundWallet())

		secured.POST("/addresses", controllers.CreateAddress())
		secured.GET("/addresses", controllers.GetAddresses())
		secured.DELETE("/addresses/:addressId", controllers.DeleteAddress())

		secured.GET("/notifications", controllers.GetNotifications())
		secured.PATCH("/notifications", controllers.MarkAllNotificationsRead())
		secured.PATCH("/notifications/:notificationId", controllers.MarkNotificationRead())
	}

	admin := router.Group("/api/admin", middleware.HermesRateLimiter(), middleware.Auth(), middleware.Admin())
	{
		admin.GET("/dashboard", controllers.AdminDashboard())
		admin.GET("/shipments", controllers.AdminGetShipments())
		admin.PATCH("/shipments/:shipmentId/status", controllers.UpdateShipmentStatus())

		admin.POST("/regions", controllers.CreateRegion())
		admin.POST("/countries", controllers.CreateCountry())
		admin.PATCH("/countries/:countryId", controllers.UpdateCountry())
		admin.POST("/cities", controllers.CreateCity())
		admin.PATCH("/cities/:cityId", controllers.UpdateCity())

		admin.POST("/shipment-options", controllers.CreateShipmentOption())
		admin.PATCH("/shipment-options/:optionId", controllers.UpdateShipmentOption())

		admin.POST("/shipping-rates", controllers.CreateShippingRate())
		admin.GET("/shipping-rates", controllers.GetShippingRates())
		admin.PATCH("/shipping-rates/:rateId", controllers.UpdateShippingRate())
		admin.DELETE("/shipping-rates/:rateId", controllers.DeleteShippingRate())

		admin.POST("/insurance-policies", controllers.CreateInsurancePolicy())
		admin.PATCH("/insurance-policies/:policyId", controllers.UpdateInsurancePolicy())

		admin.POST("/tiers", controllers.CreateUserTier())
		admin.GET("/tiers", controllers.GetUserTiers())
		admin.PATCH("/users/:userId/tier", controllers.SetUserTier())

		admin.POST("/package-categories", controllers.CreatePackageCategory())
		admin.PATCH("/package-categories/:categoryId", controllers.UpdatePackageCategory())

		admin.POST("/payment-methods", controllers.CreatePaymentMethod())
		admin.PATCH("/payment-methods/:methodId", controllers.UpdatePaymentMethod())

		admin.POST("/wallets", controllers.AdminUpdateWallet())

		admin.GET("/contact-messages", controllers.AdminGetContactMessages())
		admin.PATCH("/contact-messages/:messageId", controllers.AdminUpdateContactMessage())
	}

	return router
}
