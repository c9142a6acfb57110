package router

import (
	"tsuwallet/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupAuthRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, selfOrAdmin echo.MiddlewareFunc) {
	auth := api.Group("/auth")

	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)
	auth.GET("/email-verification/:code", handler.VerifyEmail)

	auth.POST("/logout", handler.Logout, authRequired)
	auth.POST("/refresh", handler.RefreshToken, authRequired)
	auth.GET("/me", handler.Me, authRequired)

	users := api.Group("/users", authRequired)
	users.GET("/:id", handler.GetUserByID, selfOrAdmin)
	users.PUT("/:id", handler.UpdateUser, selfOrAdmin)
	users.DELETE("/:id", handler.DeleteUser, selfOrAdmin)
}

func SetupWalletRoutes(api *echo.Group, walletHandler *rest.WalletHandler, verificationHandler *rest.VerificationHandler, authRequired echo.MiddlewareFunc) {
	wallet := api.Group("/wallet", authRequired)
	wallet.GET("/balance", walletHandler.GetBalance)
	wallet.GET("/history", walletHandler.GetHistory)
	wallet.POST("/challenge", verificationHandler.Challenge)
	wallet.POST("/verify", verificationHandler.Verify)

	transactions := api.Group("/transactions", authRequired)
	transactions.POST("/send", walletHandler.Send)
	transactions.GET("", walletHandler.GetHistory)
}

func SetupPurchaseRoutes(api *echo.Group, handler *rest.PurchaseHandler, authRequired echo.MiddlewareFunc) {
	tsu := api.Group("/tsu")

	tsu.GET("/price", handler.GetPrice)
	tsu.GET("/supply", handler.GetSupply)

	tsu.POST("/purchase", handler.Purchase, authRequired)
	tsu.GET("/payments", handler.GetPayments, authRequired)
}

func SetupPayPalRoutes(api *echo.Group, handler *rest.PayPalHandler, authRequired echo.MiddlewareFunc) {
	paypal := api.Group("/paypal")

	paypal.POST("/order", handler.CreateOrder, authRequired)
	paypal.POST("/order/:orderId/capture", handler.CaptureOrder, authRequired)
	paypal.POST("/webhook", handler.HandleWebhook)
}

func SetupContentRoutes(api *echo.Group, handler *rest.ContentHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	content := api.Group("/content")

	content.GET("", handler.GetAll)
	content.GET("/:key", handler.GetByKey)
	content.PUT("", handler.Update, authRequired, adminOnly)
}

func SetupCommodityRoutes(api *echo.Group, handler *rest.CommodityHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	regs := api.Group("/commodity-registrations")

	regs.POST("", handler.Register)
	regs.GET("", handler.List, authRequired, adminOnly)
	regs.PATCH("/:id", handler.UpdateStatus, authRequired, adminOnly)
}

func SetupContactRoutes(api *echo.Group, handler *rest.ContactHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	messages := api.Group("/contact-messages")

	messages.POST("", handler.Submit)
	messages.GET("", handler.List, authRequired, adminOnly)
	messages.PATCH("/:id/read", handler.MarkRead, authRequired, adminOnly)
}

func SetupAdminRoutes(api *echo.Group, handler *rest.AdminHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin", authRequired, adminOnly)

	admin.GET("/users", handler.ListUsers)
	admin.GET("/users/:id", handler.GetUser)
	admin.PATCH("/users/:id", handler.UpdateUser)
	admin.POST("/users/:id/balance", handler.AdjustBalance)
	admin.PUT("/supply", handler.UpdateSupply)
	admin.GET("/transactions", handler.ListTransactions)
	admin.GET("/payments", handler.ListPayments)
	admin.GET("/login-attempts", handler.ListLoginAttempts)
	admin.GET("/security-logs", handler.ListSecurityLogs)
}
