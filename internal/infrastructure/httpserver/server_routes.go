package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	api.GET("/shop", s.getShop)
	api.GET("/products", s.listProducts)
	api.GET("/products/:handle", s.getProduct)
	api.GET("/collections", s.listCollections)
	api.GET("/search", s.searchProducts)

	cart := api.Group("/cart")
	cart.GET("", s.getCart)
	cart.POST("/lines", s.addCartLine)
	cart.PATCH("/lines/:id", s.updateCartLine)
	cart.DELETE("/lines/:id", s.removeCartLine)
	cart.POST("/checkout", s.checkout)

	api.POST("/newsletter/subscribe", s.subscribeNewsletter)
}
