package http

import (
	"github.com/gin-gonic/gin"
	"github.com/iyhunko/product-catalog-service/internal/config"
	"github.com/iyhunko/product-catalog-service/internal/http/controller"
	"github.com/iyhunko/product-catalog-service/internal/http/middleware"
)

func InitRouter(conf *config.Config, server *gin.Engine, ctr *controller.Controller, productCtr *controller.ProductController) *gin.Engine {
	// Apply recovery middleware globally to prevent panics from crashing the server
	server.Use(middleware.Recovery())
	server.Use(middleware.Logger())
	server.Use(middleware.CORS(conf.CORS.AllowedOrigins))

	server.GET("/ping", ctr.Ping)

	// Product endpoints
	products := server.Group("/products")
	{
		products.POST("", productCtr.CreateProduct)
		products.GET("", productCtr.ListProducts)
		products.GET("/all", productCtr.ListAllProducts)
		products.GET("/:id", productCtr.GetProduct)
		products.PUT("/:id", productCtr.UpdateProduct)
		products.DELETE("/:id", productCtr.DeleteProduct)
	}

	return server
}
