package router

import (
	"github.com/gin-gonic/gin"

	"licensing-core/api/handler"
)

func RegisterRoutes(r *gin.Engine, contractH *handler.ContractHandler) {
	api := r.Group("/api/v1")
	{
		contracts := api.Group("/contracts")
		{
			contracts.POST("", contractH.Create)
			contracts.GET("", contractH.List)
			contracts.GET("/:id", contractH.Get)
			contracts.POST("/:id/payments", contractH.Pay)
		}
	}
}
