package router

import (
	"github.com/alain-michael/Isonga-Platform-sub001/internal/config"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/event"
	"github.com/alain-michael/Isonga-Platform-sub001/internal/handler"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, dispatcher *event.Dispatcher, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "isonga-platform",
		})
	})

	v1 := r.Group("/api/v1")
	{
		campaignHandler := handler.NewCampaignHandler(db, dispatcher)
		interestHandler := handler.NewInterestHandler(db, dispatcher)
		criteriaHandler := handler.NewCriteriaHandler(db, cfg.Matching)

		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", campaignHandler.CreateCampaign)
			campaigns.GET("", campaignHandler.GetCampaigns)
			campaigns.GET("/:id", campaignHandler.GetCampaign)
			campaigns.PUT("/:id", campaignHandler.EditCampaign)
			campaigns.POST("/:id/submit", campaignHandler.SubmitForReview)
			campaigns.POST("/:id/approve", campaignHandler.Approve)
			campaigns.POST("/:id/revision", campaignHandler.RequestRevision)
			campaigns.POST("/:id/reject", campaignHandler.Reject)
			campaigns.POST("/:id/activate", campaignHandler.Activate)
			campaigns.POST("/:id/close", campaignHandler.Close)
			campaigns.GET("/:id/stats", campaignHandler.GetCampaignStats)
			campaigns.POST("/:id/interests", interestHandler.ExpressInterest)
			campaigns.GET("/:id/interests", interestHandler.ListForCampaign)
		}

		interests := v1.Group("/interests")
		{
			interests.POST("/:id/pledge", interestHandler.Pledge)
			interests.POST("/:id/accept", interestHandler.Accept)
			interests.POST("/:id/reject", interestHandler.Reject)
			interests.POST("/:id/confirm-payment", interestHandler.ConfirmPayment)
			interests.POST("/:id/withdraw", interestHandler.Withdraw)
		}

		investors := v1.Group("/investors")
		{
			investors.PUT("/:id/criteria", criteriaHandler.UpsertCriteria)
			investors.GET("/:id/criteria", criteriaHandler.GetCriteria)
			investors.GET("/:id/matches", criteriaHandler.GetMatches)
			investors.GET("/:id/interests", interestHandler.ListForInvestor)
		}
	}

	return r
}

// corsMiddleware allows the web frontend to call the API directly.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Actor-Role, X-Actor-Id")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
