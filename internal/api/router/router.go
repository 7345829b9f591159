package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contract-claims/config"
	"contract-claims/internal/api/handler"
	"contract-claims/internal/api/middleware"
	"contract-claims/internal/model"
	"contract-claims/pkg/jwt"
	"contract-claims/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1MB

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/register", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			// 申领单模块
			claims := authorized.Group("/claims")
			{
				claims.POST("", middleware.RoleAuth(model.RoleLecturer), h.Claim.Submit)
				claims.GET("/my", middleware.RoleAuth(model.RoleLecturer), h.Claim.MyClaims)
				claims.GET("", middleware.RoleAuth(model.RoleCoordinator, model.RoleManager, model.RoleHR), h.Claim.ListClaims)
				claims.GET("/:id", h.Claim.GetClaim) // 本人或审批角色（Service 层不再细分，数据无敏感字段）
				claims.POST("/bulk-status", middleware.RoleAuth(), h.Claim.BulkUpdateStatus) // 仅 Admin

				// ── 审批流转（权威角色校验在流转表中） ──
				claims.POST("/:id/verify", middleware.RoleAuth(model.RoleCoordinator), h.Workflow.Verify)
				claims.POST("/:id/query", middleware.RoleAuth(model.RoleCoordinator), h.Workflow.Query)
				claims.POST("/:id/approve", middleware.RoleAuth(model.RoleManager), h.Workflow.Approve)
				claims.POST("/:id/reject", middleware.RoleAuth(model.RoleManager), h.Workflow.Reject)
				claims.POST("/:id/resubmit", middleware.RoleAuth(model.RoleLecturer), h.Workflow.Resubmit)
				claims.GET("/:id/review", middleware.RoleAuth(model.RoleCoordinator, model.RoleManager), h.Workflow.ReviewClaim)
				claims.GET("/:id/audit", middleware.RoleAuth(model.RoleCoordinator, model.RoleManager, model.RoleHR), h.Workflow.AuditTrail)
			}

			// 审批队列模块
			review := authorized.Group("/review")
			{
				review.GET("/pending", middleware.RoleAuth(model.RoleCoordinator), h.Review.PendingQueue)
				review.GET("/approval", middleware.RoleAuth(model.RoleManager), h.Review.ApprovalQueue)
				review.GET("/approved", middleware.RoleAuth(model.RoleManager, model.RoleHR), h.Review.ApprovedQueue)
				review.GET("/coordinator/queue", middleware.RoleAuth(model.RoleCoordinator), h.Review.CoordinatorQueue)
				review.GET("/coordinator/dashboard", middleware.RoleAuth(model.RoleCoordinator), h.Review.CoordinatorDashboard)
				review.GET("/manager/queue", middleware.RoleAuth(model.RoleManager), h.Review.ManagerQueue)
				review.GET("/manager/dashboard", middleware.RoleAuth(model.RoleManager), h.Review.ManagerDashboard)
			}

			// HR 报表模块
			hr := authorized.Group("/hr", middleware.RoleAuth(model.RoleHR))
			{
				hr.GET("/dashboard", h.Report.Dashboard)
				hr.GET("/payment-report", h.Report.PaymentReport)
				hr.GET("/payment-report/export/csv", h.Report.ExportCSV)
				hr.GET("/payment-report/export/xlsx", h.Report.ExportExcel)
			}

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetCurrentUser)
				users.GET("", middleware.RoleAuth(model.RoleHR), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth(model.RoleHR), h.User.GetUser)
				users.PUT("/:id", middleware.RoleAuth(model.RoleHR), h.User.UpdateUser)
				users.PUT("/:id/role", middleware.RoleAuth(), h.User.AssignRole) // 仅 Admin
				users.DELETE("/:id", middleware.RoleAuth(), h.User.DeleteUser)   // 仅 Admin
			}
		}
	}

	return r
}
