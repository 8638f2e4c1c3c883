package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"supercourse/backend/config"
	"supercourse/backend/internal/api/handler"
	"supercourse/backend/internal/api/middleware"
	"supercourse/backend/pkg/jwt"
	"supercourse/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（全部需要认证：Token 由上游认证服务签发）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		// 学年模块
		years := v1.Group("/academic-years")
		{
			years.GET("", h.Calendar.ListYears)
			years.GET("/current", h.Calendar.GetCurrentYear)
			years.GET("/:id", h.Calendar.GetYear)
			years.POST("", middleware.RoleAuth("admin"), h.Calendar.CreateYear)
			years.PUT("/:id", middleware.RoleAuth("admin"), h.Calendar.UpdateYear)
			years.PUT("/:id/activate", middleware.RoleAuth("admin"), h.Calendar.ActivateYear)
			years.DELETE("/:id", middleware.RoleAuth("admin"), h.Calendar.DeleteYear)
		}

		// 学期模块
		periods := v1.Group("/academic-periods")
		{
			periods.GET("", h.Calendar.ListPeriods)
			periods.GET("/current", h.Calendar.GetCurrentPeriod)
			periods.GET("/:id", h.Calendar.GetPeriod)
			periods.POST("", middleware.RoleAuth("admin"), h.Calendar.CreatePeriod)
			periods.PUT("/:id", middleware.RoleAuth("admin"), h.Calendar.UpdatePeriod)
			periods.PUT("/:id/activate", middleware.RoleAuth("admin"), h.Calendar.ActivatePeriod)
			periods.DELETE("/:id", middleware.RoleAuth("admin"), h.Calendar.DeletePeriod)
		}

		// 子学期模块
		subperiods := v1.Group("/academic-subperiods")
		{
			subperiods.GET("", h.Calendar.ListSubperiods)
			subperiods.POST("", middleware.RoleAuth("admin"), h.Calendar.CreateSubperiod)
			subperiods.PUT("/:id", middleware.RoleAuth("admin"), h.Calendar.UpdateSubperiod)
			subperiods.DELETE("/:id", middleware.RoleAuth("admin"), h.Calendar.DeleteSubperiod)
		}

		// 课次模块
		sessions := v1.Group("/class-sessions")
		{
			sessions.GET("", h.Session.ListSessions)
			sessions.GET("/stats", h.Session.GetSessionStats)
			sessions.GET("/classroom-conflict", h.Session.CheckClassroomConflict)
			sessions.POST("/preview", middleware.RoleAuth("admin", "manager"), h.Session.PreviewSessions)
			sessions.POST("/batch", middleware.RoleAuth("admin", "manager"), h.Session.CreateSessions)
			sessions.PUT("/batch", middleware.RoleAuth("admin", "manager"), h.Session.ReplaceSessions)
			sessions.PUT("/:id/cancel", middleware.RoleAuth("admin", "manager"), h.Session.CancelSession)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/sessions", h.Export.ExportSessions)
			export.GET("/sessions.ics", h.Export.ExportICS)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
