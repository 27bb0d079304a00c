package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/anubclao/Edueat/config"
	"github.com/anubclao/Edueat/internal/api/handler"
	"github.com/anubclao/Edueat/internal/api/middleware"
	"github.com/anubclao/Edueat/internal/model"
	"github.com/anubclao/Edueat/pkg/jwt"
	"github.com/anubclao/Edueat/pkg/redis"
)

const (
	// maxBodyBytes 普通请求体上限；导入接口单独放宽
	maxBodyBytes   = 1 << 20
	maxUploadBytes = 6 << 20

	authRateLimit  = 10
	authRateWindow = time.Minute
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, verifier middleware.VerificationChecker, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查 / 指标 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := middleware.RateLimit(rdb, authRateLimit, authRateWindow)
	admin := middleware.RoleAuth(model.RoleAdmin)
	body := middleware.BodyLimit(maxBodyBytes)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth", body)
		{
			auth.POST("/register", limited, h.Auth.Register)
			auth.POST("/login", limited, h.Auth.Login)
			auth.POST("/demo", limited, h.Auth.DemoLogin)
			auth.POST("/refresh", h.Auth.RefreshToken)
			auth.GET("/verify", h.Auth.VerifyEmail)
		}

		// 已登录即可访问（含未验证邮箱的用户）
		authenticated := v1.Group("")
		authenticated.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authenticated.POST("/auth/logout", h.Auth.Logout)
			authenticated.GET("/auth/me", h.Auth.GetCurrentUser)
			authenticated.PUT("/auth/password", body, h.Auth.ChangePassword)
			authenticated.POST("/auth/verify/resend", limited, h.Auth.ResendVerification)
		}

		// 需要已验证邮箱
		verified := authenticated.Group("")
		verified.Use(middleware.RequireVerified(verifier))
		{
			// 分类与菜谱（读取对所有人开放）
			categories := verified.Group("/categories")
			{
				categories.GET("", h.Catalog.ListCategories)
				categories.POST("", admin, body, h.Catalog.CreateCategory)
				categories.PUT("/:id", admin, body, h.Catalog.UpdateCategory)
				categories.PUT("/:id/move", admin, body, h.Catalog.MoveCategory)
				categories.DELETE("/:id", admin, h.Catalog.DeleteCategory)
			}
			recipes := verified.Group("/recipes")
			{
				recipes.GET("", h.Catalog.ListRecipes)
				recipes.GET("/:id", h.Catalog.GetRecipe)
				recipes.POST("", admin, body, h.Catalog.CreateRecipe)
				recipes.PUT("/:id", admin, body, h.Catalog.UpdateRecipe)
				recipes.DELETE("/:id", admin, h.Catalog.DeleteRecipe)
			}

			// 每日菜单
			menus := verified.Group("/menus")
			{
				menus.GET("/available", h.Menu.ListAvailableDates)
				menus.GET("", admin, h.Menu.ListMenus)
				menus.GET("/:date", h.Menu.GetMenu)
				menus.PUT("/:date", admin, body, h.Menu.SaveMenu)
				menus.DELETE("/:date", admin, h.Menu.DeleteMenu)
			}

			// 订餐
			orders := verified.Group("/orders")
			{
				orders.GET("/mine", h.Order.ListMyOrders)
				orders.GET("/reminder", h.Order.Reminder)
				orders.POST("/reminder/dismiss", h.Order.DismissReminder)
				orders.GET("/:date", h.Order.GetMyOrder)
				orders.GET("/:date/form", h.Order.GetOrderForm)
				orders.POST("/:date/wizard", body, h.Order.Wizard)
				orders.PUT("/:date", body, h.Order.SubmitOrder)
			}

			// 每周偏好
			preferences := verified.Group("/preferences")
			{
				preferences.GET("", h.Preference.ListPreferences)
				preferences.PUT("/:day", body, h.Preference.SavePreference)
				preferences.DELETE("/:day", h.Preference.DeletePreference)
			}

			// 公告
			notifications := verified.Group("/notifications")
			{
				notifications.GET("/active", h.Notification.ActiveNotifications)
				notifications.POST("/:id/dismiss", h.Notification.DismissNotification)
				notifications.GET("", admin, h.Notification.ListNotifications)
				notifications.POST("", admin, body, h.Notification.CreateNotification)
				notifications.DELETE("/:id", admin, h.Notification.DeleteNotification)
			}

			// 满意度调查
			surveys := verified.Group("/surveys")
			{
				surveys.GET("/open", h.Survey.ListOpen)
				surveys.POST("/:id/responses", body, h.Survey.Submit)
				surveys.GET("", admin, h.Survey.ListSurveys)
				surveys.POST("", admin, body, h.Survey.CreateSurvey)
				surveys.PUT("/:id", admin, body, h.Survey.UpdateSurvey)
				surveys.DELETE("/:id", admin, h.Survey.DeleteSurvey)
				surveys.GET("/results", admin, h.Survey.Results)
				surveys.PUT("/responses/:id/reply", admin, body, h.Survey.Reply)
			}

			// 个人报表与 AI 建议
			verified.GET("/reports/me/export", h.Report.ExportPersonal)
			verified.GET("/reports/me/nutrition", h.Report.NutritionStats)
			verified.GET("/assistant/nutrition", h.Assistant.NutritionalAdvice)

			// ── 管理员 ──
			adminGroup := verified.Group("", admin)
			{
				users := adminGroup.Group("/users")
				{
					users.GET("", h.User.ListUsers)
					users.POST("", body, h.User.CreateUser)
					users.GET("/import/template", h.User.ImportTemplate)
					users.POST("/import", middleware.BodyLimit(maxUploadBytes), h.User.ImportUsers)
					users.GET("/:id", h.User.GetUser)
					users.PUT("/:id", body, h.User.UpdateUser)
					users.DELETE("/:id", h.User.DeleteUser)
					users.PUT("/:id/verified", body, h.User.SetVerified)
					users.POST("/:id/reset-password", h.User.ResetPassword)
				}

				roles := adminGroup.Group("/roles")
				{
					roles.GET("", h.Role.ListRoles)
					roles.POST("", body, h.Role.CreateRole)
					roles.PUT("/:id", body, h.Role.UpdateRole)
					roles.DELETE("/:id", h.Role.DeleteRole)
				}

				logistics := adminGroup.Group("/logistics")
				{
					logistics.GET("", h.Logistics.Dashboard)
					logistics.POST("/batch-orders", body, h.Logistics.CreateBatchOrders)
				}

				reports := adminGroup.Group("/reports")
				{
					reports.GET("/daily", h.Report.ExportDaily)
					reports.GET("/range", h.Report.RangeStats)
					reports.GET("/range/export", h.Report.ExportRange)
				}

				adminGroup.POST("/assistant/enhance", body, h.Assistant.EnhanceNotification)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
