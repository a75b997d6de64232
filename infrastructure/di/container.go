package di

import (
	"go.uber.org/zap"

	"mtp-backend/application/ports"
	"mtp-backend/application/services"
	"mtp-backend/infrastructure/config"
	"mtp-backend/pkg/auth"
	"mtp-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	Store           ports.Store
	EventPublisher  ports.EventPublisher
	Collector       *observability.Collector
	Resolver        *auth.Resolver
	NoteService     *services.NoteService
	StrategyService *services.StrategyService
	ReportService   *services.ReportService
}
