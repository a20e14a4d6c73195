package dashboard

import (
	"log/slog"

	"crop-tracking-system/internal/global/logger"
)

var log *slog.Logger

type ModuleDashboard struct{}

func (m *ModuleDashboard) GetName() string {
	return "Dashboard"
}

func (m *ModuleDashboard) Init() {
	log = logger.New("Dashboard")
}
