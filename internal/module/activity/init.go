package activity

import (
	"log/slog"

	"crop-tracking-system/internal/global/logger"
)

var log *slog.Logger

type ModuleActivity struct{}

func (m *ModuleActivity) GetName() string {
	return "Activity"
}

func (m *ModuleActivity) Init() {
	log = logger.New("Activity")
}
