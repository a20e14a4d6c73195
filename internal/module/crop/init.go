package crop

import (
	"log/slog"

	"crop-tracking-system/internal/global/logger"
)

var log *slog.Logger

type ModuleCrop struct{}

func (m *ModuleCrop) GetName() string {
	return "Crop"
}

func (m *ModuleCrop) Init() {
	log = logger.New("Crop")
}
