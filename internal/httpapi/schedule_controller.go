package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/username/employee-schedule/internal/schedule"
	"go.uber.org/zap"
)

// ScheduleService resolves employee schedules from raw request input
type ScheduleService interface {
	EmployeeSchedule(ctx context.Context, rawEmployeeID, rawStart, rawEnd string) (schedule.ScheduleResult, error)
}

type scheduleResponse struct {
	Schedule schedule.ScheduleResult `json:"schedule"`
}

type validationResponse struct {
	Errors schedule.ValidationErrors `json:"errors"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ScheduleController serves the employee schedule endpoint
type ScheduleController struct {
	service ScheduleService
	logger  *zap.Logger
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(service ScheduleService, logger *zap.Logger) *ScheduleController {
	return &ScheduleController{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts the controller's routes
func (c *ScheduleController) RegisterRoutes(router gin.IRouter) {
	router.GET("/employee-schedule", c.getEmployeeSchedule)
}

func (c *ScheduleController) getEmployeeSchedule(ctx *gin.Context) {
	result, err := c.service.EmployeeSchedule(ctx.Request.Context(),
		ctx.Query("employeeId"),
		ctx.Query("startDate"),
		ctx.Query("endDate"))

	if err != nil {
		if validationErrs, ok := schedule.AsValidationErrors(err); ok {
			ctx.JSON(http.StatusBadRequest, validationResponse{Errors: validationErrs})
			return
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			ctx.JSON(http.StatusServiceUnavailable, errorResponse{Error: "request cancelled"})
			return
		}

		c.logger.Error("Failed to build employee schedule",
			zap.String("request_id", ctx.GetString(requestIDKey)),
			zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to build schedule, try again later"})
		return
	}

	if result == nil {
		result = schedule.ScheduleResult{}
	}
	metricScheduleDays.Observe(float64(len(result)))
	ctx.JSON(http.StatusOK, scheduleResponse{Schedule: result})
}
