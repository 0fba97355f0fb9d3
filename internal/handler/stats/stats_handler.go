package stats

import (
	"net/http"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/internal/model/response/wrapper"
	"github.com/flowstate/flowstate-backend/internal/service/coreevent"
	"github.com/flowstate/flowstate-backend/internal/service/stats"
	"github.com/flowstate/flowstate-backend/pkg/utils"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	stats  *stats.Service
	events *coreevent.Service
}

func NewStatsHandler(statsService *stats.Service, eventService *coreevent.Service) *StatsHandler {
	return &StatsHandler{stats: statsService, events: eventService}
}

// GetDailyStat godoc
// @Summary      Daily stat by date
// @Description  Incrementally-maintained counters for one calendar day
// @Tags         /api/v1/admin/stats
// @Produce      json
// @Param        date  path      string  true  "Date (YYYY-MM-DD)"
// @Success      200   {object}  wrapper.ResponseWrapper{data=entity.DailyStat}
// @Failure      400   {object}  wrapper.ErrorWrapper
// @Router       /stats/daily/{date} [get]
func (h *StatsHandler) GetDailyStat(c *gin.Context) {
	date, err := utils.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	stat, err := h.stats.DailyStat(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    stat,
		Success: true,
	})
}

// GetPeriodStats godoc
// @Summary      Period stats for a date range
// @Description  Batch-recomputed read models; missing dates are computed on demand
// @Tags         /api/v1/admin/stats
// @Produce      json
// @Param        from  query     string  true  "Start date (YYYY-MM-DD)"
// @Param        to    query     string  true  "End date (YYYY-MM-DD)"
// @Success      200   {object}  wrapper.ResponseWrapper{data=[]entity.PeriodStat}
// @Failure      400   {object}  wrapper.ErrorWrapper
// @Router       /stats/period [get]
func (h *StatsHandler) GetPeriodStats(c *gin.Context) {
	var filter entity.StatRangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid query: " + err.Error(),
		})
		return
	}

	result, err := h.stats.PeriodRange(c.Request.Context(), filter.From, filter.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    result,
		Success: true,
	})
}

// RecomputeDate godoc
// @Summary      Recompute one date's read models
// @Description  Rebuilds the period stat and core events for a date; idempotent
// @Tags         /api/v1/admin/stats
// @Produce      json
// @Param        date  path      string  true  "Date (YYYY-MM-DD)"
// @Success      200   {object}  wrapper.ResponseWrapper{data=entity.PeriodStat}
// @Failure      400   {object}  wrapper.ErrorWrapper
// @Router       /stats/recompute/{date} [post]
func (h *StatsHandler) RecomputeDate(c *gin.Context) {
	date, err := utils.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	stat, err := h.stats.RecomputeDay(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
		})
		return
	}

	if _, err := h.events.ExtractDay(c.Request.Context(), date); err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    stat,
		Success: true,
	})
}

// GetCoreEvents godoc
// @Summary      Core events for a date range
// @Description  Ranked top activities per day and category
// @Tags         /api/v1/admin/events
// @Produce      json
// @Param        from  query     string  true  "Start date (YYYY-MM-DD)"
// @Param        to    query     string  true  "End date (YYYY-MM-DD)"
// @Success      200   {object}  wrapper.ResponseWrapper{data=[]entity.CoreEvent}
// @Failure      400   {object}  wrapper.ErrorWrapper
// @Router       /events [get]
func (h *StatsHandler) GetCoreEvents(c *gin.Context) {
	var filter entity.StatRangeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid query: " + err.Error(),
		})
		return
	}

	if utils.SameDate(filter.From, filter.To) {
		events, err := h.events.EventsForDate(c.Request.Context(), filter.From)
		if err != nil {
			c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
				Message: err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, wrapper.ResponseWrapper{Data: events, Success: true})
		return
	}

	events, err := h.events.EventsForRange(c.Request.Context(), filter.From, filter.To)
	if err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    events,
		Success: true,
	})
}
