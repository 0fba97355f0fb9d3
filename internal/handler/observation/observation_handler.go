package observation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/internal/model/response/wrapper"
	"github.com/flowstate/flowstate-backend/internal/service/mode"
	"github.com/flowstate/flowstate-backend/internal/tracker"
	"github.com/gin-gonic/gin"
)

type ObservationHandler struct {
	tracker *tracker.Tracker
	mode    *mode.Source
}

func NewObservationHandler(t *tracker.Tracker, m *mode.Source) *ObservationHandler {
	return &ObservationHandler{tracker: t, mode: m}
}

// SubmitObservation godoc
// @Summary      Submit a classified observation
// @Description  Queue one activity observation from the desktop agent
// @Tags         /api/v1/agent/observations
// @Accept       json
// @Produce      json
// @Param        observation  body      entity.Observation  true  "Observation"
// @Success      202          {object}  wrapper.SuccessWrapper
// @Failure      400          {object}  wrapper.ErrorWrapper
// @Failure      503          {object}  wrapper.ErrorWrapper
// @Router       /observations [post]
func (h *ObservationHandler) SubmitObservation(c *gin.Context) {
	var obs entity.Observation
	if err := c.ShouldBindJSON(&obs); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	if !obs.Status.Valid() {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid status: " + string(obs.Status),
		})
		return
	}

	if err := h.tracker.Submit(obs); err != nil {
		if errors.Is(err, tracker.ErrQueueFull) {
			c.JSON(http.StatusServiceUnavailable, wrapper.ErrorWrapper{
				Message: "Ingestion queue is full, retry next cycle",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, wrapper.SuccessWrapper{
		Message: "Observation accepted",
		Success: true,
	})
}

// SubmitBatch godoc
// @Summary      Submit a batch of observations
// @Description  Queue multiple observations in arrival order
// @Tags         /api/v1/agent/observations
// @Accept       json
// @Produce      json
// @Param        observations  body      entity.BatchObservationRequest  true  "Observations"
// @Success      202           {object}  wrapper.SuccessWrapper
// @Failure      400           {object}  wrapper.ErrorWrapper
// @Router       /observations/batch [post]
func (h *ObservationHandler) SubmitBatch(c *gin.Context) {
	var req entity.BatchObservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	if len(req.Observations) == 0 {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "No observations provided",
		})
		return
	}
	if len(req.Observations) > 1000 {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Too many observations, maximum is 1000",
		})
		return
	}

	accepted := 0
	for _, obs := range req.Observations {
		if !obs.Status.Valid() {
			continue
		}
		if err := h.tracker.Submit(obs); err != nil {
			break
		}
		accepted++
	}

	c.JSON(http.StatusAccepted, wrapper.SuccessWrapper{
		Message: "Accepted " + strconv.Itoa(accepted) + " of " + strconv.Itoa(len(req.Observations)) + " observations",
		Success: true,
	})
}

// GetStatus godoc
// @Summary      Current tracker status
// @Description  Latest status event for the overlay UI
// @Tags         /api/v1/agent/status
// @Produce      json
// @Success      200  {object}  wrapper.ResponseWrapper{data=entity.StatusEvent}
// @Router       /status [get]
func (h *ObservationHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    h.tracker.Snapshot(),
		Success: true,
	})
}

// GetMode godoc
// @Summary      Current tracker mode
// @Tags         /api/v1/agent/mode
// @Produce      json
// @Success      200  {object}  wrapper.ResponseWrapper{data=string}
// @Router       /mode [get]
func (h *ObservationHandler) GetMode(c *gin.Context) {
	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    h.mode.Current(c.Request.Context()),
		Success: true,
	})
}

type setModeRequest struct {
	Mode entity.TrackerMode `json:"mode" binding:"required"`
}

// SetMode godoc
// @Summary      Switch tracker mode
// @Description  Set the mode applied when sessions are recorded (focus or recharge)
// @Tags         /api/v1/agent/mode
// @Accept       json
// @Produce      json
// @Param        mode  body      setModeRequest  true  "Mode"
// @Success      200   {object}  wrapper.ResponseWrapper{data=string}
// @Failure      400   {object}  wrapper.ErrorWrapper
// @Router       /mode [put]
func (h *ObservationHandler) SetMode(c *gin.Context) {
	var req setModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	if err := h.mode.Set(c.Request.Context(), req.Mode); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    req.Mode,
		Success: true,
	})
}
