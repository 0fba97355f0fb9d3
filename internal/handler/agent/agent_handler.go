package agent

import (
	"net/http"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/internal/model/response/wrapper"
	service "github.com/flowstate/flowstate-backend/internal/service/agent"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type AgentHandler struct {
	service service.AgentService
}

func NewAgentHandler(service service.AgentService) *AgentHandler {
	return &AgentHandler{service: service}
}

// CreateAgent godoc
// @Summary      Register a tracker agent
// @Description  Create an agent and issue its API key (returned once)
// @Tags         /api/v1/admin/agents
// @Accept       json
// @Produce      json
// @Param        agent  body      entity.CreateAgentRequest  true  "Agent"
// @Success      201    {object}  wrapper.ResponseWrapper{data=entity.Agent}
// @Failure      400    {object}  wrapper.ErrorWrapper
// @Router       /agents [post]
func (h *AgentHandler) CreateAgent(c *gin.Context) {
	var req entity.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	agent, err := h.service.CreateAgent(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, wrapper.ResponseWrapper{
		Data:    agent,
		Success: true,
	})
}

// GetAgents godoc
// @Summary      List agents
// @Tags         /api/v1/admin/agents
// @Produce      json
// @Param        name      query     string  false  "Name filter"
// @Param        isActive  query     bool    false  "Active filter"
// @Success      200       {object}  wrapper.ResponseWrapper{data=[]entity.AgentPublic}
// @Router       /agents [get]
func (h *AgentHandler) GetAgents(c *gin.Context) {
	var filter entity.AgentFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid query: " + err.Error(),
		})
		return
	}

	agents, err := h.service.GetAgents(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    agents,
		Success: true,
	})
}

// RegenerateAPIKey godoc
// @Summary      Regenerate an agent's API key
// @Tags         /api/v1/admin/agents
// @Produce      json
// @Param        id   path      string  true  "Agent ID"
// @Success      200  {object}  wrapper.ResponseWrapper{data=entity.RegenerateAgentKeyResponse}
// @Failure      400  {object}  wrapper.ErrorWrapper
// @Router       /agents/{id}/key [post]
func (h *AgentHandler) RegenerateAPIKey(c *gin.Context) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid UUID format",
		})
		return
	}

	result, err := h.service.RegenerateAPIKey(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.ResponseWrapper{
		Data:    result,
		Success: true,
	})
}

// DeactivateAgent godoc
// @Summary      Deactivate an agent
// @Tags         /api/v1/admin/agents
// @Produce      json
// @Param        id   path      string  true  "Agent ID"
// @Success      200  {object}  wrapper.SuccessWrapper
// @Failure      400  {object}  wrapper.ErrorWrapper
// @Router       /agents/{id} [delete]
func (h *AgentHandler) DeactivateAgent(c *gin.Context) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid UUID format",
		})
		return
	}

	if err := h.service.DeactivateAgent(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, wrapper.SuccessWrapper{
		Message: "Agent deactivated",
		Success: true,
	})
}
