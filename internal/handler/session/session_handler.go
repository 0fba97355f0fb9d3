package session

import (
	"net/http"

	"github.com/flowstate/flowstate-backend/internal/entity"
	"github.com/flowstate/flowstate-backend/internal/model/response"
	"github.com/flowstate/flowstate-backend/internal/model/response/wrapper"
	"github.com/flowstate/flowstate-backend/internal/repository"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	repo repository.SessionRepository
}

func NewSessionHandler(repo repository.SessionRepository) *SessionHandler {
	return &SessionHandler{repo: repo}
}

// GetSessions godoc
// @Summary      Window sessions
// @Description  Raw session rows filtered by date or time range, paginated
// @Tags         /api/v1/admin/sessions
// @Produce      json
// @Param        date       query     string  false  "Date (YYYY-MM-DD)"
// @Param        startTime  query     string  false  "Range start (RFC3339)"
// @Param        endTime    query     string  false  "Range end (RFC3339)"
// @Param        status     query     string  false  "Status filter"
// @Param        page       query     int     false  "Page"
// @Param        per_page   query     int     false  "Items per page"
// @Success      200        {object}  wrapper.PaginatedResponseWrapper{data=[]entity.WindowSession}
// @Failure      400        {object}  wrapper.ErrorWrapper
// @Router       /sessions [get]
func (h *SessionHandler) GetSessions(c *gin.Context) {
	var filter entity.SessionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, wrapper.ErrorWrapper{
			Message: "Invalid query: " + err.Error(),
		})
		return
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 100
	}
	if filter.PerPage > 1000 {
		filter.PerPage = 1000
	}
	filter.Limit = filter.PerPage
	filter.Offset = (filter.Page - 1) * filter.PerPage

	sessions, err := h.repo.GetByFilter(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
		})
		return
	}

	total, err := h.repo.CountByFilter(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, wrapper.ErrorWrapper{
			Message: err.Error(),
		})
		return
	}

	totalPages := (total + filter.PerPage - 1) / filter.PerPage
	c.JSON(http.StatusOK, wrapper.PaginatedResponseWrapper{
		Data:    sessions,
		Success: true,
		Meta: response.PaginationMeta{
			CurrentPage: filter.Page,
			PerPage:     filter.PerPage,
			TotalItems:  total,
			TotalPages:  totalPages,
		},
	})
}
