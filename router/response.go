package router

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"gointervals/store"
	"gointervals/trees/interval"
)

const (
	SUCCESS            = "SUCCESS"
	INVALID_POST_DATA  = "INVALID_POST_DATA"
	INVALID_PARAMETERS = "INVALID_PARAMETERS"
	RESOURCE_NOT_FOUND = "RESOURCE_NOT_FOUND"
	SERVER_ERROR       = "SERVER_ERROR"
)

type Response struct {
	OptStatus   string       `json:"OPT_STATUS"`
	Description string       `json:"DESCRIPTION"`
	Result      interface{}  `json:"result"`
	Cache       *store.Stats `json:"cache,omitempty"`
}

func HttpResponse(c *gin.Context, httpCode int, data interface{}, stats *store.Stats, optStatus string, description string) {
	c.JSON(httpCode, Response{
		OptStatus:   optStatus,
		Description: description,
		Result:      data,
		Cache:       stats,
	})
}

func BadRequestResponse(c *gin.Context, optStatus string, description string) {
	HttpResponse(c, http.StatusBadRequest, nil, nil, optStatus, description)
}

// JsonResponse writes data on success, otherwise maps err to a status code.
func JsonResponse(c *gin.Context, data interface{}, stats *store.Stats, err error) {
	switch {
	case err == nil:
		HttpResponse(c, http.StatusOK, data, stats, SUCCESS, "")
	case errors.Is(err, interval.ErrInvalidInterval):
		BadRequestResponse(c, INVALID_POST_DATA, err.Error())
	case errors.Is(err, store.ErrNotFound):
		HttpResponse(c, http.StatusNotFound, nil, stats, RESOURCE_NOT_FOUND, err.Error())
	default:
		c.Error(err)
		HttpResponse(c, http.StatusInternalServerError, nil, stats, SERVER_ERROR, err.Error())
	}
}
