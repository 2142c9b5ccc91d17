package router

import (
	"context"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"gointervals/store"
	"gointervals/trees/interval"
)

// Registry stores and serves interval sets by id.
type Registry interface {
	Register(ctx context.Context, set *interval.Set[float64]) (string, error)
	Lookup(ctx context.Context, id string) (*interval.Set[float64], store.Stats, error)
}

// either segments or lower/upper must be given
type createRequest struct {
	Segments [][]float64 `json:"segments"`
	Lower    []float64   `json:"lower"`
	Upper    []float64   `json:"upper"`
}

type setResult struct {
	ID       string       `json:"id"`
	Segments [][2]float64 `json:"segments"`
	Atomic   bool         `json:"atomic"`
	Disjoint bool         `json:"disjoint"`
}

type lookupResult struct {
	Value float64 `json:"value"`
	Index *int    `json:"index"`
	Found bool    `json:"found"`
}

type componentsResult struct {
	Components  [][][2]float64 `json:"components"`
	Breakpoints [][]float64    `json:"breakpoints"`
}

func IntervalRouter(e *gin.Engine, registry Registry) {
	group := e.Group("/v1/intervals")
	group.POST("", createSet(registry))
	group.GET("/:id", getSet(registry))
	group.GET("/:id/contains", containsValues(registry))
	group.GET("/:id/components", getComponents(registry))
}

func newSetResult(id string, set *interval.Set[float64]) setResult {
	return setResult{
		ID:       id,
		Segments: set.Segments(),
		Atomic:   set.IsAtomic(),
		Disjoint: set.IsDisjoint(),
	}
}

func (r createRequest) build() (*interval.Set[float64], error) {
	if r.Segments != nil {
		segments, err := interval.Pairs(r.Segments)
		if err != nil {
			return nil, err
		}
		return interval.FromSegments(segments)
	}
	return interval.New(r.Lower, r.Upper)
}

func createSet(registry Registry) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequestResponse(c, INVALID_POST_DATA, err.Error())
			return
		}

		set, err := req.build()
		if err != nil {
			JsonResponse(c, nil, nil, err)
			return
		}

		id, err := registry.Register(c.Request.Context(), set)
		if err != nil {
			JsonResponse(c, nil, nil, err)
			return
		}
		JsonResponse(c, newSetResult(id, set), nil, nil)
	})
}

func getSet(registry Registry) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		id := c.Param("id")
		set, stats, err := registry.Lookup(c.Request.Context(), id)
		if err != nil {
			JsonResponse(c, nil, &stats, err)
			return
		}
		JsonResponse(c, newSetResult(id, set), &stats, nil)
	})
}

func containsValues(registry Registry) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		params := c.QueryArray("value")
		if len(params) == 0 {
			BadRequestResponse(c, INVALID_PARAMETERS, "at least one value is required")
			return
		}

		values := make([]float64, len(params))
		for i, p := range params {
			v, err := strconv.ParseFloat(p, 64)
			// values are echoed back, so they must be representable in JSON
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				BadRequestResponse(c, INVALID_PARAMETERS, "invalid value "+strconv.Quote(p))
				return
			}
			values[i] = v
		}

		set, stats, err := registry.Lookup(c.Request.Context(), c.Param("id"))
		if err != nil {
			JsonResponse(c, nil, &stats, err)
			return
		}

		results := make([]lookupResult, len(values))
		for i, l := range set.Contains(values...) {
			results[i] = lookupResult{Value: values[i], Found: l.Found}
			if l.Found {
				index := l.Index
				results[i].Index = &index
			}
		}
		JsonResponse(c, results, &stats, nil)
	})
}

func getComponents(registry Registry) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		set, stats, err := registry.Lookup(c.Request.Context(), c.Param("id"))
		if err != nil {
			JsonResponse(c, nil, &stats, err)
			return
		}

		components := set.ConnectedComponents()
		result := componentsResult{
			Components:  make([][][2]float64, len(components)),
			Breakpoints: set.ConnectedComponentsAsArray(),
		}
		for i, component := range components {
			result.Components[i] = component.Segments()
		}
		JsonResponse(c, result, &stats, nil)
	})
}
