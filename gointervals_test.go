package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"gointervals/config"
	"gointervals/store"
)

const (
	selectSegments = "SELECT lower_bound, upper_bound FROM interval_segments WHERE set_id = ? ORDER BY position"
	insertSegment  = "INSERT INTO interval_segments (set_id, position, lower_bound, upper_bound) VALUES (?, ?, ?, ?)"
)

type response struct {
	OptStatus string          `json:"OPT_STATUS"`
	Result    json.RawMessage `json:"result"`
	Cache     *store.Stats    `json:"cache"`
}

func serve(t *testing.T, engine *gin.Engine, method, target, body string) response {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestIntervalService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	lookup := mock.ExpectPrepare(selectSegments)
	resolver, err := store.NewMySQLResolver(ctx, db)
	require.NoError(t, err)

	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	registry := store.NewRegistry(resolver, store.NewRedisCache(client, 0), zerolog.Nop())
	engine := newEngine(registry, zerolog.Nop())

	mock.ExpectBegin()
	insert := mock.ExpectPrepare(insertSegment)
	insert.ExpectExec().WithArgs(sqlmock.AnyArg(), 0, 0.0, 1.0).WillReturnResult(sqlmock.NewResult(1, 1))
	insert.ExpectExec().WithArgs(sqlmock.AnyArg(), 1, 1.0, 2.0).WillReturnResult(sqlmock.NewResult(2, 1))
	insert.ExpectExec().WithArgs(sqlmock.AnyArg(), 2, 3.0, 4.0).WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	created := serve(t, engine, http.MethodPost, "/v1/intervals", `{"segments": [[0,1],[1,2],[3,4]]}`)
	var set struct {
		ID     string `json:"id"`
		Atomic bool   `json:"atomic"`
	}
	require.NoError(t, json.Unmarshal(created.Result, &set))
	require.NotEmpty(t, set.ID)
	require.False(t, set.Atomic)
	require.True(t, server.Exists("interval:"+set.ID))

	contains := serve(t, engine, http.MethodGet, "/v1/intervals/"+set.ID+"/contains?value=0.5&value=2.5", "")
	require.Equal(t, &store.Stats{CacheHits: 1}, contains.Cache)
	require.JSONEq(t, `[
		{"value":0.5,"index":0,"found":true},
		{"value":2.5,"index":null,"found":false}
	]`, string(contains.Result))

	// drop the cache so the next lookup goes to mysql
	server.FlushAll()
	lookup.ExpectQuery().WithArgs(set.ID).WillReturnRows(
		sqlmock.NewRows([]string{"lower_bound", "upper_bound"}).
			AddRow(0.0, 1.0).
			AddRow(1.0, 2.0).
			AddRow(3.0, 4.0))

	components := serve(t, engine, http.MethodGet, "/v1/intervals/"+set.ID+"/components", "")
	require.Equal(t, &store.Stats{CacheMisses: 1}, components.Cache)
	require.JSONEq(t, `{
		"components": [[[0,1],[1,2]], [[3,4]]],
		"breakpoints": [[0,1,2], [3,4]]
	}`, string(components.Result))
	require.True(t, server.Exists("interval:"+set.ID))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.Log{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	require.Zero(t, buf.Len())

	logger.Warn().Str("id", "set-1").Msg("shown")
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "shown", line["message"])
	require.Equal(t, "set-1", line["id"])

	_, err = newLogger(config.Log{Level: "loud"}, &buf)
	require.Error(t, err)
}
