package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"game-data-hub/internal/cache"
	"game-data-hub/internal/logger"
	"game-data-hub/internal/middleware"
	"game-data-hub/internal/repository"
	"game-data-hub/internal/security"
	"game-data-hub/internal/service"
	"game-data-hub/internal/storage/blob"
	"game-data-hub/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	binding.EnableDecoderUseNumber = true
}

type envelope struct {
	Success       bool            `json:"success"`
	Data          json.RawMessage `json:"data"`
	Message       string          `json:"message"`
	CorrelationID string          `json:"correlationId"`
	Error         *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

type api struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	log := logger.Discard()
	store := repository.NewStore(testutil.NewDB(t))
	schemas := cache.NewSchemaCache(time.Minute)
	jwtManager := security.NewJWTManager("controller-test", time.Hour)
	blobs := blob.NewMemory()

	tables := service.NewTableService(store, schemas, log)
	generator := service.NewCodeGenerationService(store, schemas, nil, 0, log)

	router := gin.New()
	router.Use(middleware.CorrelationID())
	RegisterRoutes(router.Group("/api/v1"), Handlers{
		Auth:     NewAuthController(service.NewAuthService(store, jwtManager, log)),
		Projects: NewProjectController(service.NewProjectService(store, schemas, log)),
		Tables:   NewTableController(tables),
		Data:     NewDataController(service.NewDataService(store, schemas, log)),
		Versions: NewVersionController(service.NewVersionService(store, log)),
		Codegen:  NewCodegenController(generator, service.NewExportService(generator, tables, blobs, "exports", log)),
		Health:   NewHealthController(store, schemas, blobs),
	}, security.NewAuthMiddleware(jwtManager).RequireAuth())

	return &api{t: t, router: router}
}

func (a *api) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// call performs the request, checks the status and decodes data into out
func (a *api) call(method, path string, body interface{}, status int, out interface{}) envelope {
	a.t.Helper()
	w := a.do(method, path, body)
	require.Equal(a.t, status, w.Code, w.Body.String())

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	if out != nil {
		require.NoError(a.t, json.Unmarshal(env.Data, out))
	}
	return env
}

func (a *api) login(username string) uint {
	a.t.Helper()
	creds := map[string]string{"username": username, "email": username + "@studio.test", "password": "hunter22"}
	var user struct {
		ID uint `json:"id"`
	}
	a.call(http.MethodPost, "/auth/register", creds, http.StatusCreated, &user)

	var login struct {
		AccessToken string `json:"access_token"`
	}
	a.call(http.MethodPost, "/auth/login", creds, http.StatusOK, &login)
	a.token = login.AccessToken
	return user.ID
}

func TestEditCommitRollbackOverHTTP(t *testing.T) {
	a := newAPI(t)
	a.login("designer")

	var project struct{ ID uint }
	a.call(http.MethodPost, "/projects", map[string]any{"name": "Monsters"}, http.StatusCreated, &project)

	var table struct{ ID uint }
	a.call(http.MethodPost, "/tables", map[string]any{"project_id": project.ID, "name": "enemies"}, http.StatusCreated, &table)

	a.call(http.MethodPost, fmt.Sprintf("/tables/%d/columns", table.ID),
		map[string]any{"name": "hp", "data_type": "integer", "is_required": true, "default_value": "1"},
		http.StatusCreated, nil)

	var row struct {
		ID      uint            `json:"id"`
		Cells   map[string]any  `json:"cells"`
		CellIDs map[string]uint `json:"cell_ids"`
	}
	a.call(http.MethodPost, "/rows", map[string]any{"table_id": table.ID, "cells": map[string]any{"hp": 10}}, http.StatusCreated, &row)
	assert.EqualValues(t, 10, row.Cells["hp"])

	var updated struct {
		Version struct{ ID uint } `json:"version"`
	}
	a.call(http.MethodPatch, fmt.Sprintf("/rows/%d", row.ID),
		map[string]any{"cells": map[string]any{"hp": 99}, "commit_message": "buff"},
		http.StatusOK, &updated)
	require.NotZero(t, updated.Version.ID)

	var diffResp struct {
		Changes map[string]struct {
			OldValue any `json:"old_value"`
			NewValue any `json:"new_value"`
		} `json:"changes"`
	}
	a.call(http.MethodGet, fmt.Sprintf("/versions/%d/diff", updated.Version.ID), nil, http.StatusOK, &diffResp)
	change := diffResp.Changes[fmt.Sprint(row.CellIDs["hp"])]
	assert.EqualValues(t, 10, change.OldValue)
	assert.EqualValues(t, 99, change.NewValue)

	env := a.call(http.MethodPost, fmt.Sprintf("/versions/%d/rollback", updated.Version.ID), nil, http.StatusOK, nil)
	assert.Equal(t, "Rollback successful", env.Message)

	var data struct {
		Rows []struct {
			Cells map[string]any `json:"cells"`
		} `json:"rows"`
		Total int `json:"total"`
	}
	a.call(http.MethodGet, fmt.Sprintf("/data/table/%d", table.ID), nil, http.StatusOK, &data)
	require.Equal(t, 1, data.Total)
	assert.EqualValues(t, 10, data.Rows[0].Cells["hp"])

	w := a.do(http.MethodGet, fmt.Sprintf("/tables/%d/generate?format=json", table.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, `attachment; filename="enemies.json"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), `"required": [`)

	var export struct {
		Key string `json:"key"`
	}
	a.call(http.MethodPost, fmt.Sprintf("/tables/%d/export?format=unity", table.ID), nil, http.StatusCreated, &export)
	assert.Contains(t, export.Key, ".cs")
}

func TestRollbackByAnotherUserIsForbidden(t *testing.T) {
	a := newAPI(t)
	a.login("author")

	var project struct{ ID uint }
	a.call(http.MethodPost, "/projects", map[string]any{"name": "Items"}, http.StatusCreated, &project)
	var version struct{ ID uint }
	a.call(http.MethodPost, "/versions/commit", map[string]any{
		"project_id": project.ID,
		"message":    "manual",
		"changes":    map[string]any{"5": map[string]any{"old_value": 10, "new_value": 20}},
	}, http.StatusCreated, &version)

	a.login("intruder")
	env := a.call(http.MethodPost, fmt.Sprintf("/versions/%d/rollback", version.ID), nil, http.StatusForbidden, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
	assert.Equal(t, "You can only rollback your own versions", env.Error.Message)

	env = a.call(http.MethodGet, fmt.Sprintf("/projects/%d", project.ID), nil, http.StatusForbidden, nil)
	assert.Equal(t, "Not enough permissions", env.Error.Message)
}

func TestErrorsUseStandardEnvelope(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	a.login("designer")

	env := a.call(http.MethodGet, "/tables/999", nil, http.StatusNotFound, nil)
	assert.False(t, env.Success)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, "Table not found: 999", env.Error.Message)
	assert.NotEmpty(t, env.CorrelationID)

	env = a.call(http.MethodGet, "/tables/abc", nil, http.StatusBadRequest, nil)
	assert.Equal(t, "INVALID_ID", env.Error.Code)

	env = a.call(http.MethodPost, "/tables", map[string]any{"name": "no project"}, http.StatusUnprocessableEntity, nil)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	env = a.call(http.MethodGet, "/tables/1/generate", nil, http.StatusBadRequest, nil)
	assert.Equal(t, "INVALID_PARAMETERS", env.Error.Code)

	env = a.call(http.MethodPost, "/auth/login", map[string]any{"username": "designer", "password": "nope-nope"}, http.StatusUnauthorized, nil)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
}

func TestPublicEndpoints(t *testing.T) {
	a := newAPI(t)

	var formats []struct {
		Name string `json:"name"`
	}
	a.call(http.MethodGet, "/codegen/formats", nil, http.StatusOK, &formats)
	assert.Len(t, formats, 5)

	w := a.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "connected", health.Database.Status)
	assert.Equal(t, "memory", health.Exports)
}
