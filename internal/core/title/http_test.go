// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

var admin = &sec.AuthClaims{UserID: 1, Username: "admin", Role: string(sec.RoleAdmin)}

func newRouter() chi.Router {
	router := chi.NewRouter()
	title.NewHandler(newService()).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, claims *sec.AuthClaims, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if claims != nil {
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	var envelope map[string]any
	_ = json.Unmarshal(recorder.Body.Bytes(), &envelope)
	return recorder, envelope
}

const stalker = `{"name":"Stalker","year":1979,"description":"Zone","category":"film","genre":["drama","comedy"]}`

/*
TestHandler_ReadPayload checks the shape of a created title.
*/
func TestHandler_ReadPayload(t *testing.T) {
	router := newRouter()

	recorder, envelope := serve(router, admin, http.MethodPost, "/", stalker)
	require.Equal(t, http.StatusCreated, recorder.Code)

	data := envelope["data"].(map[string]any)
	assert.EqualValues(t, 1, data["id"])
	assert.EqualValues(t, 0, data["rating"])
	assert.Equal(t, map[string]any{"name": "Film", "slug": "film"}, data["category"])
	assert.Len(t, data["genre"], 2)

	recorder, envelope = serve(router, nil, http.MethodPatch, "/1", `{"category":null}`)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder, envelope = serve(router, admin, http.MethodPatch, "/1", `{"category":null}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, envelope["data"].(map[string]any)["category"])
	assert.EqualValues(t, 1979, envelope["data"].(map[string]any)["year"])
}

func TestHandler_Routes(t *testing.T) {
	tests := []struct {
		name   string
		claims *sec.AuthClaims
		method string
		path   string
		body   string
		status int
	}{
		{"anonymous list", nil, http.MethodGet, "/?year=1979", "", http.StatusOK},
		{"anonymous get", nil, http.MethodGet, "/1", "", http.StatusOK},
		{"unknown id", nil, http.MethodGet, "/99", "", http.StatusNotFound},
		{"non numeric id", nil, http.MethodGet, "/abc", "", http.StatusNotFound},
		{"anonymous create", nil, http.MethodPost, "/", stalker, http.StatusForbidden},
		{"user delete", &sec.AuthClaims{UserID: 2, Role: string(sec.RoleUser)}, http.MethodDelete, "/1", "", http.StatusForbidden},
		{"admin future year", admin, http.MethodPost, "/", `{"name":"X","year":3000,"genre":["drama"]}`, http.StatusBadRequest},
		{"admin delete", admin, http.MethodDelete, "/1", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter()
			seed, _ := serve(router, admin, http.MethodPost, "/", stalker)
			require.Equal(t, http.StatusCreated, seed.Code)

			recorder, _ := serve(router, tt.claims, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

func TestHandler_ListFilters(t *testing.T) {
	router := newRouter()
	serve(router, admin, http.MethodPost, "/", stalker)
	serve(router, admin, http.MethodPost, "/", `{"name":"Solaris","year":1972,"genre":["drama"]}`)

	_, envelope := serve(router, nil, http.MethodGet, "/?name=sol", "")
	assert.EqualValues(t, 1, envelope["meta"].(map[string]any)["total"])

	_, envelope = serve(router, nil, http.MethodGet, "/?year=1979", "")
	data := envelope["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Stalker", data[0].(map[string]any)["name"])
}

/*
TestHandler_ListYearOutOfRange answers an empty page for years the catalogue cannot hold.
*/
func TestHandler_ListYearOutOfRange(t *testing.T) {
	router := newRouter()
	serve(router, admin, http.MethodPost, "/", stalker)

	for _, year := range []string{"99999", "32768", "-5", "9223372036854775807"} {
		t.Run(year, func(t *testing.T) {
			recorder, envelope := serve(router, nil, http.MethodGet, "/?year="+year, "")

			require.Equal(t, http.StatusOK, recorder.Code)
			assert.EqualValues(t, 0, envelope["meta"].(map[string]any)["total"])
			assert.Empty(t, envelope["data"])
		})
	}
}
