package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/socialchef/hogwarts-kitchen/internal/services/portkey"
)

func TestNewRouter(t *testing.T) {
	axios := new(MockCompleter)
	axios.On("Complete", mock.Anything, mock.Anything).Return(responseWith(`{"role":"assistant","content":"false"}`), nil)
	proxy := new(MockCompleter)
	proxy.On("Complete", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	static := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("static:" + r.URL.Path))
	})
	router := NewRouter("hogwarts-kitchen-test", newTestServer(), Routes{Axios: axios, Portkey: proxy, Static: static})

	t.Run("health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "OK", rr.Body.String())
	})

	t.Run("axios route", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("POST", "/api/axios/recipes", strings.NewReader(`{"ingredients":"eggs"}`)))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, rr.Header().Get(portkey.HeaderTraceID))
		axios.AssertNumberOfCalls(t, "Complete", 1)
	})

	t.Run("portkey route", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("POST", "/api/portkey/recipes", strings.NewReader(`{"ingredients":"eggs"}`)))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, GenericErrorMessage, rr.Body.String())
		proxy.AssertNumberOfCalls(t, "Complete", 1)
	})

	t.Run("static fallback", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/scripts/app.js", nil))
		assert.Equal(t, "static:/scripts/app.js", rr.Body.String())
	})

	t.Run("cors", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/axios/recipes", nil)
		req.Header.Set("Origin", "http://example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})
}
