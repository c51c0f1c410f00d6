package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIDAcceptsNumbersAndStrings(t *testing.T) {
	var body struct {
		A FlexID `json:"a"`
		B FlexID `json:"b"`
		C FlexID `json:"c"`
		D FlexID `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"34","c":null,"d":""}`), &body))
	assert.Equal(t, FlexID(12), body.A)
	assert.Equal(t, FlexID(34), body.B)
	assert.Zero(t, body.C)
	assert.Zero(t, body.D)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"x1"}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"a":-3}`), &body))
}

func TestResourceIDPrecedence(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		params gin.Params
		url    string
		body   FlexID
		want   uint
		ok     bool
	}{
		{"path", gin.Params{{Key: "id", Value: "7"}}, "/x?id=8", 9, 7, true},
		{"query", nil, "/x?id=8", 9, 8, true},
		{"body", nil, "/x", 9, 9, true},
		{"none", nil, "/x", 0, 0, false},
		{"garbage", nil, "/x?id=abc", 9, 0, false},
		{"zero", gin.Params{{Key: "id", Value: "0"}}, "/x", 0, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tc.url, nil)
			c.Params = tc.params

			got, ok := resourceID(c, tc.body)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	respondError(c, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Server error"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	respondError(c, ErrBienSold)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"Bien is already sold"}`, w.Body.String())
}
