package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorDefaultsMessage(t *testing.T) {
	r := Error(CodeNotFound, "")
	assert.Equal(t, 404, r.Code)
	assert.Equal(t, "not found", r.Msg)
	assert.Equal(t, "custom", Error(CodeBadRequest, "custom").Msg)
	assert.Equal(t, struct{}{}, New(0, "OK", nil).Data)
}

func TestSuccessAndAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Success(c, http.StatusCreated, gin.H{"id": 1})
	assert.Equal(t, http.StatusCreated, w.Code)
	var body Resp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeOK, body.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Success(c, http.StatusNoContent, gin.H{"ignored": true})
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	Abort(c, http.StatusForbidden, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.True(t, c.IsAborted())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "forbidden", body.Msg)
}
