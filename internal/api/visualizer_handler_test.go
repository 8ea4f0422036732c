package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renovo-backend-go/internal/core"
	"renovo-backend-go/internal/models"
)

func TestCredits(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/visualizer/credits?userId=u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[core.CreditBalance](t, w).HasCredits)

	w = s.do(http.MethodPost, "/api/visualizer/credits", map[string]interface{}{"userId": "u1", "credits": 2})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = s.do(http.MethodPost, "/api/visualizer/credits", map[string]interface{}{"userId": "u1", "credits": 2}, withBearer("token-u1"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, "/api/visualizer/credits", map[string]interface{}{"userId": "u1", "credits": 1}, withBearer("token-admin"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(1), decode[core.CreditBalance](t, w).Credits)

	w = s.do(http.MethodPost, "/api/visualizer/consume-credit", map[string]string{"userId": "u1"})
	require.Equal(t, http.StatusOK, w.Code)
	consumed := decode[ConsumeCreditResponse](t, w)
	assert.Equal(t, int64(0), consumed.Remaining)
	assert.Equal(t, consumed.Credits, consumed.Remaining)

	w = s.do(http.MethodPost, "/api/visualizer/consume-credit", map[string]string{"userId": "u1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, decode[NeedsPaymentResponse](t, w).NeedsPayment)

	w = s.do(http.MethodPost, "/api/visualizer/consume-credit", map[string]string{"userId": "nobody"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func uploadRequest(t *testing.T, userID, contentType string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("userId", userID))
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="room.png"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/visualizer/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, uploadRequest(t, "u1", "image/png", pngHeader))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result := decode[core.UploadResult](t, w)
	assert.Regexp(t, `^visualizer/u1/.+\.png$`, result.Path)

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, uploadRequest(t, "u1", "text/plain", []byte("hello world")))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, uploadRequest(t, "../u1", "image/png", pngHeader))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVisualizerProjects(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/visualizer/projects", map[string]interface{}{"userId": "u1", "title": "Kitchen"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, s.store.Projects.Len())

	w = s.do(http.MethodPost, "/api/visualizer/projects", map[string]interface{}{
		"userId": "u1", "title": "Kitchen", "budget": 20000, "beforeImages": []string{"https://img/before.png"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := decode[models.Project](t, w)
	assert.Equal(t, models.ProjectStatusPlanning, project.Status)

	w = s.do(http.MethodPost, "/api/visualizer/projects/"+project.ID+"/results", map[string]string{"imageUrl": "https://img/after.png"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"https://img/after.png"}, decode[models.Project](t, w).AfterImages)

	w = s.do(http.MethodPost, "/api/visualizer/projects/missing/results", map[string]string{"imageUrl": "https://img/after.png"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddResult_OtherUsersProjectForbidden(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/visualizer/projects", map[string]interface{}{
		"userId": "u2", "title": "Porch", "beforeImages": []string{"https://img/porch.png"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	project := decode[models.Project](t, w)

	body := map[string]string{"imageUrl": "https://img/after.png"}
	w = s.do(http.MethodPost, "/api/visualizer/projects/"+project.ID+"/results", body, withBearer("token-u1"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	stored, err := s.store.Projects.GetByID(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.AfterImages)

	w = s.do(http.MethodPost, "/api/visualizer/projects/"+project.ID+"/results", body, withBearer("token-admin"))
	assert.Equal(t, http.StatusOK, w.Code)
}
