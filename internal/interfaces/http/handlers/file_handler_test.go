package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"taskbridge.backend/internal/domain/entities"
)

func uploadFile(t *testing.T, env *testEnv, token, taskID, fieldName, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/"+taskID+"/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestFileHandler_UploadListDownload(t *testing.T) {
	env := newTestEnv(t)
	_, clientToken := env.seedUser(t, "client@taskbridge.dev", entities.UserRoleUser)

	task := createTask(t, env, clientToken)
	content := []byte("project brief body")

	w := uploadFile(t, env, clientToken, task.ID.String(), "file", "brief.pdf", content)
	requireStatus(t, w, http.StatusCreated)

	var uploaded struct {
		File *entities.TaskFileInfo `json:"file"`
	}
	decodeBody(t, w, &uploaded)
	require.Equal(t, "brief.pdf", uploaded.File.FileName)
	require.Equal(t, int64(len(content)), uploaded.File.Size)
	require.NotEmpty(t, uploaded.File.DownloadURL)

	// List
	w2 := env.do(t, http.MethodGet, "/api/v1/tasks/"+task.ID.String()+"/files", clientToken, nil)
	requireStatus(t, w2, http.StatusOK)

	var listed struct {
		Files []*entities.TaskFileInfo `json:"files"`
	}
	decodeBody(t, w2, &listed)
	require.Len(t, listed.Files, 1)

	// Download returns the original bytes
	w3 := env.do(t, http.MethodGet, "/api/v1/tasks/"+task.ID.String()+"/files/"+uploaded.File.ID.String()+"/download", clientToken, nil)
	requireStatus(t, w3, http.StatusOK)
	require.Equal(t, content, w3.Body.Bytes())
	require.Contains(t, w3.Header().Get("Content-Disposition"), "brief.pdf")
}

func TestFileHandler_SignedURL(t *testing.T) {
	env := newTestEnv(t)
	_, clientToken := env.seedUser(t, "client@taskbridge.dev", entities.UserRoleUser)

	task := createTask(t, env, clientToken)

	w := uploadFile(t, env, clientToken, task.ID.String(), "file", "brief.pdf", []byte("x"))
	requireStatus(t, w, http.StatusCreated)

	var uploaded struct {
		File *entities.TaskFileInfo `json:"file"`
	}
	decodeBody(t, w, &uploaded)

	// No bucket configured in tests, so the link is the API download path.
	w2 := env.do(t, http.MethodGet, "/api/v1/tasks/"+task.ID.String()+"/files/"+uploaded.File.ID.String()+"/url", clientToken, nil)
	requireStatus(t, w2, http.StatusOK)

	var resp struct {
		URL string `json:"url"`
	}
	decodeBody(t, w2, &resp)
	require.Contains(t, resp.URL, "/download")
}

func TestFileHandler_UploadRequiresFileField(t *testing.T) {
	env := newTestEnv(t)
	_, clientToken := env.seedUser(t, "client@taskbridge.dev", entities.UserRoleUser)

	task := createTask(t, env, clientToken)

	w := uploadFile(t, env, clientToken, task.ID.String(), "wrong-field", "brief.pdf", []byte("x"))
	requireStatus(t, w, http.StatusBadRequest)
}

func TestFileHandler_UploadForbiddenForStranger(t *testing.T) {
	env := newTestEnv(t)
	_, ownerToken := env.seedUser(t, "owner@taskbridge.dev", entities.UserRoleUser)
	_, strangerToken := env.seedUser(t, "stranger@taskbridge.dev", entities.UserRoleUser)

	task := createTask(t, env, ownerToken)

	w := uploadFile(t, env, strangerToken, task.ID.String(), "file", "brief.pdf", []byte("x"))
	requireStatus(t, w, http.StatusForbidden)
}

func TestFileHandler_DownloadUnknownFile(t *testing.T) {
	env := newTestEnv(t)
	_, clientToken := env.seedUser(t, "client@taskbridge.dev", entities.UserRoleUser)

	task := createTask(t, env, clientToken)

	w := env.do(t, http.MethodGet, "/api/v1/tasks/"+task.ID.String()+"/files/"+task.ID.String()+"/download", clientToken, nil)
	requireStatus(t, w, http.StatusNotFound)
}
