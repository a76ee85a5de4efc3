package bootstrap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubrecruit/internal/app/models/dto"
	"github.com/yigit/clubrecruit/internal/app/repositories/memory"
	"github.com/yigit/clubrecruit/internal/config"
	"github.com/yigit/clubrecruit/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
	auth.BcryptCost = 4
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newAPIClient(t *testing.T) *apiClient {
	t.Helper()
	cfg := &config.Config{}
	cfg.Storage.Driver = config.DriverMemory
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTokenExpiration = "1h"
	cfg.JWT.Issuer = "clubrecruit.test"
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "/metrics"

	deps := BuildDependencies(cfg, memory.NewRepositories(memory.NewStore()), prometheus.NewRegistry(), zerolog.Nop())
	return &apiClient{t: t, router: SetupRouter(cfg, deps, zerolog.Nop())}
}

type response struct {
	Code  int              `json:"-"`
	Data  json.RawMessage  `json:"data"`
	Error *dto.ErrorDetail `json:"error"`
	Raw   string           `json:"-"`
}

func (c *apiClient) do(method, path, token string, body interface{}) response {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	resp := response{Code: w.Code, Raw: w.Body.String()}
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp
}

func (c *apiClient) register(first string) (string, int64) {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		Email:     first + "@uni.edu",
		Password:  "password1",
		FirstName: first,
		LastName:  "Test",
	})
	require.Equal(c.t, http.StatusCreated, resp.Code, resp.Raw)
	var authResp dto.AuthResponse
	require.NoError(c.t, json.Unmarshal(resp.Data, &authResp))
	return authResp.Token.AccessToken, authResp.User.ID
}

func decodeData[T any](t *testing.T, resp response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v), resp.Raw)
	return v
}

func TestRecruitmentFlowOverHTTP(t *testing.T) {
	api := newAPIClient(t)

	alice, _ := api.register("alice")
	bob, bobID := api.register("bob")
	carol, _ := api.register("carol")

	resp := api.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "carol@uni.edu", Password: "wrong-pass1"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Club creation and the join workflow
	resp = api.do(http.MethodPost, "/api/v1/clubs", alice, dto.CreateClubRequest{Name: "Robotics", Position: "President"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Raw)
	club := decodeData[dto.ClubResponse](t, resp)
	clubPath := fmt.Sprintf("/api/v1/clubs/%d", club.ID)

	resp = api.do(http.MethodPost, clubPath+"/join-requests", bob, dto.JoinRequest{Position: "Treasurer"})
	require.Equal(t, http.StatusAccepted, resp.Code, resp.Raw)

	resp = api.do(http.MethodPost, clubPath+"/join-requests", bob, dto.JoinRequest{Position: "Treasurer"})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = api.do(http.MethodGet, clubPath+"/join-requests", carol, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = api.do(http.MethodGet, clubPath+"/join-requests", alice, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	pending := decodeData[[]dto.ExecResponse](t, resp)
	require.Len(t, pending, 1)
	assert.Equal(t, bobID, pending[0].UserID)

	resp = api.do(http.MethodPost, fmt.Sprintf("%s/join-requests/%d/approve", clubPath, bobID), alice, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Raw)

	resp = api.do(http.MethodGet, clubPath+"/execs", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeData[[]dto.ExecResponse](t, resp), 2)

	// Recruitment
	resp = api.do(http.MethodPost, clubPath+"/roles", carol, dto.CreateOpenRoleRequest{Title: "Lead", Deadline: time.Now().Add(time.Hour)})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = api.do(http.MethodPost, clubPath+"/roles", bob, dto.CreateOpenRoleRequest{
		Title:     "Software Lead",
		Deadline:  time.Now().Add(24 * time.Hour),
		Questions: []string{"Why us?"},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Raw)
	role := decodeData[dto.OpenRoleResponse](t, resp)

	resp = api.do(http.MethodGet, clubPath+"/forum", carol, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code, "not an applicant yet")

	appsPath := fmt.Sprintf("/api/v1/roles/%d/applications", role.ID)
	resp = api.do(http.MethodPost, appsPath, carol, dto.SubmitApplicationRequest{Answers: map[string]string{"Why us?": "Robots"}})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Raw)
	app := decodeData[dto.ApplicationResponse](t, resp)
	assert.Equal(t, "SUBMITTED", app.Status)

	resp = api.do(http.MethodPost, appsPath, carol, dto.SubmitApplicationRequest{})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = api.do(http.MethodGet, "/api/v1/applications/mine", carol, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeData[[]dto.ApplicationResponse](t, resp), 1)

	// Forum
	resp = api.do(http.MethodGet, clubPath+"/forum", carol, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Raw)
	forum := decodeData[dto.ThreadResponse](t, resp)
	assert.Equal(t, "Robotics Forum", forum.Title)

	resp = api.do(http.MethodGet, clubPath+"/forum", bob, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, forum.ID, decodeData[dto.ThreadResponse](t, resp).ID)

	commentsPath := fmt.Sprintf("/api/v1/threads/%d/comments", forum.ID)
	resp = api.do(http.MethodPost, commentsPath, carol, dto.CreateCommentRequest{Body: "Hello!"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Raw)
	carolComment := decodeData[dto.CommentResponse](t, resp)
	require.NotNil(t, carolComment.Author)
	assert.Equal(t, "carol Test", carolComment.Author.Name)

	stars := 3
	resp = api.do(http.MethodPost, commentsPath, bob, dto.CreateCommentRequest{Body: "Welcome", Stars: &stars})
	assert.Equal(t, http.StatusBadRequest, resp.Code, "no stars in forums")

	// Review thread
	reviewPath := fmt.Sprintf("/api/v1/applications/%d/review-thread", app.ID)
	resp = api.do(http.MethodGet, reviewPath, carol, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = api.do(http.MethodGet, reviewPath, bob, nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Raw)
	review := decodeData[dto.ThreadResponse](t, resp)
	assert.Equal(t, "CLUB_LEADERS", review.Visibility)

	stars = 4
	resp = api.do(http.MethodPost, fmt.Sprintf("/api/v1/threads/%d/comments", review.ID), bob, dto.CreateCommentRequest{Body: "Strong", Stars: &stars})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Raw)

	stars = 6
	resp = api.do(http.MethodPost, fmt.Sprintf("/api/v1/threads/%d/comments", review.ID), bob, dto.CreateCommentRequest{Body: "Too strong", Stars: &stars})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = api.do(http.MethodPut, fmt.Sprintf("/api/v1/applications/%d/status", app.ID), bob, dto.UpdateApplicationStatusRequest{Status: "ACCEPTED"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Raw)
	assert.Equal(t, "ACCEPTED", decodeData[dto.ApplicationResponse](t, resp).Status)

	// Locking
	locked := true
	resp = api.do(http.MethodPut, fmt.Sprintf("/api/v1/threads/%d/lock", forum.ID), carol, dto.LockThreadRequest{Locked: &locked})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = api.do(http.MethodPut, fmt.Sprintf("/api/v1/threads/%d/lock", forum.ID), alice, dto.LockThreadRequest{Locked: &locked})
	require.Equal(t, http.StatusOK, resp.Code, resp.Raw)
	assert.True(t, decodeData[dto.ThreadResponse](t, resp).Locked)

	resp = api.do(http.MethodPost, commentsPath, carol, dto.CreateCommentRequest{Body: "Still there?"})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// Deletion by a leader is idempotent
	commentPath := fmt.Sprintf("/api/v1/comments/%d", carolComment.ID)
	for i := 0; i < 2; i++ {
		resp = api.do(http.MethodDelete, commentPath, bob, nil)
		require.Equal(t, http.StatusOK, resp.Code, resp.Raw)
		deleted := decodeData[dto.CommentResponse](t, resp)
		assert.True(t, deleted.Deleted)
		assert.Equal(t, "[deleted]", deleted.Body)
		assert.Nil(t, deleted.Author)
	}

	body := "edited"
	resp = api.do(http.MethodPatch, commentPath, carol, dto.EditCommentRequest{Body: &body})
	assert.Equal(t, http.StatusConflict, resp.Code)

	resp = api.do(http.MethodGet, commentsPath, carol, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeData[[]dto.CommentResponse](t, resp), 1)
}

func TestRouterEdges(t *testing.T) {
	api := newAPIClient(t)
	token, _ := api.register("dave")

	resp := api.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = api.do(http.MethodGet, "/api/v1/threads/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = api.do(http.MethodGet, "/api/v1/threads/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeInvalidRequest, resp.Error.Code)

	resp = api.do(http.MethodGet, "/api/v1/threads/999", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = api.do(http.MethodGet, "/api/v1/nowhere", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
	require.NotNil(t, resp.Error, resp.Raw)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "/api/v1/nowhere")

	resp = api.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "dave@uni.edu", decodeData[dto.UserResponse](t, resp).Email)

	resp = api.do(http.MethodGet, "/api/v1/clubs?page=1&pageSize=5", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeData[dto.ClubListResponse](t, resp).Clubs)

	resp = api.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Raw, "clubrecruit_http_request_duration_seconds")
}
