package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Toasoan/internal/api/config"
	"Toasoan/internal/api/handler"
	"Toasoan/internal/event"
	"Toasoan/internal/model"
	"Toasoan/internal/pkg/database"
	"Toasoan/internal/pkg/mongo"
	"Toasoan/internal/pkg/redis"
	"Toasoan/internal/repository"
	"Toasoan/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/sqlite"
)

// nopSysBox 路由测试不关心通知内容
type nopSysBox struct{}

func (nopSysBox) CreateNotifications(context.Context, []*mongo.SysBoxModel) error { return nil }
func (nopSysBox) GetNotificationList(context.Context, uint64, int64, int64) ([]*mongo.SysBoxModel, error) {
	return []*mongo.SysBoxModel{}, nil
}
func (nopSysBox) MarkAsRead(context.Context, uint64, primitive.ObjectID) error { return nil }
func (nopSysBox) MarkAllAsRead(context.Context, uint64) error                   { return nil }
func (nopSysBox) GetUnreadCount(context.Context, uint64) (int64, error)         { return 0, nil }
func (nopSysBox) GetByID(context.Context, primitive.ObjectID) (*mongo.SysBoxModel, error) {
	return nil, mongoDB.ErrNoDocuments
}

type apiResp struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Rdb.Close() })

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepo(db)
	articleRepo := repository.NewArticleRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)

	sysBoxSvc := service.NewSysBoxService(nopSysBox{}, userRepo)
	publisher := event.NewDirectPublisher(sysBoxSvc)
	userSvc := service.NewUserService(userRepo, publisher)
	require.NoError(t, userSvc.EnsureBootstrapAdmin(context.Background(), config.BootstrapAdminConfig{
		Username: "quantri", Email: "admin@toasoan.vn", Password: "matkhau123",
	}))
	require.NoError(t, categoryRepo.CreateCategory(context.Background(), &model.Category{Name: "Thời sự", Slug: "thoi-su"}))

	group := &HandlersGroup{
		UserHandler:            handler.NewUserHandler(userSvc),
		CategoryHandler:        handler.NewCategoryHandler(service.NewCategoryService(categoryRepo)),
		ArticleHandler:         handler.NewArticleHandler(service.NewArticleService(articleRepo, categoryRepo, redis.NewArticleViewCounter(), publisher)),
		CommentHandler:         handler.NewCommentHandler(service.NewCommentService(repository.NewCommentRepo(db), articleRepo, userRepo, publisher)),
		DeletionRequestHandler: handler.NewDeletionRequestHandler(service.NewDeletionRequestService(repository.NewDeletionRequestRepo(db), articleRepo, publisher)),
		SysBoxHandler:          handler.NewSysBoxHandler(sysBoxSvc),
		MediaHandler:           handler.NewMediaHandler(service.NewMediaService(nil)),
		Callers:                userSvc,
	}
	return &testServer{t: t, router: SetupRouter(group, RouterOptions{Service: "toasoan-test"})}
}

func (s *testServer) do(method, path, token string, body any) (int, apiResp) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var res apiResp
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &res), w.Body.String())
	return w.Code, res
}

func (s *testServer) login(account, password string) string {
	s.t.Helper()
	code, res := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"account": account, "password": password})
	require.Equal(s.t, http.StatusOK, code, res.Message)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(res.Data, &data))
	return data.Token
}

// register 注册后由管理员授予角色，返回用户 ID 与 token
func (s *testServer) register(adminToken, username, role string) (uint64, string) {
	s.t.Helper()
	code, res := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@toasoan.vn",
		"password": "matkhau123",
	})
	require.Equal(s.t, http.StatusOK, code, res.Message)
	var user struct {
		ID uint64 `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(res.Data, &user))

	if role != "reader" {
		code, res = s.do(http.MethodPut, fmt.Sprintf("/api/users/%d/role", user.ID), adminToken, map[string]string{"role": role})
		require.Equal(s.t, http.StatusOK, code, res.Message)
	}
	return user.ID, s.login(username, "matkhau123")
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type articleView struct {
	ID          uint64   `json:"id"`
	Status      string   `json:"status"`
	PublishedAt *string  `json:"published_at"`
	ViewCount   int64    `json:"view_count"`
	Actions     []string `json:"actions"`
}

func TestEditorialFlowOverHTTP(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("quantri", "matkhau123")
	_, authorToken := s.register(adminToken, "tacgia", "author")
	_, editorToken := s.register(adminToken, "bientap", "editor")
	_, readerToken := s.register(adminToken, "docgia", "reader")

	code, res := s.do(http.MethodPost, "/api/articles", authorToken, map[string]any{
		"category_id": 1,
		"title":       "Khai mạc hội sách",
		"content":     "<p>Hội sách mở cửa từ hôm nay.</p>",
	})
	require.Equal(t, http.StatusOK, code, res.Message)
	article := decode[articleView](t, res.Data)
	assert.Equal(t, "draft", article.Status)
	path := fmt.Sprintf("/api/articles/%d", article.ID)

	code, _ = s.do(http.MethodGet, path, readerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(http.MethodGet, "/api/articles/9999", readerToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodPost, path+"/review", editorToken, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = s.do(http.MethodPost, path+"/submit", authorToken, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodPost, path+"/review", authorToken, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodPost, path+"/review", editorToken, map[string]string{"status": "draft"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(http.MethodPost, path+"/review", editorToken, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, code)

	code, res = s.do(http.MethodPost, path+"/publish", editorToken, nil)
	require.Equal(t, http.StatusOK, code)
	published := decode[articleView](t, res.Data)
	assert.Equal(t, "published", published.Status)
	require.NotNil(t, published.PublishedAt)

	code, res = s.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), decode[articleView](t, res.Data).ViewCount)

	code, res = s.do(http.MethodGet, "/api/articles", "", nil)
	require.Equal(t, http.StatusOK, code)
	page := decode[struct {
		Total int64 `json:"total"`
	}](t, res.Data)
	assert.Equal(t, int64(1), page.Total)

	// 作者不能直接删除已发布文章，需走删除申请
	code, _ = s.do(http.MethodDelete, path, authorToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPost, path+"/deletion-requests", authorToken, map[string]string{"reason": "too short"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, res = s.do(http.MethodPost, path+"/deletion-requests", authorToken, map[string]string{"reason": "this needs to go now"})
	require.Equal(t, http.StatusOK, code, res.Message)
	request := decode[struct {
		ID     uint64 `json:"id"`
		Status string `json:"status"`
	}](t, res.Data)
	assert.Equal(t, "pending", request.Status)

	code, _ = s.do(http.MethodPost, path+"/deletion-requests", authorToken, map[string]string{"reason": "this needs to go now"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(http.MethodGet, "/api/deletion-requests", authorToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, res = s.do(http.MethodGet, "/api/deletion-requests?status=pending", editorToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), decode[struct {
		Total int64 `json:"total"`
	}](t, res.Data).Total)

	approvePath := fmt.Sprintf("/api/deletion-requests/%d/approve", request.ID)
	code, _ = s.do(http.MethodPost, approvePath, authorToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodPost, approvePath, editorToken, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodPost, approvePath, editorToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = s.do(http.MethodGet, path, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCommentsOverHTTP(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("quantri", "matkhau123")
	_, readerToken := s.register(adminToken, "docgia", "reader")
	_, editorToken := s.register(adminToken, "bientap", "editor")

	code, res := s.do(http.MethodPost, "/api/articles", adminToken, map[string]any{
		"category_id": 1, "title": "Tin nóng", "content": "<p>Nội dung</p>",
	})
	require.Equal(t, http.StatusOK, code, res.Message)
	article := decode[articleView](t, res.Data)
	path := fmt.Sprintf("/api/articles/%d", article.ID)

	// 草稿不能评论
	code, _ = s.do(http.MethodPost, path+"/comments", readerToken, map[string]string{"content": "Sớm quá"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = s.do(http.MethodPost, path+"/publish", adminToken, nil)
	require.Equal(t, http.StatusOK, code)

	code, res = s.do(http.MethodPost, path+"/comments", readerToken, map[string]string{"content": "Bài hay"})
	require.Equal(t, http.StatusOK, code, res.Message)
	root := decode[struct {
		ID uint64 `json:"id"`
	}](t, res.Data)

	code, _ = s.do(http.MethodPost, path+"/comments", editorToken, map[string]string{"content": "Biên tập viên"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodPost, path+"/comments", "", map[string]string{"content": "Ẩn danh"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPost, path+"/comments", adminToken, map[string]any{"content": "Cảm ơn", "parent_id": root.ID})
	assert.Equal(t, http.StatusForbidden, code, "管理员不在评论角色内")

	likePath := fmt.Sprintf("/api/comments/%d/like", root.ID)
	code, res = s.do(http.MethodPost, likePath, editorToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"liked":true,"like_count":1}`, string(res.Data))
	code, res = s.do(http.MethodPost, likePath, editorToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"liked":false,"like_count":0}`, string(res.Data))

	code, res = s.do(http.MethodGet, path+"/comments", "", nil)
	require.Equal(t, http.StatusOK, code)
	tree := decode[[]struct {
		ID uint64 `json:"id"`
	}](t, res.Data)
	require.Len(t, tree, 1)

	code, res = s.do(http.MethodDelete, fmt.Sprintf("/api/comments/%d", root.ID), readerToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"removed":1}`, string(res.Data))
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("quantri", "matkhau123")
	readerID, readerToken := s.register(adminToken, "docgia", "reader")

	code, res := s.do(http.MethodGet, "/api/users/me", readerToken, nil)
	require.Equal(t, http.StatusOK, code)
	me := decode[struct {
		ID   uint64 `json:"id"`
		Role string `json:"role"`
	}](t, res.Data)
	assert.Equal(t, readerID, me.ID)
	assert.Equal(t, "reader", me.Role)

	code, _ = s.do(http.MethodGet, "/api/users", readerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodPut, "/api/users/9999/role", adminToken, map[string]string{"role": "author"})
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = s.do(http.MethodPut, fmt.Sprintf("/api/users/%d/role", readerID), adminToken, map[string]string{"role": "root"})
	assert.Equal(t, http.StatusBadRequest, code)

	// 角色变更对已签发的 token 立即生效
	code, _ = s.do(http.MethodPost, "/api/categories", readerToken, map[string]string{"name": "Thể thao"})
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = s.do(http.MethodPut, fmt.Sprintf("/api/users/%d/role", readerID), adminToken, map[string]string{"role": "editor"})
	require.Equal(t, http.StatusOK, code)
	code, res = s.do(http.MethodPost, "/api/categories", readerToken, map[string]string{"name": "Thể thao"})
	require.Equal(t, http.StatusOK, code, res.Message)

	code, res = s.do(http.MethodGet, "/api/categories/the-thao", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(res.Data), `"slug":"the-thao"`)

	code, _ = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "docgia", "email": "khac@toasoan.vn", "password": "matkhau123",
	})
	assert.Equal(t, http.StatusConflict, code)
	code, _ = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"account": "docgia", "password": "sai-mat-khau"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPost, "/api/auth/logout", readerToken, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodGet, "/api/users/me", readerToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodGet, "/api/articles/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
