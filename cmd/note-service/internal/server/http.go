package server

import (
	"net/http"
	"strconv"

	"notehub/cmd/note-service/internal/domain"
	"notehub/cmd/note-service/internal/service"
	"notehub/pkg/health"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	engine  *gin.Engine
	service *service.NoteService
	health  *health.Registry
	logger  log.Logger
}

// NewHTTPServer 创建 HTTP 服务器
func NewHTTPServer(srv *service.NoteService, registry *health.Registry, logger log.Logger) *HTTPServer {
	engine := gin.New()

	s := &HTTPServer{
		engine:  engine,
		service: srv,
		health:  registry,
		logger:  logger,
	}

	s.registerMiddleware()
	s.registerRoutes()

	return s
}

// Engine 暴露给 http.Server 使用
func (s *HTTPServer) Engine() *gin.Engine {
	return s.engine
}

// registerMiddleware 注册全局中间件
func (s *HTTPServer) registerMiddleware() {
	s.engine.Use(RecoveryMiddleware(s.logger))
	s.engine.Use(CORSMiddleware())
	s.engine.Use(LoggingMiddleware(s.logger))
	s.engine.Use(MetricsMiddleware())
}

// registerRoutes 注册路由
func (s *HTTPServer) registerRoutes() {
	s.engine.GET("/health", s.healthCheck)

	api := s.engine.Group("/api/v1")

	// 收藏接口
	favorites := api.Group("/favorites")
	{
		favorites.GET("/notes", s.getFavoriteNotes)
		favorites.POST("/notes", s.addFavorite)
		favorites.DELETE("/notes/:noteId", s.removeFavorite)
		favorites.GET("/notes/:noteId/exists", s.checkFavorite)
	}

	// 搜索接口
	search := api.Group("/search")
	{
		search.GET("/notes", s.searchNotes)
	}
}

// healthCheck 健康检查，聚合核心依赖探活结果
func (s *HTTPServer) healthCheck(c *gin.Context) {
	status, checks := s.health.Status(c.Request.Context())
	body := gin.H{"status": status, "checks": checks}
	if status != health.StatusHealthy {
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	Success(c, body)
}

// getFavoriteNotes 获取用户收藏的笔记列表
func (s *HTTPServer) getFavoriteNotes(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		Error(c, domain.ErrInvalidUserID)
		return
	}

	notes, err := s.service.GetFavoriteNotes(c.Request.Context(), userID)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, notes)
}

// addFavoriteRequest 收藏请求体
type addFavoriteRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
	NoteID int64 `json:"note_id" binding:"required"`
}

// addFavorite 收藏笔记
func (s *HTTPServer) addFavorite(c *gin.Context) {
	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, domain.ErrInvalidNoteID)
		return
	}

	if err := s.service.AddFavorite(c.Request.Context(), req.UserID, req.NoteID); err != nil {
		Error(c, err)
		return
	}
	Success(c, nil)
}

// removeFavorite 取消收藏
func (s *HTTPServer) removeFavorite(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		Error(c, domain.ErrInvalidUserID)
		return
	}
	noteID, err := strconv.ParseInt(c.Param("noteId"), 10, 64)
	if err != nil {
		Error(c, domain.ErrInvalidNoteID)
		return
	}

	if err := s.service.RemoveFavorite(c.Request.Context(), userID, noteID); err != nil {
		Error(c, err)
		return
	}
	NoContent(c)
}

// checkFavorite 判断是否已收藏
func (s *HTTPServer) checkFavorite(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil {
		Error(c, domain.ErrInvalidUserID)
		return
	}
	noteID, err := strconv.ParseInt(c.Param("noteId"), 10, 64)
	if err != nil {
		Error(c, domain.ErrInvalidNoteID)
		return
	}

	exists, err := s.service.IsFavorite(c.Request.Context(), userID, noteID)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, gin.H{"favorited": exists})
}

// searchNotes 关键词搜索
func (s *HTTPServer) searchNotes(c *gin.Context) {
	keyword := c.Query("keyword")

	notes, err := s.service.SearchNotes(c.Request.Context(), keyword)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, notes)
}
