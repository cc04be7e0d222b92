//go:build wireinject
// +build wireinject

package main

import (
	"notehub/cmd/note-service/internal/biz"
	"notehub/cmd/note-service/internal/conf"
	"notehub/cmd/note-service/internal/data"
	"notehub/cmd/note-service/internal/server"
	"notehub/cmd/note-service/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"gorm.io/gorm"
)

// App 应用组件
type App struct {
	HTTPServer *server.HTTPServer
	DB         *gorm.DB
}

// initApp 初始化应用
func initApp(cfg *conf.Config, logger log.Logger) (*App, func(), error) {
	panic(wire.Build(
		// Data 层
		data.NewDB,
		data.NewRedisClient,
		data.NewNoteStatsRepository,
		data.NewFavoriteNoteRepository,
		data.NewStatsCacheStore,
		data.NewSearchIndex,
		data.NewHealthRegistry,

		// Biz 层
		biz.NewStatsCacheUsecase,
		biz.NewFavoritesUsecase,
		biz.NewSearchUsecase,

		// Service 层
		service.NewNoteService,

		// Server 层
		server.NewHTTPServer,

		// 组装 App
		wire.Struct(new(App), "*"),
	))
}
