package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/afumu/prodsum/internal/dataset"
	"github.com/afumu/prodsum/web/api"
)

// Service 定义了 web 服务。
type Service struct {
	registry *dataset.Registry
	router   *gin.Engine
	server   *http.Server
	conf     *Config
	api      *api.API
}

// Config 保存 web 服务的配置。
type Config struct {
	ListenAddr string
	StaticDir  string

	SentinelCollector string
	DebtorPlaceholder string
	PTPDupPattern     string
	NoisePhrases      []string
	ExcludeWeekday    string

	RemarkTypes    []string
	FailedSMSRule  string
	DateRangeScope string
}

// NewService 创建一个新的 web 服务。
func NewService(registry *dataset.Registry, conf *Config) *Service {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	apiConf := &api.Config{
		SentinelCollector: conf.SentinelCollector,
		DebtorPlaceholder: conf.DebtorPlaceholder,
		PTPDupPattern:     conf.PTPDupPattern,
		NoisePhrases:      conf.NoisePhrases,
		ExcludeWeekday:    conf.ExcludeWeekday,
		RemarkTypes:       conf.RemarkTypes,
		FailedSMSRule:     conf.FailedSMSRule,
		DateRangeScope:    conf.DateRangeScope,
	}

	s := &Service{
		registry: registry,
		router:   router,
		conf:     conf,
		api:      api.NewAPI(registry, apiConf),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Start 开始提供 web 应用服务。
func (s *Service) Start() error {
	s.server = &http.Server{
		Addr:    s.conf.ListenAddr,
		Handler: s.router,
	}

	log.Info().Msg(fmt.Sprintf("在 %s 上启动 web 服务", s.conf.ListenAddr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Web 服务启动失败")
		}
	}()

	return nil
}

// Stop 优雅地关闭 web 服务器。
func (s *Service) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("优雅关闭 web 服务器失败")
		return err
	}

	log.Info().Msg("Web 服务已停止")
	return nil
}

func (s *Service) GetRouter() *gin.Engine {
	return s.router
}
