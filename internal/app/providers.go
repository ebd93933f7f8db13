package app

import (
	"context"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"rvc-service/internal/api/server"
	"rvc-service/internal/api/v1/services"
	"rvc-service/internal/app/audio"
	"rvc-service/internal/app/capabilities"
	"rvc-service/internal/app/convert"
	"rvc-service/internal/app/events"
	"rvc-service/internal/app/hfcache"
	"rvc-service/internal/app/metrics"
	"rvc-service/internal/app/model"
	"rvc-service/internal/app/registry"
	"rvc-service/internal/app/util/files"
	"rvc-service/internal/config"
)

// ProviderSet builds the service graph from a *config.Config and a *zap.Logger.
var ProviderSet = wire.NewSet(
	providePrometheusRegistry,
	provideMetrics,
	provideCodec,
	provideDetector,
	provideSynthesizer,
	provideCapabilities,
	provideRegistry,
	provideCache,
	provideScriptRunner,
	provideDispatcher,
	provideEvents,
	provideArchive,
	provideVoiceService,
	provideServer,
	wire.Struct(new(App), "*"),
)

// App is the assembled service.
type App struct {
	Config       *config.Config
	Logger       *zap.Logger
	Capabilities capabilities.Capabilities
	Registry     *registry.Registry
	Cache        *hfcache.Manager
	Metrics      *metrics.Metrics
	Events       events.Publisher
	Voice        *services.VoiceServiceImpl
	Server       *server.Server
}

func providePrometheusRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

func provideCodec(logger *zap.Logger) audio.Codec {
	return audio.NewFFmpegCodec(logger)
}

func provideDetector(logger *zap.Logger) *capabilities.Detector {
	return capabilities.NewDetector(logger)
}

func provideSynthesizer(d *capabilities.Detector, cfg *config.Config) convert.Synthesizer {
	return d.Synthesizer(cfg)
}

func provideCapabilities(d *capabilities.Detector, cfg *config.Config, codec audio.Codec, synth convert.Synthesizer) capabilities.Capabilities {
	return d.Detect(cfg, codec, synth)
}

// provideRegistry creates the storage layout and loads the models already on disk.
func provideRegistry(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*registry.Registry, error) {
	if err := files.EnsureDirs(cfg.Dirs()...); err != nil {
		return nil, err
	}

	models := registry.New(cfg.Storage.WeightsDir, logger)
	if _, err := models.Scan(); err != nil {
		return nil, err
	}
	m.RegisterModelsGauge(func() float64 { return float64(models.Len()) })
	return models, nil
}

func provideCache(cfg *config.Config, logger *zap.Logger) *hfcache.Manager {
	cache := hfcache.NewManager(hfcache.Config{
		Enabled:  cfg.HFCache.Enabled,
		CacheDir: cfg.HFCacheDir(),
		Endpoint: cfg.HFCache.Endpoint,
		Token:    cfg.HFCache.Token,
		Timeout:  cfg.HFTimeout(),
	}, logger)

	for _, p := range cfg.Pretrained {
		cache.AddPretrained(model.CachedRepo{RepoID: p.ID, Name: p.Name, Type: p.Type})
	}
	return cache
}

func provideScriptRunner(cfg *config.Config, logger *zap.Logger) *convert.ScriptRunner {
	return convert.NewScriptRunner(convert.ScriptRunnerConfig{
		Python:  cfg.Conversion.PythonBin,
		Timeout: cfg.InferTimeout(),
	}, logger)
}

func provideDispatcher(
	cfg *config.Config,
	caps capabilities.Capabilities,
	models *registry.Registry,
	codec audio.Codec,
	cache *hfcache.Manager,
	synth convert.Synthesizer,
	runner *convert.ScriptRunner,
	m *metrics.Metrics,
	logger *zap.Logger,
) *convert.Dispatcher {
	return convert.NewDispatcher(convert.Config{
		Mock:     caps.Mock,
		TempDir:  cfg.Storage.TempDir,
		Language: cfg.Conversion.XTTSLanguage,
	}, models, codec, cache, synth, runner, m, logger)
}

// provideEvents connects to NATS when configured. An unreachable server degrades to no events.
func provideEvents(cfg *config.Config, logger *zap.Logger) (events.Publisher, func()) {
	if cfg.Events.NATSURL == "" {
		return events.NopPublisher{}, func() {}
	}

	publisher, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.SubjectPrefix, logger)
	if err != nil {
		logger.Warn("lifecycle events disabled", zap.Error(err))
		return events.NopPublisher{}, func() {}
	}

	logger.Info("publishing lifecycle events",
		zap.String("url", cfg.Events.NATSURL),
		zap.String("prefix", cfg.Events.SubjectPrefix),
	)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to drain NATS connection", zap.Error(err))
		}
	}
}

// provideArchive returns nil when no object store is configured or reachable.
func provideArchive(ctx context.Context, cfg *config.Config, logger *zap.Logger) services.SampleArchive {
	if cfg.Archive.Endpoint == "" {
		return nil
	}

	archive, err := services.NewMinioSampleArchive(ctx, cfg.Archive, logger)
	if err != nil {
		logger.Warn("sample archive disabled", zap.Error(err))
		return nil
	}
	return archive
}

func provideVoiceService(
	cfg *config.Config,
	caps capabilities.Capabilities,
	models *registry.Registry,
	dispatcher *convert.Dispatcher,
	codec audio.Codec,
	cache *hfcache.Manager,
	archive services.SampleArchive,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *services.VoiceServiceImpl {
	return services.NewVoiceService(services.VoiceServiceConfig{
		Capabilities:   caps,
		TempDir:        cfg.Storage.TempDir,
		MockTrainDelay: cfg.MockTrainDelay(),
	}, services.VoiceServiceDeps{
		Registry:  models,
		Converter: dispatcher,
		Codec:     codec,
		Cache:     cache,
		Archive:   archive,
		Events:    publisher,
		Metrics:   m,
		Logger:    logger,
	})
}

func provideServer(
	cfg *config.Config,
	voice *services.VoiceServiceImpl,
	m *metrics.Metrics,
	reg *prometheus.Registry,
	logger *zap.Logger,
) *server.Server {
	return server.NewServer(server.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.ReadTimeout(),
		WriteTimeout:   cfg.WriteTimeout(),
		IdleTimeout:    cfg.IdleTimeout(),
		Environment:    cfg.Server.Environment,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		JWTSecret:      cfg.Auth.JWTSecret,
		CORSOrigins:    cfg.Server.CORSOrigins,
	}, voice, m, reg, logger)
}
