package main

import (
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/base/database/mongoclient"
	"github.com/x-xyz/goroyalty/base/database/redisclient"
	"github.com/x-xyz/goroyalty/base/log"
	"github.com/x-xyz/goroyalty/base/metrics"
	bValidator "github.com/x-xyz/goroyalty/base/validator"
	"github.com/x-xyz/goroyalty/domain"
	"github.com/x-xyz/goroyalty/domain/keys"
	"github.com/x-xyz/goroyalty/domain/ledger"
	mmiddleware "github.com/x-xyz/goroyalty/middleware"
	"github.com/x-xyz/goroyalty/service/cache"
	"github.com/x-xyz/goroyalty/service/cache/provider"
	"github.com/x-xyz/goroyalty/service/cache/provider/compound"
	"github.com/x-xyz/goroyalty/service/cache/provider/primitive"
	redisCache "github.com/x-xyz/goroyalty/service/cache/provider/redis"
	"github.com/x-xyz/goroyalty/service/query"
	"github.com/x-xyz/goroyalty/service/redis"
	enforcer_delivery "github.com/x-xyz/goroyalty/stores/enforcer/delivery/http"
	enforcer_usecase "github.com/x-xyz/goroyalty/stores/enforcer/usecase"
	hc_delivery "github.com/x-xyz/goroyalty/stores/healthcheck/delivery/http"
	hc_repo "github.com/x-xyz/goroyalty/stores/healthcheck/repository"
	hc_usecase "github.com/x-xyz/goroyalty/stores/healthcheck/usecase"
	ledger_delivery "github.com/x-xyz/goroyalty/stores/ledger/delivery/http"
	ledger_repository "github.com/x-xyz/goroyalty/stores/ledger/repository"
	ledger_usecase "github.com/x-xyz/goroyalty/stores/ledger/usecase"
	marketplace_delivery "github.com/x-xyz/goroyalty/stores/marketplace/delivery/http"
	marketplace_usecase "github.com/x-xyz/goroyalty/stores/marketplace/usecase"
)

const (
	backendMongo  = "mongo"
	backendMemory = "memory"
)

var configFile = pflag.String("config", "infra/configs/config.yaml", "path of the yaml config")

func init() {
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	if err := log.Init(viper.GetBool("debug")); err != nil {
		panic(err)
	}
	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

type genesisAccount struct {
	Address string `mapstructure:"address"`
	Balance uint64 `mapstructure:"balance"`
}

func genesisAccounts() ([]ledger.Account, error) {
	cfgs := []genesisAccount{}
	if err := viper.UnmarshalKey("genesis.accounts", &cfgs); err != nil {
		return nil, err
	}
	res := make([]ledger.Account, 0, len(cfgs))
	for _, cfg := range cfgs {
		addr, err := domain.HexToAddress(cfg.Address)
		if err != nil {
			return nil, err
		}
		res = append(res, ledger.Account{Address: addr, Balance: cfg.Balance})
	}
	return res, nil
}

func main() {
	defer log.Sync()

	// init echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	var (
		mongoClient *mongoclient.Client
		redisSrv    redis.Service
		repo        ledger.Repo
	)

	switch backend := viper.GetString("ledger.backend"); backend {
	case backendMongo:
		context.Info("init mongo")
		mongoClient = mongoclient.MustConnectMongoClient(&mongoclient.MongoCfg{
			URI:                viper.GetString("mongo.uri"),
			AuthDBName:         viper.GetString("mongo.authDBName"),
			DBName:             viper.GetString("mongo.dbName"),
			SSL:                viper.GetBool("mongo.enableSSL"),
			SetSafe:            true,
			PoolSizeMultiplier: 2,
		})
		repo = ledger_repository.NewMongoRepo(query.New(mongoClient))
	case backendMemory, "":
		context.Warn("ledger kept in memory, state is lost on exit")
		repo = ledger_repository.NewMemoryRepo()
	default:
		log.Log().WithField("backend", backend).Panic("unknown ledger.backend")
	}

	// local layer first, redis behind it when configured
	cacheTTL := viper.GetDuration("cache.ttl")
	layers := []provider.Provider{primitive.NewPrimitive("ledger", viper.GetInt("cache.localSizeMB"))}
	if uri := viper.GetString("redis_cache.uri"); uri != "" {
		context.Info("init redis cache")
		redisCacheName := viper.GetString("redis_cache.name")
		redisCachePool := redisclient.MustConnectRedis(&redisclient.RedisCfg{
			URI:            uri,
			Password:       viper.GetString("redis_cache.password"),
			PoolMultiplier: viper.GetFloat64("redis_cache.poolMultiplier"),
			Retry:          true,
		})
		redisSrv = redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
			Src: redisCachePool,
		})
		layers = append(layers, redisCache.NewRedis(redisSrv))
	}
	layered := compound.NewCompound(layers)

	if cacheTTL > 0 {
		repo = ledger_repository.NewCachedRepo(&ledger_repository.CachedRepoCfg{
			Repo:   repo,
			Assets: cache.New(cache.ServiceConfig{Ttl: cacheTTL, Pfx: keys.PfxLedgerAsset, Cache: layered}),
			Apps:   cache.New(cache.ServiceConfig{Ttl: cacheTTL, Pfx: keys.PfxLedgerApp, Cache: layered}),
		})
	}

	ledgerUC := ledger_usecase.New(&ledger_usecase.LedgerUseCaseCfg{
		Repo: repo,
		Contracts: []ledger.Contract{
			enforcer_usecase.NewContract(),
			marketplace_usecase.NewContract(),
		},
	})

	accounts, err := genesisAccounts()
	if err != nil {
		log.Log().WithField("err", err).Panic("invalid genesis.accounts")
	}
	if len(accounts) > 0 {
		if err := ledgerUC.Genesis(context, accounts); err != nil {
			// a restarted mongo backend is already past genesis
			context.WithField("err", err).Warn("genesis skipped")
		}
	}

	hc := hc_usecase.New(&hc_usecase.HealthCheckUseCaseCfg{
		Repo:   hc_repo.New(mongoClient, redisSrv),
		Ledger: repo,
	})
	enforcerUC := enforcer_usecase.New(&enforcer_usecase.EnforcerUseCaseCfg{Ledger: ledgerUC})
	marketplaceUC := marketplace_usecase.New(&marketplace_usecase.MarketplaceUseCaseCfg{Ledger: ledgerUC})

	hc_delivery.New(e, hc)
	ledger_delivery.New(e, ledgerUC, layered)
	enforcer_delivery.New(e, enforcerUC)
	marketplace_delivery.New(e, marketplaceUC)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
