package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-storefront/internal/analytics"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	"github.com/ariefcatur/go-storefront/internal/invoices"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/loyalty"
	"github.com/ariefcatur/go-storefront/internal/media"
	"github.com/ariefcatur/go-storefront/internal/newsletter"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/payments"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/refunds"
	"github.com/ariefcatur/go-storefront/internal/reviews"
	"github.com/ariefcatur/go-storefront/internal/search"
	"github.com/ariefcatur/go-storefront/internal/sms"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.IsProduction(), cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer, satu writer untuk semua topic
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024, log.Named("kafka"))
	prod.Start(ctx)

	stripe := payments.NewStripe(cfg.StripeKey, cfg.StripeSuccessURL, cfg.StripeCancelURL)

	orderSvc := &orders.Service{
		Store:    &orders.Repo{DB: db},
		Redis:    rdb,
		Events:   prod,
		Producer: cfg.ServiceName,
		Log:      log.Named("orders"),
	}
	invoiceSvc := &invoices.Service{
		Orders:   orderSvc,
		Events:   prod,
		Producer: cfg.ServiceName,
		Shop:     cfg.ShopName,
		Currency: cfg.Currency,
	}

	cld, err := media.NewCloudinary(cfg.CloudinaryURL)
	if err != nil {
		log.Fatal("cloudinary", zap.Error(err))
	}
	mediaSvc := &media.Service{Log: log.Named("media")}
	if cld != nil {
		mediaSvc.Manager = cld
	} else {
		log.Warn("CLOUDINARY_URL not set, media actions disabled")
	}

	router := httpx.NewRouter(httpx.Deps{
		Orders:    orderSvc,
		Analytics: &analytics.Service{Store: &analytics.Repo{DB: db}},
		Invoices:  invoiceSvc,
		Reviews:   reviews.NewService(&reviews.Repo{DB: db}),
		Checkout: &checkout.Service{
			Orders:   orderSvc,
			Gateway:  stripe,
			Currency: cfg.Currency,
		},
		Refunds: &refunds.Service{
			Store:    &refunds.Repo{DB: db},
			Orders:   orderSvc,
			Gateway:  stripe,
			Redis:    rdb,
			Events:   prod,
			Producer: cfg.ServiceName,
			Log:      log.Named("refunds"),
		},
		Loyalty: &loyalty.Service{
			Store:    &loyalty.Repo{DB: db},
			Redis:    rdb,
			Events:   prod,
			Producer: cfg.ServiceName,
			Log:      log.Named("loyalty"),
		},
		Newsletter: &newsletter.Service{Store: &newsletter.Repo{DB: db}},
		SMS: &sms.Service{
			Provider: sms.NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom),
			Store:    &sms.Repo{DB: db},
			Log:      log.Named("sms"),
		},
		Search: &search.Service{
			Store: &search.Repo{DB: db},
			Redis: rdb,
			Log:   log.Named("search"),
		},
		Media:       mediaSvc,
		AdminSecret: cfg.AdminJWTSecret,
		Log:         log.Named("http"),
	})
	if cfg.AdminJWTSecret == "" {
		log.Warn("ADMIN_JWT_SECRET not set, admin routes will reject every request")
	}

	// HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	prod.Close()      // tutup inbox -> flush & close writer
	prod.WaitClosed() // drain
	cancel()
}
