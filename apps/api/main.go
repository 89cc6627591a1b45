package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/phronisis/apps/api/echo"
	"github.com/trezcool/phronisis/core"
	"github.com/trezcool/phronisis/core/artifact"
	"github.com/trezcool/phronisis/core/content"
	"github.com/trezcool/phronisis/core/event"
	"github.com/trezcool/phronisis/core/progress"
	"github.com/trezcool/phronisis/core/review"
	"github.com/trezcool/phronisis/core/user"
	emailsvc "github.com/trezcool/phronisis/services/email"
	logsvc "github.com/trezcool/phronisis/services/logger"
	"github.com/trezcool/phronisis/services/metrics"
	"github.com/trezcool/phronisis/storage/database"
	"github.com/trezcool/phronisis/storage/database/sqlxrepos"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()

	// set up metrics
	metricsMgr := metrics.NewManager()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger, conf)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc, conf)
	eventSvc := event.NewService(sqlxrepos.NewEventRepository(db), logger, metricsMgr)

	contentSvc, err := content.NewService(content.NewLoader(conf.ContentDir, logger), logger, metricsMgr)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading perspective catalog: %v", err), err)
	}

	progressSvc := progress.NewService(sqlxrepos.NewProgressRepository(db), contentSvc, eventSvc)
	artifactSvc := artifact.NewService(sqlxrepos.NewArtifactRepository(db), contentSvc, eventSvc)
	reviewSvc := review.NewService(
		sqlxrepos.NewReviewRepository(db), artifactSvc, progressSvc, usrSvc, eventSvc, mailSvc, conf,
	)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// =========================================================================
	// Start Content Watcher

	watchCtx, stopWatcher := context.WithCancel(context.Background())
	defer stopWatcher()

	go func() {
		if err := contentSvc.Watch(watchCtx); err != nil && err != context.Canceled {
			logger.Error(fmt.Sprintf("content watcher stopped: %v", err), err)
		}
	}()

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	http.Handle("/metrics", metricsMgr.Handler())

	go func() {
		if err = http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			Validate:    validate,
			Translator:  translator,
			Metrics:     metricsMgr,
			UserSvc:     usrSvc,
			ContentSvc:  contentSvc,
			ProgressSvc: progressSvc,
			ArtifactSvc: artifactSvc,
			ReviewSvc:   reviewSvc,
			EventSvc:    eventSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))
		stopWatcher()

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
