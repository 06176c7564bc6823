package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/kcz17/reactiontime/config"
	"github.com/kcz17/reactiontime/controller"
	"github.com/kcz17/reactiontime/logging"
	"github.com/kcz17/reactiontime/reactioncollector"
	"github.com/kcz17/reactiontime/serving"
	"github.com/kcz17/reactiontime/sharing"
	"github.com/kcz17/reactiontime/stimulus"
)

func main() {
	conf := config.ReadConfig()
	sessionID := uuid.New().String()

	var logger logging.Logger
	switch *conf.Logging.Driver {
	case "noop":
		logger = logging.NewNoopLogger()
	case "stdout":
		logger = logging.NewStdoutLogger()
	case "influxdb":
		logger = logging.NewInfluxDBLogger(
			*conf.Logging.InfluxDB.Host,
			*conf.Logging.InfluxDB.Token,
			*conf.Logging.InfluxDB.Org,
			*conf.Logging.InfluxDB.Bucket,
			sessionID,
		)
	default:
		log.Fatalf("expected logging.driver one of {noop|stdout|influxdb}; got %s", *conf.Logging.Driver)
	}

	var collector reactioncollector.Collector
	switch *conf.Collector.Driver {
	case "array":
		collector = reactioncollector.NewArrayCollector()
	case "tachymeter":
		collector = reactioncollector.NewTachymeterCollector(*conf.Collector.Window)
	default:
		log.Fatalf("expected collector.driver one of {array|tachymeter}; got %s", *conf.Collector.Driver)
	}

	scheduler, err := stimulus.NewScheduler(
		stimulus.NewUniformSource(*conf.Stimulus.Seed),
		stimulus.NewRealtimeTimers(),
		time.Duration(*conf.Stimulus.MinDelayMs)*time.Millisecond,
		time.Duration(*conf.Stimulus.MaxDelayMs)*time.Millisecond,
	)
	if err != nil {
		log.Fatalf("expected stimulus.NewScheduler() returns nil err; got err = %v", err)
	}

	clock := controller.NewRealtimeClock()
	sessionController := controller.NewSessionController(&controller.Options{
		Scheduler:    scheduler,
		Clock:        clock,
		Collector:    collector,
		Logger:       logger,
		ShareBaseURL: *conf.Serving.ShareBaseURL,
		SessionID:    sessionID,
	})

	// An invalid token is reported and the session starts empty.
	if conf.Session.ShareURL != nil {
		state, err := sharing.Decode(*conf.Session.ShareURL)
		if err != nil {
			log.Printf("could not load shared session from %s: err = %v", *conf.Session.ShareURL, err)
		} else if state != nil {
			if err := sessionController.Hydrate(state); err != nil {
				log.Fatalf("expected Hydrate() on a new session returns nil err; got err = %v", err)
			}
			log.Printf("loaded %d reactions and %d errors from shared session", len(state.Reactions), state.ErrorCount)
		}
	}

	reportingLoop := serving.NewReportingLoop(sessionController, logger, time.Duration(*conf.Reporting.IntervalSeconds)*time.Second)
	if err := reportingLoop.Start(); err != nil {
		log.Fatalf("expected ReportingLoop.Start() returns nil err; got err = %v", err)
	}

	api := serving.NewAPIServer(sessionController, clock)
	addr := fmt.Sprintf(":%d", *conf.Serving.Port)
	go func() {
		log.Printf("session %s listening on %s\n", sessionID, addr)
		if err := api.ListenAndServe(addr); err != nil {
			log.Fatalf("error serving api: %v", err)
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	sig := <-signals
	log.Printf("received %v, shutting down\n", sig)
	shutdown(api, reportingLoop, logger)
}

type shutdowner interface {
	Shutdown() error
}

type stopper interface {
	Stop() error
}

// shutdown stops every event source before closing the logger, as no event
// may be logged after Close.
func shutdown(api shutdowner, reportingLoop stopper, logger logging.Logger) {
	if err := api.Shutdown(); err != nil {
		log.Printf("expected APIServer.Shutdown() returns nil err; got err = %v", err)
	}
	if err := reportingLoop.Stop(); err != nil {
		log.Printf("expected ReportingLoop.Stop() returns nil err; got err = %v", err)
	}
	logger.Close()
}
