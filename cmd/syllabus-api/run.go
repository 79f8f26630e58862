package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/IBM/sarama"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apiserver "github.com/acadflow/syllabus-planner/internal/api_server"
	"github.com/acadflow/syllabus-planner/internal/config"
	"github.com/acadflow/syllabus-planner/internal/events"
	"github.com/acadflow/syllabus-planner/internal/service"
	"github.com/acadflow/syllabus-planner/internal/store"
	"github.com/acadflow/syllabus-planner/internal/tasks"
	"github.com/acadflow/syllabus-planner/pkg/log"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the syllabus api",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			zap.S().Fatalf("reading configuration: %v", err)
		}

		logLvl, err := zap.ParseAtomicLevel(cfg.Service.LogLevel)
		if err != nil {
			logLvl = zap.NewAtomicLevelAt(zap.InfoLevel)
		}

		logger := log.InitLog(logLvl)
		defer func() { _ = logger.Sync() }()

		undo := zap.ReplaceGlobals(logger)
		defer undo()

		zap.S().Info("Starting API service")
		defer zap.S().Info("API service stopped")

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalf("initializing data store: %v", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := s.InitialMigration(); err != nil {
			zap.S().Fatalf("running initial migration: %v", err)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		eventProducer := events.NewEventProducer(&events.StdoutWriter{})
		defer func() { _ = eventProducer.Close() }()

		queue, err := newTaskQueue(cfg)
		if err != nil {
			zap.S().Fatalf("initializing task queue: %v", err)
		}
		defer func() { _ = queue.Close() }()

		// result reconciliation runs beside the api server
		taskService := service.NewTaskService(s, queue)
		consumer := tasks.NewConsumer(queue, taskService.Reconcile)
		go consumer.Run(ctx)

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.Address)
			if err != nil {
				zap.S().Fatalf("creating listener: %s", err)
			}

			server := apiserver.New(cfg, s, listener, eventProducer, queue)
			if err := server.Run(ctx); err != nil {
				zap.S().Fatalf("Error running server: %s", err)
			}
		}()

		go func() {
			defer cancel()
			listener, err := newListener(cfg.Service.MetricsAddress)
			if err != nil {
				zap.S().Fatalf("creating metrics listener: %s", err)
			}

			metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener)
			if err := metricsServer.Run(ctx); err != nil {
				zap.S().Fatalf("Error running metrics server: %s", err)
			}
		}()

		<-ctx.Done()
		return nil
	},
}

// taskQueue is both sides of the task channel as one closable unit.
type taskQueue interface {
	tasks.Publisher
	tasks.ResultSource
}

// newTaskQueue picks kafka when brokers are configured and falls back to the
// in-process queue for single-node deployments.
func newTaskQueue(cfg *config.Config) (taskQueue, error) {
	if len(cfg.Service.Kafka.Brokers) == 0 {
		zap.S().Info("no kafka brokers configured, using in-process task queue")
		return tasks.NewChannelQueue(), nil
	}

	version := sarama.KafkaVersion{}
	if cfg.Service.Kafka.Version != "" {
		v, err := sarama.ParseKafkaVersion(cfg.Service.Kafka.Version)
		if err != nil {
			return nil, err
		}
		version = v
	}

	return tasks.NewKafkaQueue(tasks.KafkaConfig{
		Brokers:     cfg.Service.Kafka.Brokers,
		TaskTopic:   cfg.Service.Kafka.TaskTopic,
		ResultTopic: cfg.Service.Kafka.ResultTopic,
		ClientID:    cfg.Service.Kafka.ClientID,
		GroupID:     cfg.Service.Kafka.GroupID,
		Version:     version,
		Sarama:      cfg.Service.Kafka.SaramaConfig,
	})
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
