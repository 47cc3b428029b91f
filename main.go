package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/caravel-labs/indexmirror/admin"
	"github.com/caravel-labs/indexmirror/badgerstore"
	"github.com/caravel-labs/indexmirror/bleve"
	"github.com/caravel-labs/indexmirror/cdb"
	"github.com/caravel-labs/indexmirror/dispatch"
	"github.com/caravel-labs/indexmirror/elasticsearch"
	"github.com/caravel-labs/indexmirror/entity"
	"github.com/caravel-labs/indexmirror/graph"
	"github.com/caravel-labs/indexmirror/index"
	"github.com/caravel-labs/indexmirror/inmem"
	"github.com/caravel-labs/indexmirror/propagate"
	"github.com/caravel-labs/indexmirror/service"
	"github.com/sirupsen/logrus"
)

var (
	appName = "indexmirror"
	appSha  = "populated-at-link-time"
)

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	logger := rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
	})

	if err := runMain(logger); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		return
	}
	logger.Info("shutdown complete")
}

func runMain(logger *logrus.Entry) error {
	svcGroup, err := setupServices(logger)
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			logger.WithField("signal", s.String()).Infof("shutting down due to signal")
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return svcGroup.Run(ctx)
}

func setupServices(logger *logrus.Entry) (service.Group, error) {
	var dispatchCfg dispatch.Config
	flag.IntVar(&dispatchCfg.Workers, "dispatch-num-workers", runtime.NumCPU(), "The number of workers to use for processing mutation events (defaults to number of CPUs)")
	flag.IntVar(&dispatchCfg.QueueSize, "dispatch-queue-size", 128, "The capacity of the mutation event queue")
	flag.IntVar(&dispatchCfg.MaxAttempts, "dispatch-max-attempts", 3, "The number of times an event is attempted before it is dropped")
	flag.DurationVar(&dispatchCfg.RetryInterval, "dispatch-retry-interval", 5*time.Second, "The delay between attempts for a failed event")

	purgeBatchSize := flag.Int("purge-batch-size", 25, "The number of version-log entries purged per store round-trip")
	adminListenAddr := flag.String("admin-listen-addr", ":8080", "The address to listen for incoming admin requests")

	storeURI := flag.String("store-uri", "in-memory://", "The URI for connecting to the entity store and graph (supported URIs: in-memory://, badger:///path, postgresql://user@host:26257/indexmirror?sslmode=disable)")
	indexURI := flag.String("index-uri", "in-memory://", "The URI for connecting to the search index (supported URIs: in-memory://, bleve:///path, es://node1:9200,...,nodeN:9200)")
	flag.Parse()

	stores, graphs, err := getBackend(*storeURI, logger)
	if err != nil {
		return nil, err
	}
	writer, err := getWriter(*indexURI, logger)
	if err != nil {
		return nil, err
	}

	prop, err := propagate.NewPropagator(propagate.Config{
		Entities:       stores,
		Graphs:         graphs,
		Sink:           index.NewService(),
		PurgeBatchSize: *purgeBatchSize,
		Logger:         logger.WithField("component", "propagator"),
	})
	if err != nil {
		return nil, err
	}

	var svcGroup service.Group

	dispatchCfg.Propagator = prop
	dispatchCfg.Writer = writer
	dispatchCfg.Logger = logger.WithField("service", "dispatch")
	dispatchSvc, err := dispatch.NewService(dispatchCfg)
	if err != nil {
		return nil, err
	}
	svcGroup = append(svcGroup, dispatchSvc)

	adminSvc, err := admin.NewService(admin.Config{
		ListenAddr: *adminListenAddr,
		Dispatch:   dispatchSvc,
		Logger:     logger.WithField("service", "admin"),
	})
	if err != nil {
		return nil, err
	}
	svcGroup = append(svcGroup, adminSvc)

	return svcGroup, nil
}

func getBackend(storeURI string, logger *logrus.Entry) (entity.StoreOpener, graph.Opener, error) {
	if storeURI == "" {
		return nil, nil, fmt.Errorf("store URI must be specified with --store-uri")
	}

	uri, err := url.Parse(storeURI)
	if err != nil {
		return nil, nil, fmt.Errorf("could not parse store URI: %w", err)
	}

	switch uri.Scheme {
	case "in-memory":
		logger.Info("using in-memory store and graph")
		backend := inmem.NewBackend()
		return backend, backend, nil
	case "badger":
		logger.Info("using badger store and graph")
		backend, err := badgerstore.NewBackend(badgerstore.Config{
			Path:       uri.Path,
			SyncWrites: true,
			Logger:     logger.WithField("component", "badger"),
		})
		if err != nil {
			return nil, nil, err
		}
		return backend, backend, nil
	case "postgresql":
		logger.Info("using CDB store and graph")
		backend, err := cdb.NewBackend(storeURI)
		if err != nil {
			return nil, nil, err
		}
		return backend, backend, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store URI scheme: %q", uri.Scheme)
	}
}

func getWriter(indexURI string, logger *logrus.Entry) (index.Writer, error) {
	if indexURI == "" {
		return nil, fmt.Errorf("index URI must be specified with --index-uri")
	}

	uri, err := url.Parse(indexURI)
	if err != nil {
		return nil, fmt.Errorf("could not parse index URI: %w", err)
	}

	switch uri.Scheme {
	case "in-memory":
		logger.Info("using in-memory index writer")
		return bleve.NewWriter()
	case "bleve":
		logger.Info("using bleve index writer")
		return bleve.OpenWriter(uri.Path)
	case "es":
		nodes := strings.Split(uri.Host, ",")
		for i := 0; i < len(nodes); i++ {
			nodes[i] = "http://" + nodes[i]
		}
		logger.Info("using ES index writer")
		return elasticsearch.NewWriter(nodes, false)
	default:
		return nil, fmt.Errorf("unsupported index URI scheme: %q", uri.Scheme)
	}
}
