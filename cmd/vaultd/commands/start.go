package commands

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/cmd/vaultd/api"
	vaultd "github.com/iov-one/vault/cmd/vaultd/app"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/notify"
	"github.com/iov-one/vault/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func newStartCmd(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the ledger and serve the HTTP API",
		Long: `Open the ledger database and serve the HTTP API. A new database is
initialized from the genesis file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return st.start(ctx)
		},
	}
	fl := cmd.Flags()
	fl.String("db", "data/vault.db", "ledger database path, empty to keep the ledger in memory")
	fl.String("genesis", "genesis.json", "genesis file used to initialize a new ledger")
	fl.String("http", "localhost:8080", "HTTP API listen address")
	fl.String("redis-addr", "", "publish committed events to the Redis server at this address")
	fl.String("redis-stream", notify.DefaultStream, "Redis stream name")
	st.bind(cmd, "db", "db")
	st.bind(cmd, "genesis", "genesis")
	st.bind(cmd, "http", "http")
	st.bind(cmd, "redis.addr", "redis-addr")
	st.bind(cmd, "redis.stream", "redis-stream")
	return cmd
}

func (st *state) start(ctx context.Context) error {
	conf := st.conf
	logger := st.logger

	if conf.DB != "" {
		if err := os.MkdirAll(filepath.Dir(conf.DB), 0700); err != nil {
			return errors.Wrapf(errors.ErrInput, "database directory: %s", err)
		}
	}
	kv, err := vaultd.CommitKVStore(conf.DB)
	if err != nil {
		return err
	}
	if c, ok := kv.(interface{ Close() }); ok {
		defer c.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ledger, err := app.NewLedger(kv, vaultd.Stack(utils.NewMetrics(reg)), logger)
	if err != nil {
		return err
	}
	if ledger.ChainID() == "" {
		gen, err := app.LoadGenesis(conf.Genesis)
		if err != nil {
			return err
		}
		if err := ledger.InitChain(ctx, gen, vaultd.Initializers()); err != nil {
			return err
		}
	}

	ledger.Subscribe(notify.NewLogger(logger.With("module", "events")))
	if conf.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: conf.Redis.Addr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Wrapf(errors.ErrDatabase, "redis %s: %s", conf.Redis.Addr, err)
		}
		ledger.Subscribe(notify.NewRedisStream(client, conf.Redis.Stream, conf.Redis.MaxLen))
		logger.Info("publishing events", "redis", conf.Redis.Addr, "stream", conf.Redis.Stream)
	}

	srv := api.NewServer(ledger, reg, logger.With("module", "api"))
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start(conf.HTTP)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrapf(errors.ErrState, "shutdown: %s", err)
	}
	return <-errc
}
