package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/instrument-core/internal/address"
	"github.com/nerrad567/instrument-core/internal/api"
	"github.com/nerrad567/instrument-core/internal/cli"
	"github.com/nerrad567/instrument-core/internal/component"
	"github.com/nerrad567/instrument-core/internal/infrastructure/config"
	"github.com/nerrad567/instrument-core/internal/infrastructure/database"
	"github.com/nerrad567/instrument-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/instrument-core/internal/infrastructure/logging"
	"github.com/nerrad567/instrument-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/instrument-core/internal/instrument"
	"github.com/nerrad567/instrument-core/internal/naming"
	"github.com/nerrad567/instrument-core/internal/preset"
	"github.com/nerrad567/instrument-core/internal/runtime"
	"github.com/nerrad567/instrument-core/internal/telemetry"
	"github.com/nerrad567/instrument-core/internal/uplink"
	"github.com/nerrad567/instrument-core/migrations"
)

// healthCheckTimeout bounds the startup health checks.
const healthCheckTimeout = 5 * time.Second

// runtimeRef lets commands and the API report on a runtime that is built
// after them, since the runtime needs their bindings first.
type runtimeRef struct {
	rt *runtime.Runtime
}

func (r *runtimeRef) Stats() runtime.Stats     { return r.rt.Stats() }
func (r *runtimeRef) Status() []runtime.Status { return r.rt.Status() }
func (r *runtimeRef) Ready() bool              { return r.rt != nil && r.rt.Ready() }

// run is the application logic, separated from main for testability.
// It returns nil on a clean shutdown.
func run(ctx context.Context, configPath string, stdin io.Reader, stdout io.Writer) error {
	log := logging.Default()
	log.Info("starting instrument core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	session := uuid.NewString()
	log.Info("configuration loaded",
		"path", configPath,
		"instrument", cfg.Instrument.Name,
		"session", session,
	)

	table, err := buildTable(cfg.Addressing)
	if err != nil {
		return err
	}
	log.Info("component tree built",
		"nodes", table.Tree().Len(),
		"endpoints", table.Len(),
	)

	ref := &runtimeRef{}
	commands := cli.Builtins(table, ref)
	var bindings []runtime.Binding

	// Presets (optional)
	var repo preset.Repository
	if cfg.Presets.Enabled {
		db, err := openDatabase(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		repo = preset.NewSQLiteRepository(db)
		commands = append(commands, preset.Commands(repo, table, cfg.Instrument.Name)...)
	} else {
		log.Info("presets disabled")
	}

	// MQTT uplink (optional)
	var up *uplink.Uplink
	if cfg.MQTT.Enabled {
		client, err := connectMQTT(cfg, session, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := client.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		up = uplink.New(table, client, uplink.Options{
			Topics: client.Topics(),
			QoS:    byte(cfg.MQTT.QoS),
			Retain: cfg.MQTT.Retain,
		})
		up.SetLogger(log.With("component", "uplink"))
		bindings = append(bindings, up)
	} else {
		log.Info("MQTT disabled")
	}

	// InfluxDB telemetry (optional)
	var recorder *telemetry.Recorder
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		recorder = telemetry.New(table, influxClient, telemetry.Options{
			Instrument:  cfg.Instrument.Name,
			Session:     session,
			SampleEvery: cfg.InfluxDB.SampleEvery,
		})
		recorder.SetStats(ref)
		bindings = append(bindings, recorder)
	} else {
		log.Info("InfluxDB disabled")
	}

	// HTTP API (optional)
	var server *api.Server
	if cfg.API.Enabled {
		deps := api.Deps{
			Config:   cfg.API,
			WS:       cfg.WebSocket,
			Logger:   log.With("component", "api"),
			Table:    table,
			Runtime:  ref,
			Commands: commands,
			Version:  version,
			Session:  session,
		}
		if up != nil {
			deps.Uplink = up
		}
		server, err = api.New(deps)
		if err != nil {
			return fmt.Errorf("creating API server: %w", err)
		}
		bindings = append(bindings, server.Binding())
	} else {
		log.Info("API disabled")
	}

	// Console (optional). Registered last so its commands see this tick's
	// writes from every transport.
	var console *cli.Console
	if cfg.Console.Enabled {
		d, err := cli.NewDispatcher(stdout, commands...)
		if err != nil {
			return fmt.Errorf("building console: %w", err)
		}
		console = cli.NewConsole(d, stdin)
		console.SetLogger(log.With("component", "console"))
		bindings = append(bindings, console)
	}

	rt := runtime.New(table.Tree(), runtime.Options{
		FatalInit: cfg.Instrument.FatalInit,
		Bindings:  bindings,
	})
	rt.SetLogger(log.With("component", "runtime"))
	ref.rt = rt

	if err := rt.Setup(); err != nil {
		return fmt.Errorf("setting up runtime: %w", err)
	}
	for _, st := range rt.Status() {
		if st.InitErr != "" {
			log.Warn("component failed to initialise", "component", st.Name, "error", st.InitErr)
		}
	}

	// The runtime goroutine is not running yet, so the tree may be written here.
	if cfg.Presets.AutoLoad != "" {
		autoLoad(ctx, repo, table, cfg.Presets.AutoLoad, log)
	}

	if up != nil {
		if err := up.Start(ctx); err != nil {
			return fmt.Errorf("starting MQTT uplink: %w", err)
		}
	}
	if server != nil {
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("starting API server: %w", err)
		}
		defer func() {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	}
	if console != nil {
		console.Start(ctx)
	}

	if err := healthCheck(ctx, influxClient, server); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	log.Info("initialisation complete, running",
		"tick", cfg.TickInterval().String(),
		"bindings", len(bindings),
	)
	if err := rt.Run(ctx, cfg.TickInterval()); err != nil {
		return fmt.Errorf("running: %w", err)
	}

	stats := rt.Stats()
	log.Info("instrument stopped",
		"ticks", stats.Ticks,
		"overruns", stats.Overruns,
		"max_tick", stats.MaxTick.String(),
	)
	return nil
}

// addressStyle converts the addressing config into an address style.
func addressStyle(cfg config.AddressingConfig) (address.Style, error) {
	nc, ok := naming.ParseStyle(cfg.Case)
	if !ok {
		return address.Style{}, fmt.Errorf("unknown addressing case %q", cfg.Case)
	}
	style := address.Style{Naming: nc, Prefix: cfg.Prefix}
	if cfg.Delimiter != "" {
		style.Delimiter = []rune(cfg.Delimiter)[0]
	}
	if err := style.Validate(); err != nil {
		return address.Style{}, err
	}
	return style, nil
}

// buildTable builds the default instrument on simulated hardware and its address table.
func buildTable(cfg config.AddressingConfig) (*address.Table, error) {
	style, err := addressStyle(cfg)
	if err != nil {
		return nil, err
	}
	inst, _, _ := instrument.Simulated()
	tree, err := component.Build(inst)
	if err != nil {
		return nil, fmt.Errorf("building component tree: %w", err)
	}
	table, err := address.Build(tree, style)
	if err != nil {
		return nil, fmt.Errorf("building address table: %w", err)
	}
	return table, nil
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig, log *logging.Logger) (*database.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(ctx, migrations.FS); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database ready", "path", cfg.Path)
	return db, nil
}

// connectMQTT connects with a per-session client ID so that two hosts
// sharing a config do not take over each other's session.
func connectMQTT(cfg *config.Config, session string, log *logging.Logger) (*mqtt.Client, error) {
	mcfg := cfg.MQTT
	mcfg.Broker.ClientID = fmt.Sprintf("%s-%s", mcfg.Broker.ClientID, session[:8])

	client, err := mqtt.Connect(mcfg, mqtt.Topics{Instrument: cfg.Instrument.Name})
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log.With("component", "mqtt"))
	client.SetOnConnect(func() {
		log.Info("MQTT connected")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", mcfg.Broker.Host, mcfg.Broker.Port),
		"client_id", mcfg.Broker.ClientID,
		"topics", client.Topics().Root(),
	)
	return client, nil
}

// autoLoad applies the named preset. A missing preset is logged, not fatal,
// so a fresh database can still start.
func autoLoad(ctx context.Context, repo preset.Repository, table *address.Table, name string, log *logging.Logger) {
	res, err := preset.Load(ctx, repo, table, name)
	switch {
	case errors.Is(err, preset.ErrNotFound):
		log.Warn("auto-load preset not found", "preset", name)
		return
	case err != nil:
		log.Error("auto-load preset failed", "preset", name, "error", err)
		return
	}
	log.Info("preset loaded",
		"preset", name,
		"applied", res.Applied,
		"skipped", len(res.Skipped),
		"failed", len(res.Failed),
	)
	for addr, ferr := range res.Failed {
		log.Warn("preset value rejected", "preset", name, "address", addr, "error", ferr)
	}
}

func healthCheck(ctx context.Context, influxClient *influxdb.Client, server *api.Server) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	if server != nil {
		if err := server.HealthCheck(ctx); err != nil {
			return fmt.Errorf("api: %w", err)
		}
	}
	return nil
}
