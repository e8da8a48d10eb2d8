// Copyright 2025 Certen Protocol
//
// contractd wires the schema, persistence, and metrics/health surface a
// validator deployment needs around the pure pkg/validator core. At
// startup it optionally ingests one consignment document (pkg/consignment)
// off disk or stdin, walking it with validator.Extend and persisting the
// resulting contract state. It does not define a network wire protocol for
// submitting operation graphs on an ongoing basis (spec.md's Non-goals
// place "CLI and network transport" out of scope for the validator core);
// long-running embedders call pkg/validator.Extend directly and use this
// daemon's store and metrics registry as a starting point.

package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/certen/contract-validator/pkg/config"
	"github.com/certen/contract-validator/pkg/consignment"
	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/kvdb"
	"github.com/certen/contract-validator/pkg/schema"
	"github.com/certen/contract-validator/pkg/seal"
	"github.com/certen/contract-validator/pkg/store"
	"github.com/certen/contract-validator/pkg/validator"
)

// Metrics is the set of Prometheus collectors contractd exposes on
// MetricsAddr, named per the operations pkg/validator.Extend performs.
type Metrics struct {
	OperationsValidated prometheus.Counter
	Failures            prometheus.Counter
	UnspentEntries      prometheus.Gauge
}

// NewMetrics registers and returns the daemon's collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OperationsValidated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contractd_operations_validated_total",
			Help: "Total operations (genesis, transitions, extensions) processed by the graph walker.",
		}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contractd_failures_total",
			Help: "Total consensus-blocking failures recorded across all validation runs.",
		}),
		UnspentEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "contractd_unspent_entries",
			Help: "Current size of the most recently loaded contract's unspent map.",
		}),
	}
	reg.MustRegister(m.OperationsValidated, m.Failures, m.UnspentEntries)
	return m
}

// HealthStatus tracks component readiness for the /healthz endpoint.
type HealthStatus struct {
	Schema string // "loaded", "missing"
	Store  string // "open", "unavailable"

	startTime time.Time
}

func (h *HealthStatus) ready() bool {
	return h.Schema == "loaded" && h.Store == "open"
}

// ingestConsignment reads a consignment document from cfg.ConsignmentPath
// (or stdin, if "-"), walks it with validator.Extend, records the
// resulting operation/failure counts on metrics, and persists the final
// contract state.
func ingestConsignment(cfg *config.Config, sch *schema.Schema, stateStore *store.ContractStateStore, metrics *Metrics) error {
	var data []byte
	var err error
	if cfg.ConsignmentPath == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(cfg.ConsignmentPath)
	}
	if err != nil {
		return fmt.Errorf("read consignment: %w", err)
	}

	repo, err := consignment.Load(sch, data)
	if err != nil {
		return fmt.Errorf("decode consignment: %w", err)
	}
	checked := validator.NewCheckedRepository(repo)

	state := validator.NewStateFromGenesis(repo.Genesis(), sch.Id(), sch)
	st, err := validator.Extend(state, sch, checked, validator.EmbeddedVM{}, seal.NewChecker())
	if err != nil {
		return fmt.Errorf("extend contract %s: %w", state.ContractId, err)
	}

	metrics.OperationsValidated.Add(float64(repo.OperationCount()))
	metrics.Failures.Add(float64(len(st.Failures)))
	metrics.UnspentEntries.Set(float64(state.UnspentLen()))
	log.Printf("contractd: ingested contract %s: validity=%s operations=%d failures=%d warnings=%d",
		state.ContractId, st.Validity(), repo.OperationCount(), len(st.Failures), len(st.Warnings))

	if err := stateStore.Save(state); err != nil {
		return fmt.Errorf("persist contract state %s: %w", state.ContractId, err)
	}
	return nil
}

func parseContractID(s string) (contract.ContractId, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return contract.ContractId{}, fmt.Errorf("decode hex: %w", err)
	}
	if len(b) != 32 {
		return contract.ContractId{}, fmt.Errorf("expected 32 bytes, got %d", len(b))
	}
	var arr [32]byte
	copy(arr[:], b)
	return contract.ContractId(arr), nil
}

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var (
		schemaPath      = flag.String("schema-path", "", "path to the YAML schema definition (overrides CONTRACTD_SCHEMA_PATH)")
		validatorID     = flag.String("validator-id", "", "validator id for logging and metrics labels (overrides CONTRACTD_VALIDATOR_ID)")
		contractID      = flag.String("contract-id", "", "hex-encoded contract id to resume from a persisted snapshot at startup")
		consignmentPath = flag.String("consignment-path", "", "path to a consignment document to validate and ingest at startup, or \"-\" for stdin (overrides CONTRACTD_CONSIGNMENT_PATH)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *schemaPath != "" {
		cfg.SchemaPath = *schemaPath
	}
	if *validatorID != "" {
		cfg.ValidatorID = *validatorID
	}
	if *consignmentPath != "" {
		cfg.ConsignmentPath = *consignmentPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	health := &HealthStatus{Schema: "missing", Store: "unavailable", startTime: time.Now()}

	log.Printf("contractd %s: loading schema from %s", cfg.ValidatorID, cfg.SchemaPath)
	schemaBytes, err := os.ReadFile(cfg.SchemaPath)
	if err != nil {
		log.Fatalf("failed to read schema file: %v", err)
	}
	sch, err := schema.Load(schemaBytes)
	if err != nil {
		log.Fatalf("failed to parse schema: %v", err)
	}
	health.Schema = "loaded"
	log.Printf("contractd: schema %q loaded", sch.Name)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}
	db, err := dbm.NewGoLevelDB("contractd-state", cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to open contract-state database: %v", err)
	}
	defer db.Close()
	kv := kvdb.NewKVAdapter(db)
	stateStore := store.NewContractStateStore(kv)
	health.Store = "open"

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	if *contractID != "" {
		id, err := parseContractID(*contractID)
		if err != nil {
			log.Fatalf("invalid --contract-id: %v", err)
		}
		resumed, err := stateStore.Load(id)
		switch {
		case err == store.ErrNotFound:
			log.Printf("contractd: no persisted snapshot for contract %s, starting fresh", id)
		case err != nil:
			log.Fatalf("failed to load persisted contract state: %v", err)
		default:
			metrics.UnspentEntries.Set(float64(resumed.UnspentLen()))
			log.Printf("contractd: resumed contract %s with %d unspent entries", id, resumed.UnspentLen())
		}
	}

	if cfg.ConsignmentPath != "" {
		if err := ingestConsignment(cfg, sch, stateStore, metrics); err != nil {
			log.Fatalf("failed to ingest consignment: %v", err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if health.ready() {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		w.Header().Set("Content-Type", "application/json")
		body := fmt.Sprintf(`{"schema":"%s","store":"%s","uptime_seconds":%d}`,
			health.Schema, health.Store, int64(time.Since(health.startTime).Seconds()))
		_, _ = w.Write([]byte(body))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	httpServer := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	go func() {
		log.Printf("contractd: metrics/health server listening on %s", cfg.MetricsAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("contractd: shutting down")
	_ = httpServer.Close()
}
