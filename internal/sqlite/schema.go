package sqlite

// Schema DDL for the local mirror. Times are stored as RFC 3339 TEXT in UTC.
const (
	createBatches = `CREATE TABLE IF NOT EXISTS batches (
    id INTEGER PRIMARY KEY,
    system TEXT NOT NULL,
    state TEXT NOT NULL DEFAULT '',
    process_date TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    processed INTEGER NOT NULL DEFAULT 0
);`

	createProcesses = `CREATE TABLE IF NOT EXISTS processes (
    id INTEGER PRIMARY KEY,
    batch_id INTEGER NOT NULL,
    comarca TEXT NOT NULL DEFAULT '',
    foro TEXT NOT NULL DEFAULT '',
    vara TEXT NOT NULL DEFAULT '',
    classe TEXT NOT NULL DEFAULT '',
    processo TEXT NOT NULL,
    valor REAL,
    requerido TEXT,
    contato TEXT NOT NULL DEFAULT '',
    contato_realizado INTEGER NOT NULL DEFAULT 0,
    observacoes TEXT NOT NULL DEFAULT '',
    processed INTEGER NOT NULL DEFAULT 0,
    error_count INTEGER NOT NULL DEFAULT 0,
    last_error TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createSyncRuns = `CREATE TABLE IF NOT EXISTS sync_runs (
    run_id TEXT PRIMARY KEY,
    started_at TEXT NOT NULL,
    finished_at TEXT,
    batches INTEGER NOT NULL DEFAULT 0,
    processes INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT ''
);`
)

// Index DDL for the listing filters.
const (
	idxProcessesBatch     = `CREATE INDEX IF NOT EXISTS idx_processes_batch ON processes(batch_id);`
	idxProcessesProcesso  = `CREATE INDEX IF NOT EXISTS idx_processes_processo ON processes(processo);`
	idxProcessesProcessed = `CREATE INDEX IF NOT EXISTS idx_processes_processed ON processes(processed);`
	idxBatchesSystem      = `CREATE INDEX IF NOT EXISTS idx_batches_system ON batches(system);`
	idxSyncRunsStarted    = `CREATE INDEX IF NOT EXISTS idx_sync_runs_started ON sync_runs(started_at);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createBatches,
	createProcesses,
	createSyncRuns,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxProcessesBatch,
	idxProcessesProcesso,
	idxProcessesProcessed,
	idxBatchesSystem,
	idxSyncRunsStarted,
}
