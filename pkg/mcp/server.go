package mcp

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	trackerpkg "github.com/iloveparkjisung/Database-Assesment/pkg"
	pkgdb "github.com/iloveparkjisung/Database-Assesment/pkg/db"
	"github.com/iloveparkjisung/Database-Assesment/pkg/records"
	"github.com/iloveparkjisung/Database-Assesment/pkg/utils"
)

type TrackerMCPServer struct {
	mcpServer *server.MCPServer
	db        *sql.DB
	tracker   *records.Tracker
	logger    *log.Logger
	DbPath    string
}

// NewTrackerMCPServer spins up an MCP server backed by the tracker's SQLite
// database at dbPath, or its default location when dbPath is empty.
func NewTrackerMCPServer(dbPath string, tracker *records.Tracker, walMode bool, syncMode string, logger *log.Logger) (*TrackerMCPServer, error) {
	dbPath, err := utils.ResolveAndEnsureDBPath(dbPath, tracker.DBFile)
	if err != nil {
		return nil, err
	}

	// Create base MCP server.
	s := server.NewMCPServer(
		tracker.Title+" MCP Server",
		trackerpkg.Version,
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
		server.WithRecovery(),
	)

	dbConn, err := pkgdb.OpenDBConnection(dbPath, walMode, syncMode)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Automatically initialize or migrate the database schema.
	if err := pkgdb.UpgradeDB(dbConn, tracker.Component, dbPath, pkgdb.TargetSchemaVersion, logger); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", dbPath, err)
	}

	return &TrackerMCPServer{
		mcpServer: s,
		db:        dbConn,
		tracker:   tracker,
		logger:    logger,
		DbPath:    dbPath,
	}, nil
}

// ToolNames lists the tools added by RegisterTools.
var ToolNames = []string{"ping", "list_views", "show_view", "show_all", "list_filters", "filter", "lookup_values", "add_record"}

// RegisterTools adds every tracker tool to the server.
func (s *TrackerMCPServer) RegisterTools() {
	RegisterPingTool(s.mcpServer)
	RegisterListViewsTool(s.mcpServer, s.tracker)
	RegisterShowViewTool(s.mcpServer, s.db, s.tracker)
	RegisterShowAllTool(s.mcpServer, s.db, s.tracker)
	RegisterListFiltersTool(s.mcpServer, s.tracker)
	RegisterFilterTool(s.mcpServer, s.db, s.tracker)
	RegisterLookupValuesTool(s.mcpServer, s.db, s.tracker)
	RegisterAddRecordTool(s.mcpServer, s.db, s.tracker)
}

// Start runs the stdio event loop. Make sure to register tools beforehand.
func (s *TrackerMCPServer) Start() error {
	return server.ServeStdio(s.mcpServer)
}

// DB returns the underlying *sql.DB.
func (s *TrackerMCPServer) DB() *sql.DB {
	return s.db
}

// Close cleans up allocated resources.
func (s *TrackerMCPServer) Close() error {
	if s.db != nil {
		// TRUNCATE mode waits for transactions and writes the WAL back to the main DB.
		if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
			s.logger.Printf("[WARN] WAL checkpoint failed during close: %v\n", err)
		}
		return s.db.Close()
	}
	return nil
}
