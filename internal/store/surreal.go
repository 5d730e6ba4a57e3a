package store

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/contrib/rews"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/pkg/logger"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/surrealdb/surrealdb.go/surrealcbor"
)

func init() {
	// Force HTTP/1.1 for WSS connections to prevent HTTP/2 ALPN negotiation.
	// WebSocket upgrade requires HTTP/1.1 semantics which fail under HTTP/2.
	gorillaws.DefaultDialer.TLSClientConfig = &tls.Config{
		NextProtos: []string{"http/1.1"},
	}
}

// SurrealConfig holds SurrealDB connection configuration.
type SurrealConfig struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
	AuthLevel string // "root" or "database"
}

// Surreal is the SurrealDB-backed DocumentStore. Folders and documents live
// in two tables keyed by (parent, name).
type Surreal struct {
	conn   *rews.Connection[*gorillaws.Connection]
	db     *surrealdb.DB
	cfg    SurrealConfig
	logger logger.Logger
}

// Compile-time check that Surreal implements DocumentStore.
var _ DocumentStore = (*Surreal)(nil)

// schemaSQL defines the resource tree tables.
const schemaSQL = `
    DEFINE TABLE IF NOT EXISTS folder SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON folder TYPE string;
    DEFINE FIELD IF NOT EXISTS parent ON folder TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS created ON folder TYPE datetime DEFAULT time::now();
    DEFINE INDEX IF NOT EXISTS folder_parent_name ON folder FIELDS parent, name;

    DEFINE TABLE IF NOT EXISTS document SCHEMAFULL;
    DEFINE FIELD IF NOT EXISTS name ON document TYPE string;
    DEFINE FIELD IF NOT EXISTS parent ON document TYPE option<string>;
    DEFINE FIELD IF NOT EXISTS content ON document TYPE string DEFAULT "";
    DEFINE FIELD IF NOT EXISTS created ON document TYPE datetime DEFAULT time::now();
    DEFINE FIELD IF NOT EXISTS updated ON document TYPE datetime DEFAULT time::now();
    DEFINE INDEX IF NOT EXISTS document_parent_name ON document FIELDS parent, name;
`

// treeRecord is the row shape shared by both tables.
type treeRecord struct {
	ID      surrealmodels.RecordID `json:"id"`
	Name    string                 `json:"name"`
	Parent  *string                `json:"parent,omitempty"`
	Content string                 `json:"content,omitempty"`
}

// NewSurreal creates a SurrealDB store with an auto-reconnecting WebSocket
// connection and initializes the schema.
func NewSurreal(ctx context.Context, cfg SurrealConfig, log *slog.Logger) (*Surreal, error) {
	var sdkLogger logger.Logger
	if log != nil {
		sdkLogger = logger.New(log.Handler())
	} else {
		sdkLogger = logger.New(slog.Default().Handler())
	}

	// surrealcbor handles SurrealDB custom CBOR tags.
	codec := surrealcbor.New()

	// gorillaws requires ws:// or wss:// URL without /rpc suffix (it adds /rpc internally)
	baseURL := strings.TrimSuffix(cfg.URL, "/rpc")

	conn := rews.New(
		func(ctx context.Context) (*gorillaws.Connection, error) {
			ws := gorillaws.New(&connection.Config{
				BaseURL:     baseURL,
				Marshaler:   codec,
				Unmarshaler: codec,
				Logger:      sdkLogger,
			})
			return ws, nil
		},
		5*time.Second,
		codec,
		sdkLogger,
	)

	retryer := rews.NewExponentialBackoffRetryer()
	retryer.InitialDelay = 1 * time.Second
	retryer.MaxDelay = 30 * time.Second
	retryer.Multiplier = 2.0
	retryer.MaxRetries = 10
	conn.Retryer = retryer

	sdkLogger.Info("connecting to SurrealDB", "url", cfg.URL)
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	db, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("from connection: %w", err)
	}

	if cfg.AuthLevel == "database" {
		_, err = db.SignIn(ctx, surrealdb.Auth{
			Namespace: cfg.Namespace,
			Database:  cfg.Database,
			Username:  cfg.Username,
			Password:  cfg.Password,
		})
	} else {
		_, err = db.SignIn(ctx, surrealdb.Auth{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
	if err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("signin: %w", err)
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("use: %w", err)
	}

	s := &Surreal{conn: conn, db: db, cfg: cfg, logger: sdkLogger}
	if err := s.initSchema(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, err
	}

	sdkLogger.Info("SurrealDB connection established")
	return s, nil
}

// Close closes the SurrealDB connection.
func (s *Surreal) Close(ctx context.Context) error {
	s.logger.Info("closing SurrealDB connection")
	return s.conn.Close(ctx)
}

func (s *Surreal) initSchema(ctx context.Context) error {
	if _, err := surrealdb.Query[any](ctx, s.db, schemaSQL, nil); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// parentVar maps the interface's "" root parent onto the option<string> field.
func parentVar(parentID string) any {
	if parentID == "" {
		return nil
	}
	return parentID
}

func (s *Surreal) findByName(ctx context.Context, table, name, parentID string) (string, error) {
	sql := fmt.Sprintf(`SELECT * FROM %s WHERE name = $name AND parent = $parent LIMIT 1`, table)
	results, err := surrealdb.Query[[]treeRecord](ctx, s.db, sql, map[string]any{
		"name":   name,
		"parent": parentVar(parentID),
	})
	if err != nil {
		return "", fmt.Errorf("find %s: %w", table, err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return "", nil
	}
	return recordIDString((*results)[0].Result[0].ID)
}

func (s *Surreal) createChild(ctx context.Context, table, name, parentID string) (string, error) {
	sql := fmt.Sprintf(`CREATE %s SET name = $name, parent = $parent`, table)
	results, err := surrealdb.Query[[]treeRecord](ctx, s.db, sql, map[string]any{
		"name":   name,
		"parent": parentVar(parentID),
	})
	if err != nil {
		return "", fmt.Errorf("create %s: %w", table, err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return "", fmt.Errorf("create %s: no record returned", table)
	}
	return recordIDString((*results)[0].Result[0].ID)
}

// FindFolder returns the ID of a folder child by exact name, or "".
func (s *Surreal) FindFolder(ctx context.Context, name, parentID string) (string, error) {
	return s.findByName(ctx, "folder", name, parentID)
}

// CreateFolder creates a folder under the given parent.
func (s *Surreal) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	return s.createChild(ctx, "folder", name, parentID)
}

// FindDocument returns the ID of a document child by exact name, or "".
func (s *Surreal) FindDocument(ctx context.Context, name, parentID string) (string, error) {
	return s.findByName(ctx, "document", name, parentID)
}

// CreateDocument creates an empty document under the given parent.
func (s *Surreal) CreateDocument(ctx context.Context, name, parentID string) (string, error) {
	return s.createChild(ctx, "document", name, parentID)
}

// ReadContent returns the content of a document.
func (s *Surreal) ReadContent(ctx context.Context, id string) (string, error) {
	results, err := surrealdb.Query[[]treeRecord](ctx, s.db, `
		SELECT * FROM type::record("document", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return "", fmt.Errorf("read document %s: %w", id, ErrNotFound)
	}
	return (*results)[0].Result[0].Content, nil
}

// WriteContent replaces the full content of a document.
func (s *Surreal) WriteContent(ctx context.Context, id, content string) error {
	results, err := surrealdb.Query[[]treeRecord](ctx, s.db, `
		UPDATE type::record("document", $id) SET content = $content, updated = time::now()
	`, map[string]any{"id": id, "content": content})
	if err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return fmt.Errorf("write document %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListChildren returns the direct children (folders then documents) of a folder.
func (s *Surreal) ListChildren(ctx context.Context, id string) ([]Entry, error) {
	var entries []Entry

	for _, table := range []string{"folder", "document"} {
		sql := fmt.Sprintf(`SELECT * FROM %s WHERE parent = $parent ORDER BY name`, table)
		results, err := surrealdb.Query[[]treeRecord](ctx, s.db, sql, map[string]any{
			"parent": parentVar(id),
		})
		if err != nil {
			return nil, fmt.Errorf("list %s children: %w", table, err)
		}
		if results == nil || len(*results) == 0 {
			continue
		}

		typ := TypeFolder
		if table == "document" {
			typ = TypeDocument
		}
		for _, rec := range (*results)[0].Result {
			recID, err := recordIDString(rec.ID)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{ID: recID, Name: rec.Name, Type: typ})
		}
	}

	return entries, nil
}

// recordIDString safely extracts the string ID from a SurrealDB RecordID.
func recordIDString(id surrealmodels.RecordID) (string, error) {
	str, ok := id.ID.(string)
	if !ok {
		return "", fmt.Errorf("unexpected ID type: %T (expected string)", id.ID)
	}
	return str, nil
}
