// Package introspect resolves a stored connection, decrypts its secret and
// produces a normalized schema snapshot. It never returns an error: every
// failure is reported inside the snapshot.
package introspect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dracory/mole/internal/adapters"
	"github.com/dracory/mole/internal/store"
	"github.com/dracory/mole/shared/constants"
	"github.com/dracory/mole/shared/sizes"
	"github.com/dracory/mole/shared/types"
	"github.com/samber/lo"
)

// RecordSource loads a record with its secret fields.
type RecordSource interface {
	GetFull(ctx context.Context, id string) (types.ConnectionRecord, error)
}

// Decrypter opens sealed secrets.
type Decrypter interface {
	Decrypt(ciphertext string) (string, error)
}

// Dispatcher runs the adapter matching an engine name.
type Dispatcher interface {
	Introspect(ctx context.Context, engineName string, cfg adapters.Config) adapters.Result
}

// Introspector turns connection ids into schema snapshots.
type Introspector struct {
	records    RecordSource
	decrypter  Decrypter
	dispatcher Dispatcher
	logger     *slog.Logger
}

// New returns an introspector. A nil logger falls back to slog.Default.
func New(records RecordSource, decrypter Decrypter, dispatcher Dispatcher, logger *slog.Logger) *Introspector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Introspector{
		records:    records,
		decrypter:  decrypter,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// FetchSchemaForConnection introspects the connection with the given id.
func (i *Introspector) FetchSchemaForConnection(ctx context.Context, id string) (snapshot types.SchemaSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			snapshot = failure(fmt.Sprintf("Failed to fetch database schema: %v", r))
		}
		i.logOutcome(id, snapshot)
	}()

	rec, err := i.records.GetFull(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return failure(constants.MessageConnectionNotFound)
	}
	if err != nil {
		return failure("Failed to fetch database schema: " + err.Error())
	}

	if rec.IsSample {
		return types.SchemaSnapshot{
			Success:      true,
			Message:      constants.MessageSampleSchema,
			Tables:       []types.TableInfo{},
			TableColumns: map[string][]types.ColumnInfo{},
			TotalSize:    constants.TotalSizeUnknown,
		}
	}

	password, err := i.password(rec)
	if err != nil {
		return failure(constants.MessageDecryptionFailed)
	}

	result := i.dispatcher.Introspect(ctx, rec.Engine, ConfigFor(rec, password))
	return Snapshot(result)
}

// password prefers the encrypted secret and falls back to the legacy
// plaintext column.
func (i *Introspector) password(rec types.ConnectionRecord) (string, error) {
	if rec.EncryptedPassword != "" {
		return i.decrypter.Decrypt(rec.EncryptedPassword)
	}
	return rec.Password, nil
}

func (i *Introspector) logOutcome(id string, snapshot types.SchemaSnapshot) {
	if snapshot.Success {
		i.logger.Debug("schema fetched",
			slog.String("connection_id", id),
			slog.Int("tables", len(snapshot.Tables)),
			slog.String("total_size", snapshot.TotalSize),
		)
		return
	}
	i.logger.Warn("schema fetch failed",
		slog.String("connection_id", id),
		slog.String("message", snapshot.Message),
	)
}

// ConfigFor builds adapter parameters from a record and its plaintext
// password.
func ConfigFor(rec types.ConnectionRecord, password string) adapters.Config {
	return adapters.Config{
		Host:       rec.Host,
		Port:       rec.Port,
		Database:   rec.Database,
		Username:   rec.Username,
		Password:   password,
		SSLEnabled: rec.SSLEnabled,
	}
}

// Snapshot converts an adapter result and computes the total size.
func Snapshot(result adapters.Result) types.SchemaSnapshot {
	if !result.Success {
		return failure(result.Message)
	}

	tables := result.Tables
	if tables == nil {
		tables = []types.TableInfo{}
	}
	columns := result.TableColumns
	if columns == nil {
		columns = map[string][]types.ColumnInfo{}
	}

	return types.SchemaSnapshot{
		Success:      true,
		Message:      result.Message,
		Tables:       tables,
		TableColumns: columns,
		TotalSize:    TotalSize(tables),
	}
}

// TotalSize sums the parseable table size labels. Unparseable labels count
// as zero; "N/A" is returned when nothing could be summed.
func TotalSize(tables []types.TableInfo) string {
	total := lo.SumBy(tables, func(t types.TableInfo) int64 {
		return sizes.ParseSize(t.SizeLabel)
	})
	if total == 0 {
		return constants.TotalSizeUnknown
	}
	return sizes.FormatSize(total)
}

func failure(message string) types.SchemaSnapshot {
	return types.SchemaSnapshot{
		Success:      false,
		Message:      message,
		Tables:       []types.TableInfo{},
		TableColumns: map[string][]types.ColumnInfo{},
		TotalSize:    constants.TotalSizeUnknown,
	}
}
