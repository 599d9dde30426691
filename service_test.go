package mole_test

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dracory/mole"
	"github.com/dracory/mole/internal/adapters"
	"github.com/dracory/mole/internal/store"
	"github.com/dracory/mole/shared/cipher"
	"github.com/dracory/mole/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubDispatcher answers every introspection with result and records the
// credentials it was given.
type stubDispatcher struct {
	mu      sync.Mutex
	result  adapters.Result
	delay   time.Duration
	configs []adapters.Config
	engines []string

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (d *stubDispatcher) Introspect(_ context.Context, engineName string, cfg adapters.Config) adapters.Result {
	n := d.inFlight.Add(1)
	defer d.inFlight.Add(-1)
	for {
		m := d.maxInFlight.Load()
		if n <= m || d.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	if d.delay > 0 {
		time.Sleep(d.delay)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.configs = append(d.configs, cfg)
	d.engines = append(d.engines, engineName)
	return d.result
}

func (d *stubDispatcher) lastConfig() adapters.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.configs[len(d.configs)-1]
}

func okResult() adapters.Result {
	return adapters.Result{
		Success: true,
		Tables: []types.TableInfo{
			{Name: "users", Type: types.TableTypeTable, SizeLabel: "64 KB"},
			{Name: "orders", Type: types.TableTypeTable, SizeLabel: "64 KB"},
		},
		TableColumns: map[string][]types.ColumnInfo{"users": {{Name: "id", KeyRole: "PRI"}}},
	}
}

func newService(t *testing.T, d *stubDispatcher, sample bool) *mole.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "mole.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps concurrent fetches from tripping SQLITE_BUSY
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	c, err := cipher.New("service-test-key")
	require.NoError(t, err)

	st := store.New(db, c, store.WithSample(sample))
	require.NoError(t, st.AutoMigrate())

	return mole.NewService(st, c, d, nil)
}

func warehouse() types.ConnectionInput {
	return types.ConnectionInput{
		Name:     "Warehouse",
		Engine:   "mysql",
		Host:     "mysql.internal",
		Database: "warehouse",
		Username: "reporter",
		Password: "hunter2",
	}
}

func TestService_FetchSchemaDecryptsAndTouches(t *testing.T) {
	d := &stubDispatcher{result: okResult()}
	svc := newService(t, d, false)
	ctx := context.Background()

	created, err := svc.CreateConnection(ctx, warehouse(), "u1")
	require.NoError(t, err)
	assert.Nil(t, created.LastUsed)

	snapshot, err := svc.FetchSchema(ctx, created.ID, "u1")
	require.NoError(t, err)

	assert.True(t, snapshot.Success)
	assert.Equal(t, "128 KB", snapshot.TotalSize)
	assert.Len(t, snapshot.Tables, 2)

	cfg := d.lastConfig()
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, "mysql.internal", cfg.Host)

	got, err := svc.GetConnection(ctx, created.ID, "u1")
	require.NoError(t, err)
	assert.NotNil(t, got.LastUsed)
}

func TestService_FetchSchemaIsOwnerScoped(t *testing.T) {
	d := &stubDispatcher{result: okResult()}
	svc := newService(t, d, false)
	ctx := context.Background()

	created, err := svc.CreateConnection(ctx, warehouse(), "u1")
	require.NoError(t, err)

	_, err = svc.FetchSchema(ctx, created.ID, "u2")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, d.configs)
}

func TestService_FetchSchemaFailureDoesNotTouch(t *testing.T) {
	d := &stubDispatcher{result: adapters.Failed("failed to connect to mysql: dial tcp: i/o timeout")}
	svc := newService(t, d, false)
	ctx := context.Background()

	created, err := svc.CreateConnection(ctx, warehouse(), "u1")
	require.NoError(t, err)

	snapshot, err := svc.FetchSchema(ctx, created.ID, "u1")
	require.NoError(t, err)
	assert.False(t, snapshot.Success)
	assert.Contains(t, snapshot.Message, "i/o timeout")
	assert.Equal(t, "N/A", snapshot.TotalSize)

	got, err := svc.GetConnection(ctx, created.ID, "u1")
	require.NoError(t, err)
	assert.Nil(t, got.LastUsed)
}

func TestService_SampleSchema(t *testing.T) {
	d := &stubDispatcher{result: okResult()}
	svc := newService(t, d, true)

	snapshot, err := svc.FetchSchema(context.Background(), "sample", "anyone")
	require.NoError(t, err)
	assert.True(t, snapshot.Success)
	assert.Empty(t, snapshot.Tables)
	assert.Equal(t, "N/A", snapshot.TotalSize)
	assert.Empty(t, d.configs)
}

func TestService_FetchSchemasBoundsConcurrency(t *testing.T) {
	d := &stubDispatcher{result: okResult(), delay: 20 * time.Millisecond}
	svc := newService(t, d, false)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 6; i++ {
		in := warehouse()
		in.Name = "Warehouse " + string(rune('A'+i))
		created, err := svc.CreateConnection(ctx, in, "u1")
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	ids = append(ids, "does-not-exist")

	results := svc.FetchSchemas(ctx, ids, "u1", 2)

	require.Len(t, results, 7)
	for _, id := range ids[:6] {
		assert.True(t, results[id].Success, id)
	}
	missing := results["does-not-exist"]
	assert.False(t, missing.Success)
	assert.Equal(t, "Database connection not found", missing.Message)

	assert.LessOrEqual(t, d.maxInFlight.Load(), int32(2))
	assert.Len(t, d.configs, 6)
}

func TestService_TestConnection(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		d := &stubDispatcher{result: okResult()}
		svc := newService(t, d, false)

		result := svc.TestConnection(context.Background(), types.ConnectionInput{
			Engine: "postgres", Host: " pg.internal ", Database: "app", Password: "pw",
		})

		assert.True(t, result.Success)
		assert.Equal(t, "Connection successful", result.Message)
		cfg := d.lastConfig()
		assert.Equal(t, "pg.internal", cfg.Host)
		assert.Equal(t, 5432, cfg.Port)
		assert.Equal(t, "pw", cfg.Password)
	})

	t.Run("failure", func(t *testing.T) {
		d := &stubDispatcher{result: adapters.Failed("Unsupported engine: oracle")}
		svc := newService(t, d, false)

		result := svc.TestConnection(context.Background(), types.ConnectionInput{Engine: "oracle"})

		assert.False(t, result.Success)
		assert.Equal(t, "Unsupported engine: oracle", result.Message)
	})

	t.Run("nothing is persisted", func(t *testing.T) {
		d := &stubDispatcher{result: okResult()}
		svc := newService(t, d, false)

		svc.TestConnection(context.Background(), warehouse())

		list, err := svc.ListConnections(context.Background(), "u1")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestService_Lifecycle(t *testing.T) {
	svc := newService(t, &stubDispatcher{}, false)
	ctx := context.Background()

	created, err := svc.CreateConnection(ctx, warehouse(), "u1")
	require.NoError(t, err)

	notes := "nightly copy"
	updated, err := svc.UpdateConnection(ctx, created.ID, types.ConnectionPatch{Notes: &notes}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "nightly copy", updated.Notes)
	assert.Equal(t, "Warehouse", updated.Name)

	touched, err := svc.TouchConnection(ctx, created.ID, "u1")
	require.NoError(t, err)
	assert.NotNil(t, touched.LastUsed)

	require.NoError(t, svc.DeleteConnection(ctx, created.ID, "u1"))
	_, err = svc.GetConnection(ctx, created.ID, "u1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
