package credentials_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/sop-console/credentials"
	consoleerrors "github.com/jrsteele09/sop-console/internal/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func testSession() credentials.Session {
	return credentials.Session{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		Profile: credentials.Profile{
			UserID:       42,
			EmployeeCode: "V1234",
			FullName:     "Nguyen Van A",
		},
		Roles: []string{"ROLE_ADMIN", "ROLE_USER"},
	}
}

// storeContract runs the behaviour every Store implementation must share.
func storeContract(t *testing.T, store credentials.Store) {
	t.Helper()
	ctx := context.Background()

	empty, err := store.Read(ctx)
	require.NoError(t, err)
	require.True(t, empty.Empty())

	require.NoError(t, store.Write(ctx, testSession()))
	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, testSession(), got)

	replacement := credentials.Session{AccessToken: "access-2", RefreshToken: "refresh-2"}
	require.NoError(t, store.Write(ctx, replacement))
	got, err = store.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "access-2", got.AccessToken)
	require.Equal(t, "refresh-2", got.RefreshToken)
	require.Empty(t, got.Roles, "write replaces every field")
	require.Zero(t, got.Profile.UserID)

	require.NoError(t, store.Clear(ctx))
	got, err = store.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, credentials.Session{}, got)

	require.NoError(t, store.Clear(ctx), "clearing an empty store is not an error")
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, credentials.NewMemoryStore())
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewMemoryStore()

	session := testSession()
	require.NoError(t, store.Write(ctx, session))
	session.Roles[0] = "MUTATED"

	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "ROLE_ADMIN", got.Roles[0])

	got.Roles[1] = "MUTATED"
	again, err := store.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, "ROLE_USER", again.Roles[1])
}

func TestMemoryStoreNeverTearsAPair(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Write(ctx, credentials.Session{AccessToken: "a0", RefreshToken: "r0"}))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				n := fmt.Sprintf("%d-%d", w, i)
				_ = store.Write(ctx, credentials.Session{AccessToken: "a" + n, RefreshToken: "r" + n})
			}
		}(w)
	}

	var torn atomic.Int32
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s, err := store.Read(ctx)
				if err != nil || strings.TrimPrefix(s.AccessToken, "a") != strings.TrimPrefix(s.RefreshToken, "r") {
					torn.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	require.Zero(t, torn.Load())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials")
	store, err := credentials.NewFileStore(path, "correct horse battery staple")
	require.NoError(t, err)
	storeContract(t, store)
}

func TestFileStoreIsSealed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "credentials")
	store, err := credentials.NewFileStore(path, "passphrase")
	require.NoError(t, err)
	require.NoError(t, store.Write(ctx, testSession()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "access-1")

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	other, err := credentials.NewFileStore(path, "wrong passphrase")
	require.NoError(t, err)
	_, err = other.Read(ctx)
	require.ErrorIs(t, err, consoleerrors.ErrCredentialsCorrupt)
}

func TestFileStoreRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")
	require.NoError(t, os.WriteFile(path, []byte("short"), 0o600))

	store, err := credentials.NewFileStore(path, "passphrase")
	require.NoError(t, err)
	_, err = store.Read(context.Background())
	require.ErrorIs(t, err, consoleerrors.ErrCredentialsCorrupt)
}

func TestNewFileStoreRequiresPassphrase(t *testing.T) {
	_, err := credentials.NewFileStore(filepath.Join(t.TempDir(), "c"), "")
	require.ErrorIs(t, err, consoleerrors.ErrNoPassphrase)
}

func TestRedisStore(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err())

	storeContract(t, credentials.NewRedisStore(client, uuid.NewString(), time.Minute))
}
