package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/dkraev/mycolog/internal/common"
	"github.com/dkraev/mycolog/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecordRepo struct {
	rows   map[string]*models.Record // keyed by userID+"/"+localID
	nextID int64
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{rows: map[string]*models.Record{}, nextID: 1}
}

func key(userID, localID string) string { return userID + "/" + localID }

func (f *fakeRecordRepo) Insert(ctx context.Context, rec *models.Record) (*models.Record, error) {
	k := key(rec.UserID, rec.LocalID)
	if _, exists := f.rows[k]; exists {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	rec.ID = f.nextID
	f.nextID++
	f.rows[k] = rec
	return rec, nil
}

func (f *fakeRecordRepo) Update(ctx context.Context, rec *models.Record) error {
	for _, row := range f.rows {
		if row.ID == rec.ID && row.UserID == rec.UserID {
			*row = *rec
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeRecordRepo) GetByLocalID(ctx context.Context, userID, localID string) (*models.Record, error) {
	row, ok := f.rows[key(userID, localID)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return row, nil
}

func (f *fakeRecordRepo) GetByID(ctx context.Context, userID string, id int64) (*models.Record, error) {
	for _, row := range f.rows {
		if row.ID == id && row.UserID == userID {
			return row, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeRecordRepo) ListByUser(ctx context.Context, userID string) ([]*models.Record, error) {
	var out []*models.Record
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func TestRecordService_CreateAndLookup(t *testing.T) {
	svc := NewRecordService(newFakeRecordRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, "u-1", &models.Record{LocalID: "loc-1", UpdatedAt: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "u-1", created.UserID)

	got, err := svc.Lookup(ctx, "u-1", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestRecordService_CreateDuplicate(t *testing.T) {
	svc := NewRecordService(newFakeRecordRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "u-1", &models.Record{LocalID: "loc-1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, "u-1", &models.Record{LocalID: "loc-1"})
	assert.ErrorIs(t, err, common.ErrDuplicateRecord)
}

func TestRecordService_CreateRequiresLocalID(t *testing.T) {
	svc := NewRecordService(newFakeRecordRepo())

	_, err := svc.Create(context.Background(), "u-1", &models.Record{})
	require.Error(t, err)
}

func TestRecordService_TenantIsolation(t *testing.T) {
	repo := newFakeRecordRepo()
	svc := NewRecordService(repo)
	ctx := context.Background()

	mine, err := svc.Create(ctx, "u-1", &models.Record{LocalID: "loc-1", UpdatedAt: 100})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, "u-2", &models.Record{LocalID: fmt.Sprintf("other-%d", i)})
		require.NoError(t, err)
	}

	// another user's listing never contains my rows
	theirs, err := svc.List(ctx, "u-2")
	require.NoError(t, err)
	assert.Len(t, theirs, 3)
	for _, rec := range theirs {
		assert.Equal(t, "u-2", rec.UserID)
	}

	// lookups across tenants miss even with a matching local id
	_, err = svc.Lookup(ctx, "u-2", "loc-1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// updates cannot touch a foreign row
	err = svc.Update(ctx, "u-2", mine.ID, &models.Record{LocalID: "loc-1", UpdatedAt: 999})
	assert.ErrorIs(t, err, common.ErrNotFound)

	got, err := svc.Lookup(ctx, "u-1", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.UpdatedAt, "foreign update must not change the row")
}

func TestRecordService_Update(t *testing.T) {
	svc := NewRecordService(newFakeRecordRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, "u-1", &models.Record{LocalID: "loc-1", UpdatedAt: 100})
	require.NoError(t, err)

	err = svc.Update(ctx, "u-1", created.ID, &models.Record{LocalID: "loc-1", UpdatedAt: 200})
	require.NoError(t, err)

	got, err := svc.Lookup(ctx, "u-1", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.UpdatedAt)
}
