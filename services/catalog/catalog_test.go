package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"repairright/database/repository/memory"
	"repairright/models"
	"repairright/services/domainerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	alice = models.Identity{UID: "alice-uid", Email: "alice@example.com", Name: "Alice", Picture: "https://img.example.com/alice.png"}
	bob   = models.Identity{UID: "bob-uid", Email: "bob@example.com", Name: "Bob"}
)

type mapCache struct {
	mu          sync.Mutex
	gen         int64
	entries     map[string][]byte
	hits        int
	invalidated int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]byte{}}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[fmt.Sprintf("%d:%s", c.gen, key)]
	if ok {
		c.hits++
	}
	return v, c.gen, ok
}

func (c *mapCache) Set(_ context.Context, gen int64, key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fmt.Sprintf("%d:%s", gen, key)] = value
}

func (c *mapCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidated++
}

// racingRepo runs afterRead once, between a catalog read and the cache store that
// follows it.
type racingRepo struct {
	*memory.CatalogRepo
	afterRead func()
}

func (r *racingRepo) fire() {
	if f := r.afterRead; f != nil {
		r.afterRead = nil
		f()
	}
}

func (r *racingRepo) List(ctx context.Context, q models.ServiceQuery) ([]models.Service, error) {
	out, err := r.CatalogRepo.List(ctx, q)
	r.fire()
	return out, err
}

func (r *racingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Service, error) {
	out, err := r.CatalogRepo.GetByID(ctx, id)
	r.fire()
	return out, err
}

func newTestService(cache Cache) *DefaultCatalogService {
	svc := NewCatalogService(memory.NewCatalogRepo(), cache, nil)
	svc.Now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func faucetInput() models.ServiceInput {
	return models.ServiceInput{
		Name:        "Leaky Faucet Fix",
		Description: "Stops the drip",
		Area:        "Dhaka",
		Price:       50,
	}
}

func strPtr(s string) *string { return &s }

func TestCreateServiceStampsProviderFromIdentity(t *testing.T) {
	svc := newTestService(nil)

	created, err := svc.CreateService(context.Background(), faucetInput(), alice)
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, models.ProviderSnapshot{
		UID:   "alice-uid",
		Name:  "Alice",
		Email: "alice@example.com",
		Image: "https://img.example.com/alice.png",
	}, created.Provider)

	got, err := svc.GetService(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Leaky Faucet Fix", got.Name)
	assert.Equal(t, 50.0, got.Price)
}

func TestCreateServiceValidation(t *testing.T) {
	svc := newTestService(nil)

	cases := map[string]func(*models.ServiceInput){
		"blank name":     func(in *models.ServiceInput) { in.Name = "  " },
		"no description": func(in *models.ServiceInput) { in.Description = "" },
		"no area":        func(in *models.ServiceInput) { in.Area = "" },
		"negative price": func(in *models.ServiceInput) { in.Price = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := faucetInput()
			mutate(&in)
			_, err := svc.CreateService(context.Background(), in, alice)
			assert.True(t, domainerr.Is(err, domainerr.CodeValidation), "got %v", err)
		})
	}
}

func TestUpdateServiceOnlyByOwner(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	created, err := svc.CreateService(ctx, faucetInput(), alice)
	require.NoError(t, err)
	id := created.ID.Hex()

	_, err = svc.UpdateService(ctx, id, models.ServiceUpdate{Name: strPtr("Hijacked")}, bob)
	assert.True(t, domainerr.Is(err, domainerr.CodeForbidden), "got %v", err)

	got, err := svc.GetService(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Leaky Faucet Fix", got.Name)

	res, err := svc.UpdateService(ctx, id, models.ServiceUpdate{Name: strPtr("Faucet Repair")}, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Matched)
	assert.Equal(t, int64(1), res.Modified)

	got, err = svc.GetService(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Faucet Repair", got.Name)
	assert.Equal(t, "alice@example.com", got.Provider.Email)
}

func TestUpdateServiceErrors(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	created, err := svc.CreateService(ctx, faucetInput(), alice)
	require.NoError(t, err)

	_, err = svc.UpdateService(ctx, created.ID.Hex(), models.ServiceUpdate{}, alice)
	assert.True(t, domainerr.Is(err, domainerr.CodeValidation), "got %v", err)

	_, err = svc.UpdateService(ctx, created.ID.Hex(), models.ServiceUpdate{Area: strPtr(" ")}, alice)
	assert.True(t, domainerr.Is(err, domainerr.CodeValidation), "got %v", err)

	_, err = svc.UpdateService(ctx, primitive.NewObjectID().Hex(), models.ServiceUpdate{Name: strPtr("x")}, alice)
	assert.True(t, domainerr.Is(err, domainerr.CodeNotFound), "got %v", err)

	_, err = svc.UpdateService(ctx, "bogus", models.ServiceUpdate{Name: strPtr("x")}, alice)
	assert.True(t, domainerr.Is(err, domainerr.CodeNotFound), "got %v", err)
}

func TestDeleteServiceOnlyByOwner(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	created, err := svc.CreateService(ctx, faucetInput(), alice)
	require.NoError(t, err)
	id := created.ID.Hex()

	_, err = svc.DeleteService(ctx, id, bob)
	assert.True(t, domainerr.Is(err, domainerr.CodeForbidden), "got %v", err)
	_, err = svc.GetService(ctx, id)
	require.NoError(t, err)

	res, err := svc.DeleteService(ctx, id, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Deleted)

	_, err = svc.GetService(ctx, id)
	assert.True(t, domainerr.Is(err, domainerr.CodeNotFound), "got %v", err)

	_, err = svc.DeleteService(ctx, id, alice)
	assert.True(t, domainerr.Is(err, domainerr.CodeNotFound), "got %v", err)
}

func TestListServicesSearchAndSort(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	for _, in := range []models.ServiceInput{
		{Name: "Leaky Faucet Fix", Description: "Stops the drip", Area: "Dhaka", Price: 50},
		{Name: "Roof Patch", Description: "Seals leaks overhead", Area: "Chittagong", Price: 120},
		{Name: "Door Hinge", Description: "Quiet doors", Area: "Dhaka", Price: 15},
	} {
		_, err := svc.CreateService(ctx, in, alice)
		require.NoError(t, err)
	}

	all, err := svc.ListServices(ctx, models.ServiceQuery{Sort: models.SortPriceAsc})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []float64{15, 50, 120}, []float64{all[0].Price, all[1].Price, all[2].Price})

	leaks, err := svc.ListServices(ctx, models.ServiceQuery{Search: " LEAK", Sort: models.SortPriceDesc})
	require.NoError(t, err)
	require.Len(t, leaks, 2)
	assert.Equal(t, "Roof Patch", leaks[0].Name)
	assert.Equal(t, "Leaky Faucet Fix", leaks[1].Name)

	_, err = svc.ListServices(ctx, models.ServiceQuery{Sort: "rating"})
	assert.True(t, domainerr.Is(err, domainerr.CodeValidation), "got %v", err)
}

func TestListProviderServices(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()
	_, err := svc.CreateService(ctx, faucetInput(), alice)
	require.NoError(t, err)

	mine, err := svc.ListProviderServices(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.ListProviderServices(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestCacheServesReadsAndIsInvalidatedOnMutation(t *testing.T) {
	cache := newMapCache()
	svc := newTestService(cache)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, faucetInput(), alice)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)

	_, err = svc.ListServices(ctx, models.ServiceQuery{})
	require.NoError(t, err)
	list, err := svc.ListServices(ctx, models.ServiceQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, cache.hits)

	_, err = svc.GetService(ctx, created.ID.Hex())
	require.NoError(t, err)
	got, err := svc.GetService(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 2, cache.hits)

	_, err = svc.UpdateService(ctx, created.ID.Hex(), models.ServiceUpdate{Name: strPtr("Faucet Repair")}, alice)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.invalidated)

	got, err = svc.GetService(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Faucet Repair", got.Name)

	// A rejected mutation leaves the cache alone.
	_, err = svc.DeleteService(ctx, created.ID.Hex(), bob)
	require.Error(t, err)
	assert.Equal(t, 2, cache.invalidated)
}

func TestMutationDuringCacheFillIsNotServedStale(t *testing.T) {
	ctx := context.Background()
	cache := newMapCache()
	repo := &racingRepo{CatalogRepo: memory.NewCatalogRepo()}
	svc := NewCatalogService(repo, cache, nil)

	created, err := svc.CreateService(ctx, faucetInput(), alice)
	require.NoError(t, err)
	id := created.ID.Hex()

	repo.afterRead = func() {
		_, err := svc.UpdateService(ctx, id, models.ServiceUpdate{Name: strPtr("Faucet Repair")}, alice)
		require.NoError(t, err)
	}
	stale, err := svc.ListServices(ctx, models.ServiceQuery{})
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "Leaky Faucet Fix", stale[0].Name)

	list, err := svc.ListServices(ctx, models.ServiceQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Faucet Repair", list[0].Name)

	repo.afterRead = func() {
		_, err := svc.DeleteService(ctx, id, alice)
		require.NoError(t, err)
	}
	_, err = svc.GetService(ctx, id)
	require.NoError(t, err)

	_, err = svc.GetService(ctx, id)
	assert.True(t, domainerr.Is(err, domainerr.CodeNotFound))
}

func TestRedisCacheWithoutClientIsAMiss(t *testing.T) {
	var c *RedisCache
	_, gen, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Negative(t, gen)
	c.Set(context.Background(), 0, "k", []byte("v"))
	c.Invalidate(context.Background())

	c = NewRedisCache(nil, time.Minute)
	_, _, ok = c.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.Equal(t, "catalog:3:list::", c.entryKey(3, listKey(models.ServiceQuery{})))
}
