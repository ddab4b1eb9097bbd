package catalog_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/cache"
	"github.com/dmitrymomot/storefront/pkg/catalog"
)

var products = []apiclient.Product{
	{ID: "1", Name: "PlayStation 5", Description: "Next-gen console", Category: "consoles", Price: 499},
	{ID: "2", Name: "DualSense", Description: "Wireless controller for PS5", Category: "accessories", Price: 69},
	{ID: "3", Name: "Elden Ring", Description: "Open-world action RPG", Category: "games", Price: 59},
	{ID: "4", Name: "Xbox Series X", Description: "Powerful CONSOLE", Category: "consoles", Price: 499},
	{ID: "5", Name: "Gift Card", Description: "Store credit"},
}

func ids(list []apiclient.Product) []apiclient.ID {
	out := make([]apiclient.ID, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter catalog.Filter
		want   []apiclient.ID
	}{
		{"empty filter keeps everything", catalog.Filter{}, []apiclient.ID{"1", "2", "3", "4", "5"}},
		{"all category", catalog.Filter{Category: "all"}, []apiclient.ID{"1", "2", "3", "4", "5"}},
		{"search matches name case-insensitively", catalog.Filter{Search: "elden"}, []apiclient.ID{"3"}},
		{"search matches description", catalog.Filter{Search: "console"}, []apiclient.ID{"1", "4"}},
		{"category only", catalog.Filter{Category: "consoles"}, []apiclient.ID{"1", "4"}},
		{"category ignores case", catalog.Filter{Category: "Games"}, []apiclient.ID{"3"}},
		{"search and category", catalog.Filter{Search: "ps5", Category: "accessories"}, []apiclient.ID{"2"}},
		{"no match", catalog.Filter{Search: "zelda"}, []apiclient.ID{}},
		{"uncategorized product never matches a category", catalog.Filter{Search: "card", Category: "games"}, []apiclient.ID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ids(catalog.Apply(products, tt.filter)))
		})
	}
}

func TestFilter_Active(t *testing.T) {
	t.Parallel()

	require.False(t, catalog.Filter{}.Active())
	require.False(t, catalog.Filter{Search: "  ", Category: "ALL"}.Active())
	require.True(t, catalog.Filter{Search: "x"}.Active())
	require.True(t, catalog.Filter{Category: "games"}.Active())
}

func TestCategories(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"all", "consoles", "accessories", "games"}, catalog.Categories(products))
	require.Equal(t, []string{"all"}, catalog.Categories(nil))
}

type fakeAPI struct {
	listCalls    atomic.Int32
	productCalls atomic.Int32
}

func (f *fakeAPI) Products(context.Context, apiclient.ProductQuery) ([]apiclient.Product, error) {
	f.listCalls.Add(1)
	return products, nil
}

func (f *fakeAPI) Product(_ context.Context, id apiclient.ID) (*apiclient.Product, error) {
	f.productCalls.Add(1)
	for _, p := range products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &apiclient.Error{Status: 404, Message: "Product not found"}
}

func TestService(t *testing.T) {
	t.Parallel()

	t.Run("search uses cached list", func(t *testing.T) {
		t.Parallel()

		lists := cache.NewMemory[[]apiclient.Product]()
		defer lists.Close()
		api := &fakeAPI{}
		svc := catalog.NewService(api, catalog.WithListCache(lists), catalog.WithTTL(time.Minute))
		ctx := context.Background()

		found, categories, err := svc.Search(ctx, catalog.Filter{Category: "games"})
		require.NoError(t, err)
		require.Equal(t, []apiclient.ID{"3"}, ids(found))
		require.Len(t, categories, 4)

		featured, err := svc.Featured(ctx)
		require.NoError(t, err)
		require.Equal(t, []apiclient.ID{"1", "2", "3"}, ids(featured))
		require.Equal(t, int32(1), api.listCalls.Load())
	})

	t.Run("product lookups", func(t *testing.T) {
		t.Parallel()

		items := cache.NewMemory[apiclient.Product]()
		defer items.Close()
		api := &fakeAPI{}
		svc := catalog.NewService(api, catalog.WithProductCache(items))
		ctx := context.Background()

		p, err := svc.Product(ctx, "2")
		require.NoError(t, err)
		require.Equal(t, "DualSense", p.Name)
		_, err = svc.Product(ctx, "2")
		require.NoError(t, err)
		require.Equal(t, int32(1), api.productCalls.Load())

		_, err = svc.Product(ctx, "404")
		require.ErrorIs(t, err, apiclient.ErrNotFound)
	})

	t.Run("warm primes both caches", func(t *testing.T) {
		t.Parallel()

		lists := cache.NewMemory[[]apiclient.Product]()
		defer lists.Close()
		items := cache.NewMemory[apiclient.Product]()
		defer items.Close()
		api := &fakeAPI{}
		svc := catalog.NewService(api, catalog.WithListCache(lists), catalog.WithProductCache(items))
		ctx := context.Background()

		require.NoError(t, svc.Warm(ctx))
		_, err := svc.Products(ctx)
		require.NoError(t, err)
		_, err = svc.Product(ctx, "4")
		require.NoError(t, err)

		require.Equal(t, int32(1), api.listCalls.Load())
		require.Zero(t, api.productCalls.Load())
	})

	t.Run("uncached service passes through", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{}
		svc := catalog.NewService(api)
		_, err := svc.Products(context.Background())
		require.NoError(t, err)
		_, err = svc.Products(context.Background())
		require.NoError(t, err)
		require.Equal(t, int32(2), api.listCalls.Load())
	})
}

func TestWarmer(t *testing.T) {
	t.Parallel()

	t.Run("invalid schedule", func(t *testing.T) {
		t.Parallel()

		_, err := catalog.NewWarmer(catalog.NewService(&fakeAPI{}), "not a schedule", 0)
		require.Error(t, err)
	})

	t.Run("start warms immediately", func(t *testing.T) {
		t.Parallel()

		api := &fakeAPI{}
		w, err := catalog.NewWarmer(catalog.NewService(api), "@every 1h", time.Second)
		require.NoError(t, err)

		require.NoError(t, w.Start(context.Background()))
		require.Eventually(t, func() bool { return api.listCalls.Load() == 1 }, time.Second, 5*time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, w.Stop(ctx))
	})
}
