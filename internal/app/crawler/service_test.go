package crawler

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/config"
	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
	"go.uber.org/zap"
)

type fakeCrawler struct {
	links []model.SnapshotLink
}

func (f fakeCrawler) Crawl(_ context.Context, links chan<- model.SnapshotLink) {
	for _, l := range f.links {
		links <- l
	}
}

type fakeStore struct {
	saved   map[string][]model.SnapshotLink
	failFor string
}

func (f *fakeStore) SaveCityIndex(city string, links []model.SnapshotLink) error {
	if city == f.failFor {
		return assert.AnError
	}
	f.saved[city] = links
	return nil
}

func link(city, file string) model.SnapshotLink {
	return model.SnapshotLink{City: city, Date: civil.Date{Year: 2021, Month: time.March, Day: 1}, File: file}
}

func TestService_Crawl(t *testing.T) {
	store := &fakeStore{saved: map[string][]model.SnapshotLink{}}
	svc := NewService(store, []SiteCrawler{
		fakeCrawler{links: []model.SnapshotLink{link("lisbon", "listings.csv.gz"), link("porto", "listings.csv.gz")}},
		fakeCrawler{links: []model.SnapshotLink{link("lisbon", "calendar.csv.gz")}},
		fakeCrawler{},
	}, zap.NewNop())

	byCity, err := svc.Crawl(context.Background())
	require.NoError(t, err)

	assert.Len(t, byCity, 2)
	assert.ElementsMatch(t, []string{"listings.csv.gz", "calendar.csv.gz"},
		[]string{store.saved["lisbon"][0].File, store.saved["lisbon"][1].File})
	assert.Len(t, store.saved["porto"], 1)
}

func TestService_Crawl_StoreFailure(t *testing.T) {
	store := &fakeStore{saved: map[string][]model.SnapshotLink{}, failFor: "lisbon"}
	svc := NewService(store, []SiteCrawler{
		fakeCrawler{links: []model.SnapshotLink{link("lisbon", "listings.csv.gz"), link("porto", "listings.csv.gz")}},
	}, zap.NewNop())

	_, err := svc.Crawl(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, store.saved, "porto", "other cities are still saved")
}

func TestIndexStore(t *testing.T) {
	s := NewIndexStore(config.Paths{Root: t.TempDir()})

	cities, err := s.Cities()
	require.NoError(t, err)
	assert.Empty(t, cities)

	links := []model.SnapshotLink{link("porto", "listings.csv.gz")}
	require.NoError(t, s.SaveCityIndex("porto", links))
	require.NoError(t, s.SaveCityIndex("lisbon", []model.SnapshotLink{link("lisbon", "calendar.csv.gz")}))

	cities, err = s.Cities()
	require.NoError(t, err)
	assert.Equal(t, []string{"lisbon", "porto"}, cities)

	loaded, err := s.LoadCityIndex("porto")
	require.NoError(t, err)
	assert.Equal(t, links, loaded)

	_, err = s.LoadCityIndex("madrid")
	assert.Error(t, err)
}
