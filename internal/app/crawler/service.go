package crawler

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/ymakhloufi/airbnb-vintage/internal/pkg/model"
	"go.uber.org/zap"
)

type Store interface {
	SaveCityIndex(city string, links []model.SnapshotLink) error
}

type SiteCrawler interface {
	Crawl(ctx context.Context, links chan<- model.SnapshotLink)
}

type Service struct {
	store    Store
	crawlers []SiteCrawler
	logger   *zap.Logger
}

func NewService(store Store, crawlers []SiteCrawler, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		crawlers: crawlers,
		logger:   logger,
	}
}

// Crawl runs all crawlers concurrently and stores one index per city once
// every crawler has finished.
func (s Service) Crawl(ctx context.Context) (map[string][]model.SnapshotLink, error) {
	var wg sync.WaitGroup
	linkChan := make(chan model.SnapshotLink)

	for _, c := range s.crawlers {
		wg.Add(1)
		go func(c SiteCrawler) {
			defer wg.Done()
			c.Crawl(ctx, linkChan)
		}(c)
	}

	done := make(chan map[string][]model.SnapshotLink)
	go s.recv(linkChan, done)

	wg.Wait()
	s.logger.Info("all crawlers finished, closing channels")
	close(linkChan)
	byCity := <-done

	cities := make([]string, 0, len(byCity))
	for city := range byCity {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	var errs []error
	for _, city := range cities {
		if err := s.store.SaveCityIndex(city, byCity[city]); err != nil {
			s.logger.Error("failed to save city index", zap.String("city", city), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		s.logger.Info("saved city index", zap.String("city", city), zap.Int("links", len(byCity[city])))
	}
	return byCity, errors.Join(errs...)
}

func (s Service) recv(c <-chan model.SnapshotLink, done chan<- map[string][]model.SnapshotLink) {
	s.logger.Info("starting crawler receiver")

	byCity := make(map[string][]model.SnapshotLink)
	for link := range c {
		byCity[link.City] = append(byCity[link.City], link)
		s.logger.Debug("received snapshot link", zap.String("city", link.City), zap.String("url", link.URL))
	}
	done <- byCity
}
