package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Service is the in-memory cache used for resolved credentials and edit
// debouncing.
type Service struct {
	cache *gocache.Cache
}

func NewService(defaultExpiration, cleanUpInterval time.Duration) *Service {
	return &Service{cache: gocache.New(defaultExpiration, cleanUpInterval)}
}

func (s *Service) Set(key string, value interface{}, duration time.Duration) {
	s.cache.Set(key, value, duration)
}

func (s *Service) Get(key string) (interface{}, bool) {
	return s.cache.Get(key)
}

func (s *Service) Delete(key string) {
	s.cache.Delete(key)
}

// Add stores the value only if the key is absent. Returns false when the key
// already exists, which is what the edit debounce relies on.
func (s *Service) Add(key string, value interface{}, duration time.Duration) bool {
	return s.cache.Add(key, value, duration) == nil
}

func (s *Service) GetOrSet(
	key string,
	duration time.Duration,
	loader func() (any, error)) (interface{}, error) {
	if val, found := s.Get(key); found {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return nil, err
	}

	s.Set(key, val, duration)
	return val, nil
}
