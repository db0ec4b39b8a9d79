package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ApprovedClassesKey returns the cache key for the public approved-class listing.
func (r *CacheKeyStruct) ApprovedClassesKey() string {
	return "catalog:approved"
}

// PopularClassesKey returns the cache key for the popular-class listing.
func (r *CacheKeyStruct) PopularClassesKey() string {
	return "catalog:popular"
}

// ClassSeatsChannel returns the Redis PubSub channel carrying seat-availability
// updates for a class.
func (r *CacheKeyStruct) ClassSeatsChannel(classID string) string {
	return fmt.Sprintf("class:%s:seats", classID)
}

var CacheKey = NewCacheKeyStruct()
