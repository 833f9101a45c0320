package controllers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func singleCondition(t *testing.T, filter bson.M) bson.M {
	t.Helper()
	and, ok := filter["$and"].([]bson.M)
	require.True(t, ok, "expected $and clause, got %+v", filter)
	require.Len(t, and, 1)
	return and[0]
}

func TestBuildPropertyFilterNumericOperator(t *testing.T) {
	filter := buildPropertyFilter(url.Values{"price[lte]": {"50000"}})
	cond := singleCondition(t, filter)
	assert.Equal(t, bson.M{"price": bson.M{"$lte": 50000.0}}, cond)
}

func TestBuildPropertyFilterNumericRange(t *testing.T) {
	filter := buildPropertyFilter(url.Values{
		"beds[gte]": {"2"},
		"beds[lte]": {"4"},
	})
	cond := singleCondition(t, filter)
	assert.Equal(t, bson.M{"beds": bson.M{"$gte": 2.0, "$lte": 4.0}}, cond)
}

func TestBuildPropertyFilterStringList(t *testing.T) {
	filter := buildPropertyFilter(url.Values{"type": {"House, Villa"}})
	cond := singleCondition(t, filter)
	assert.Equal(t, bson.M{"type": bson.M{"$in": []string{"House", "Villa"}}}, cond)
}

func TestBuildPropertyFilterAvailabilityNormalized(t *testing.T) {
	filter := buildPropertyFilter(url.Values{"availability": {"Buy"}})
	cond := singleCondition(t, filter)
	assert.Equal(t, bson.M{"availability": bson.M{"$in": []string{"sale"}}}, cond)
}

func TestBuildPropertyFilterAmenities(t *testing.T) {
	filter := buildPropertyFilter(url.Values{"amenities": {"parking,lift"}})
	cond := singleCondition(t, filter)
	or, ok := cond["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	first, ok := or[0].(bson.M)
	require.True(t, ok)
	regex, ok := first["amenities"].(bson.M)["$regex"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "parking", regex.Pattern)
	assert.Equal(t, "i", regex.Options)
}

func TestBuildPropertyFilterBool(t *testing.T) {
	filter := buildPropertyFilter(url.Values{"isVerified": {"true"}})
	cond := singleCondition(t, filter)
	assert.Equal(t, bson.M{"isVerified": bson.M{"$eq": true}}, cond)
}

func TestBuildPropertyFilterIgnoresJunk(t *testing.T) {
	filter := buildPropertyFilter(url.Values{
		"price[between]": {"1,2"}, // unknown operator
		"beds":           {"lots"},
		"unknownField":   {"x"},
		"empty":          {""},
	})
	assert.Empty(t, filter, "junk parameters produce no conditions")
}

func TestGenerateCacheKeyStable(t *testing.T) {
	a := generateCacheKey("property", url.Values{"a": {"1"}, "b": {"2"}})
	b := generateCacheKey("property", url.Values{"b": {"2"}, "a": {"1"}})
	assert.Equal(t, a, b, "key order must not change the cache key")

	c := generateCacheKey("property", url.Values{"a": {"1"}})
	assert.NotEqual(t, a, c)
}
