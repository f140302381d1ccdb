package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pheemnattavich-project/FloodSafe/internal/entities"
	"github.com/pheemnattavich-project/FloodSafe/internal/thai"
)

func record(name, location string) entities.StationRecord {
	return entities.StationRecord{
		StationName: name,
		Location:    location,
		WaterLevel:  "1.0",
		Status:      entities.StatusNormal,
		Trend:       entities.TrendStable,
		Tambon:      thai.ExtractTambon(location),
	}
}

func testIndex() *Index {
	return New([]entities.StationRecord{
		record("สถานีคลองโคน", "ต.คลองโคน อ.เมือง จ.สมุทรสงคราม"),
		record("สถานีบางพูด", "ต.บางพูด อ.ปากเกร็ด จ.นนทบุรี"),
		record("สถานีไร้ตำบล", "อ.เมือง จ.เชียงใหม่"),
	})
}

func TestMatchExactTambon(t *testing.T) {
	ix := testIndex()

	rec, ok := ix.Match("คลองโคน")
	require.True(t, ok)
	assert.Equal(t, "สถานีคลองโคน", rec.StationName)

	// Prefix and whitespace variants normalize to the same key.
	for _, keyword := range []string{"ต.คลองโคน", "ตำบลคลองโคน", "  คลองโคน "} {
		rec, ok := ix.Match(keyword)
		require.True(t, ok, "keyword %q", keyword)
		assert.Equal(t, "สถานีคลองโคน", rec.StationName)
	}
}

func TestMatchSubstringFallback(t *testing.T) {
	ix := testIndex()

	// No tambon is named ปากเกร็ด; the district name still finds the
	// station through the normalized surface.
	rec, ok := ix.Match("ปากเกร็ด")
	require.True(t, ok)
	assert.Equal(t, "สถานีบางพูด", rec.StationName)

	// Station-name fragments work too.
	rec, ok = ix.Match("ไร้ตำบล")
	require.True(t, ok)
	assert.Equal(t, "สถานีไร้ตำบล", rec.StationName)
}

func TestMatchNotFound(t *testing.T) {
	ix := testIndex()

	_, ok := ix.Match("คลองโคนใต้")
	assert.False(t, ok, "no surface contains the extended keyword")

	_, ok = ix.Match("")
	assert.False(t, ok)

	_, ok = ix.Match("   ")
	assert.False(t, ok, "keyword that normalizes to empty is a miss")
}

func TestMatchMemoized(t *testing.T) {
	ix := testIndex()

	first, ok := ix.Match("คลองโคน")
	require.True(t, ok)
	second, ok := ix.Match("คลองโคน")
	require.True(t, ok)
	assert.Equal(t, first, second)

	_, ok = ix.Match("ไม่มีทางเจอ")
	assert.False(t, ok)
	_, ok = ix.Match("ไม่มีทางเจอ")
	assert.False(t, ok, "negative results are memoized as misses, not errors")
}

func TestDuplicateTambonLastWins(t *testing.T) {
	ix := New([]entities.StationRecord{
		record("สถานีเก่า", "ต.ซ้ำ อ.หนึ่ง จ.หนึ่ง"),
		record("สถานีใหม่", "ต.ซ้ำ อ.สอง จ.สอง"),
	})

	rec, ok := ix.Match("ซ้ำ")
	require.True(t, ok)
	assert.Equal(t, "สถานีใหม่", rec.StationName)
}

func TestRecordsCopy(t *testing.T) {
	ix := testIndex()
	records := ix.Records()
	require.Len(t, records, 3)

	records[0].StationName = "mutated"
	fresh := ix.Records()
	assert.Equal(t, "สถานีคลองโคน", fresh[0].StationName, "callers cannot mutate the snapshot")
}

func TestStorePublish(t *testing.T) {
	store := NewStore()
	assert.Nil(t, store.Current())

	first := testIndex()
	store.Publish(first)
	assert.Same(t, first, store.Current())

	// In-flight readers of the old snapshot are unaffected by a publish.
	held := store.Current()
	second := New(nil)
	store.Publish(second)
	assert.Same(t, second, store.Current())
	_, ok := held.Match("คลองโคน")
	assert.True(t, ok)
}
