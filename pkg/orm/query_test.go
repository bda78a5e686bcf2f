package orm_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/pkg/database"
	"github.com/shashiranjanraj/inventory/pkg/orm"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		page, limit int
		total       int64
		want        orm.Pagination
	}{
		{1, 10, 25, orm.Pagination{Page: 1, Limit: 10, Total: 25, TotalPages: 3}},
		{2, 10, 20, orm.Pagination{Page: 2, Limit: 10, Total: 20, TotalPages: 2}},
		{1, 20, 0, orm.Pagination{Page: 1, Limit: 20, Total: 0, TotalPages: 0}},
		{0, 0, 1, orm.Pagination{Page: 1, Limit: 20, Total: 1, TotalPages: 1}},
		{1, 500, 250, orm.Pagination{Page: 1, Limit: 100, Total: 250, TotalPages: 3}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, orm.NewPagination(c.page, c.limit, c.total))
	}
	assert.Equal(t, 10, orm.NewPagination(2, 10, 25).Offset())
}

func TestOffsetSaturates(t *testing.T) {
	assert.Equal(t, 0, orm.Pagination{Page: 1, Limit: 100}.Offset())
	assert.Equal(t, math.MaxInt, orm.Pagination{Page: math.MaxInt, Limit: 20}.Offset())
	assert.Equal(t, math.MaxInt, orm.Pagination{Page: math.MaxInt/100 + 2, Limit: 100}.Offset())
	assert.Equal(t, (math.MaxInt/100)*100, orm.Pagination{Page: math.MaxInt/100 + 1, Limit: 100}.Offset())
}

type row struct {
	ID   uint `gorm:"primaryKey"`
	Score int
}

func TestScopes(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, db.AutoMigrate(&row{}))

	for i := 1; i <= 25; i++ {
		require.NoError(t, db.Create(&row{Score: i % 2}).Error)
	}

	var page []row
	require.NoError(t, db.Scopes(orm.OrderBy("id", false), orm.Paginate(2, 10)).Find(&page).Error)
	require.Len(t, page, 10)
	assert.EqualValues(t, 11, page[0].ID)
	assert.EqualValues(t, 20, page[9].ID)

	var last []row
	require.NoError(t, db.Scopes(orm.OrderBy("id", false), orm.Paginate(4, 10)).Find(&last).Error)
	assert.Empty(t, last)

	// Equal scores fall back to id in the same direction.
	var ranked []row
	require.NoError(t, db.Scopes(orm.OrderBy("score", true), orm.Paginate(1, 3)).Find(&ranked).Error)
	require.Len(t, ranked, 3)
	assert.Equal(t, []uint{25, 23, 21}, []uint{ranked[0].ID, ranked[1].ID, ranked[2].ID})
}
