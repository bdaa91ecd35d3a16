package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 20)
	assert.Equal(t, uint64(40), offset)
	assert.Equal(t, 20, limit)

	offset, limit = CalculateOffsetLimit(0, 1000)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, DefaultPageSize, limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(25, 2, 10)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)

	info = NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, info.TotalPages)

	info = NewPaginationInfo(5, 9, 10)
	assert.Equal(t, 1, info.CurrentPage)
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/forum?page=4&size=500", nil)

	page, size := ParsePaginationParams(c)
	assert.Equal(t, 4, page)
	assert.Equal(t, DefaultPageSize, size)
}

func TestCalculateSliceIndices(t *testing.T) {
	start, end := CalculateSliceIndices(10, 10, 25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	start, end = CalculateSliceIndices(20, 10, 25)
	assert.Equal(t, 20, start)
	assert.Equal(t, 25, end)

	start, end = CalculateSliceIndices(40, 10, 25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)

	start, end = CalculateSliceIndices(0, 0, 7)
	assert.Equal(t, 0, start)
	assert.Equal(t, 7, end)
}

func TestDayBounds(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2024, 5, 11, 1, 0, 0, 0, time.UTC) // 22:00 on the 10th in BRT

	start, end := DayBounds(now, loc)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 5, 11, 0, 0, 0, 0, loc), end)
}

func TestParseLocalDateTime(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	got, err := ParseLocalDateTime("2024-05-10T14:30", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 5, 10, 17, 30, 0, 0, time.UTC)))

	got, err = ParseLocalDateTime("2024-05-10T14:30:00Z", loc)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)))

	_, err = ParseLocalDateTime("tomorrow", loc)
	assert.Error(t, err)
}

func TestCombineDateTime(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)

	got, err := CombineDateTime("2024-05-10", "09:15", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 10, 9, 15, 0, 0, loc), got)

	_, err = CombineDateTime("2024-05-10", "", loc)
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", FormatDate(got))

	_, err = ParseDate("29/02/2024")
	assert.Error(t, err)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%go%", ContainsPattern("go"))
	assert.Equal(t, `%50\%\_off%`, ContainsPattern("50%_off"))
	assert.Nil(t, NilIfEmpty("  "))
	assert.Equal(t, "x", *NilIfEmpty("x"))
}
