package postgres

import (
	"testing"

	"jobboard-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeEscaper(t *testing.T) {
	assert.Equal(t, `100\% remote`, likeEscaper.Replace("100% remote"))
	assert.Equal(t, `node\_js`, likeEscaper.Replace("node_js"))
	assert.Equal(t, `C:\\temp`, likeEscaper.Replace(`C:\temp`))
	assert.Equal(t, "Go Developer", likeEscaper.Replace("Go Developer"))
}

func TestPublishedWhere(t *testing.T) {
	t.Run("no filters", func(t *testing.T) {
		where, args := publishedWhere(domain.JobFilter{})
		assert.Equal(t, " WHERE j.state = 'published'", where)
		assert.Empty(t, args)
	})

	t.Run("query wildcards match literally", func(t *testing.T) {
		where, args := publishedWhere(domain.JobFilter{Query: " 50%_off "})
		assert.Contains(t, where, "j.title ILIKE $1 OR j.description ILIKE $1")
		require.Len(t, args, 1)
		assert.Equal(t, `%50\%\_off%`, args[0])
	})

	t.Run("placeholders follow argument order", func(t *testing.T) {
		city := int64(7)
		where, args := publishedWhere(domain.JobFilter{Query: "go", CityID: &city, WorkMode: "remote"})
		assert.Contains(t, where, "j.city_id = $2")
		assert.Contains(t, where, "j.work_mode = $3")
		assert.Equal(t, []any{"%go%", int64(7), "remote"}, args)
	})
}
