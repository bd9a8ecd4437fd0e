package dig_container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/eden/apps/api/echo"
	"github.com/trezcool/eden/core/period"
	"github.com/trezcool/eden/storage/cache/rediscache"
	inmemdb "github.com/trezcool/eden/storage/database/inmem"
)

func TestNew_memory(t *testing.T) {
	t.Setenv("ENV", "TEST")
	t.Setenv("TEST_DATABASE_ENGINE", "memory")
	t.Setenv("TEST_REDIS_ADDR", "")

	c := New()
	err := c.Invoke(func(server *echoapi.Server, repo period.Repository, closers CloserParam) {
		assert.NotNil(t, server)
		_, cached := repo.(*rediscache.PeriodRepository)
		assert.False(t, cached, "no cache without a redis address")
		assert.Nil(t, closers.Cache)
		_, ok := closers.DB.(*inmemdb.DB)
		assert.True(t, ok)
	})
	require.NoError(t, err)
}
