package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/x-xyz/goroyalty/base/ctx"
	"github.com/x-xyz/goroyalty/service/redis/mocks"
)

func TestPingDB(t *testing.T) {
	c := ctx.Background()

	require.NoError(t, New(nil, nil).PingDB(c))

	r := mocks.NewService(t)
	r.On("Set", mock.Anything, "healthcheck:testset", []byte("1"), 30*time.Second).Return(nil).Once()
	require.NoError(t, New(nil, r).PingDB(c))

	boom := errors.New("boom")
	r.On("Set", mock.Anything, "healthcheck:testset", []byte("1"), 30*time.Second).Return(boom).Once()
	require.Equal(t, boom, New(nil, r).PingDB(c))
}
