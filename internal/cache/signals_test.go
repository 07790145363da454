package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Posts int `json:"posts"`
}

func TestSignalCache_SetAndGet(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewWithClient(client, time.Minute)

	want := payload{Posts: 42}
	data, err := json.Marshal(want)
	require.NoError(t, err)
	entry, err := json.Marshal(Entry{Data: data, Source: "reddit", CachedAt: time.Now().UTC()})
	require.NoError(t, err)

	mock.Regexp().ExpectSet("trendscope:signals:reddit:lofi", `.*`, time.Minute).SetVal("OK")
	require.NoError(t, c.Set(context.Background(), "lofi", "reddit", want))

	mock.ExpectGet("trendscope:signals:reddit:lofi").SetVal(string(entry))
	var got payload
	assert.True(t, c.Get(context.Background(), "lofi", "reddit", &got))
	assert.Equal(t, want, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignalCache_MissFallsThrough(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewWithClient(client, time.Minute)

	mock.ExpectGet("trendscope:signals:reddit:lofi").RedisNil()

	var got payload
	assert.False(t, c.Get(context.Background(), "lofi", "reddit", &got))
}

func TestSignalCache_ReadErrorReadsAsMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewWithClient(client, time.Minute)

	mock.ExpectGet("trendscope:signals:reddit:lofi").SetErr(errors.New("connection reset"))

	var got payload
	assert.False(t, c.Get(context.Background(), "lofi", "reddit", &got))
}

func TestSignalCache_CorruptEntryReadsAsMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewWithClient(client, time.Minute)

	mock.ExpectGet("trendscope:signals:reddit:lofi").SetVal("{not json")

	var got payload
	assert.False(t, c.Get(context.Background(), "lofi", "reddit", &got))
}
