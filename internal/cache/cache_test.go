package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

type entry struct {
	Name string `json:"name"`
}

func TestCacheGetJSON(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := &Cache{Client: client, TTL: time.Minute, Prefix: "tb:"}

	mock.ExpectGet("tb:hotel:1").SetVal(`{"name":"Harbour Inn"}`)
	mock.ExpectGet("tb:hotel:2").RedisNil()
	mock.ExpectGet("tb:hotel:3").SetVal(`not json`)

	var got entry
	ok, err := c.GetJSON(context.Background(), "hotel:1", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Name != "Harbour Inn" {
		t.Fatalf("decoded %+v", got)
	}

	ok, err = c.GetJSON(context.Background(), "hotel:2", &got)
	if err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	ok, err = c.GetJSON(context.Background(), "hotel:3", &got)
	if err != nil || ok {
		t.Fatalf("undecodable value should be a miss, got ok=%v err=%v", ok, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCacheSetAndDelete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := &Cache{Client: client, TTL: time.Minute, Prefix: "tb:"}

	mock.ExpectSet("tb:hotel:1", []byte(`{"name":"Harbour Inn"}`), time.Minute).SetVal("OK")
	mock.ExpectDel("tb:hotel:1", "tb:hotel:2").SetVal(2)

	if err := c.SetJSON(context.Background(), "hotel:1", entry{Name: "Harbour Inn"}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if err := c.Delete(context.Background(), "hotel:1", "hotel:2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	var got entry
	ok, err := c.GetJSON(context.Background(), "x", &got)
	if ok || err != nil {
		t.Fatalf("nil cache should miss silently")
	}
	if err := c.SetJSON(context.Background(), "x", got); err != nil {
		t.Fatalf("nil cache set: %v", err)
	}
	if err := c.Delete(context.Background(), "x"); err != nil {
		t.Fatalf("nil cache delete: %v", err)
	}
}

func TestNewRedisClientEmptyURL(t *testing.T) {
	client, err := NewRedisClient("")
	if err != nil || client != nil {
		t.Fatalf("empty url should disable caching, got %v %v", client, err)
	}
	if _, err := NewRedisClient("http://localhost:6379"); err == nil {
		t.Fatalf("expected parse error")
	}
}
