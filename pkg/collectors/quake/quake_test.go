package quake

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleLabel(t *testing.T) {
	cases := map[int]string{
		10:  "1",
		30:  "3",
		45:  "5弱",
		50:  "5強",
		55:  "6弱",
		60:  "6強",
		70:  "7",
		-1:  Unknown,
		46:  Unknown,
		999: Unknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, ScaleLabel(in), "scale %d", in)
	}
}

const feed = `[
  {"id":"a1","time":"2026/10/18 07:05:12.345","earthquake":{"hypocenter":{"name":"千葉県東方沖","magnitude":4.8},"maxScale":45}},
  {"id":"a2","time":"2026/10/17 23:41:00","earthquake":{"hypocenter":{"name":"","magnitude":-1},"maxScale":999}},
  {"id":"a3","time":"garbled","earthquake":{"hypocenter":{"name":"石川県能登地方","magnitude":3.1},"maxScale":20}}
]`

func TestCollect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	c := New(WithClient(srv.Client()), WithURL(srv.URL))
	data, err := c.Collect(context.Background())
	require.NoError(t, err)

	events, ok := data.([]Event)
	require.True(t, ok)
	require.Len(t, events, 3)

	assert.Equal(t, "千葉県東方沖", events[0].Location)
	assert.Equal(t, "5弱", events[0].Intensity)
	assert.Equal(t, 4.8, events[0].Magnitude)
	assert.Equal(t, "10/18 7:05", events[0].When())

	assert.Equal(t, Unknown, events[1].Location)
	assert.Equal(t, Unknown, events[1].Intensity)
	assert.Equal(t, "10/17 23:41", events[1].When())

	assert.True(t, events[2].Time.IsZero())
	assert.Equal(t, "garbled", events[2].When())
}

func TestCollectServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(WithClient(srv.Client()), WithURL(srv.URL))
	_, err := c.Collect(context.Background())
	require.Error(t, err)
	assert.False(t, c.Healthy())
}
