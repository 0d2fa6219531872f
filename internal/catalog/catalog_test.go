package catalog

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Products(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestStatic_Title(t *testing.T) {
	c := Static{"prod123": "Jamche Tour"}

	title, ok := c.Title("prod123")
	assert.True(t, ok)
	assert.Equal(t, "Jamche Tour", title)

	_, ok = c.Title("prod999")
	assert.False(t, ok)

	_, ok = Static(nil).Title("prod123")
	assert.False(t, ok)
}

func TestRefreshing_Refresh(t *testing.T) {
	source := &MockSource{}
	ctx := context.Background()

	c := NewRefreshing(source, map[string]string{"prod123": "Jamche Tour"}, quietLogger())

	title, ok := c.Title("prod123")
	require.True(t, ok)
	assert.Equal(t, "Jamche Tour", title)

	source.On("Products", ctx).Return(map[string]string{"prod456": "Spiritual Walk"}, nil).Once()
	require.NoError(t, c.Refresh(ctx))

	_, ok = c.Title("prod123")
	assert.False(t, ok)
	title, ok = c.Title("prod456")
	assert.True(t, ok)
	assert.Equal(t, "Spiritual Walk", title)
	assert.Equal(t, 1, c.Len())

	source.AssertExpectations(t)
}

func TestRefreshing_RefreshErrorKeepsSnapshot(t *testing.T) {
	source := &MockSource{}
	ctx := context.Background()

	c := NewRefreshing(source, map[string]string{"prod123": "Jamche Tour"}, quietLogger())
	source.On("Products", ctx).Return(nil, errors.New("db down")).Once()

	err := c.Refresh(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "db down")

	title, ok := c.Title("prod123")
	assert.True(t, ok)
	assert.Equal(t, "Jamche Tour", title)
}

func TestRefreshing_SeedIsCopied(t *testing.T) {
	seed := map[string]string{"prod123": "Jamche Tour"}
	c := NewRefreshing(&MockSource{}, seed, quietLogger())

	seed["prod123"] = "Changed"
	title, _ := c.Title("prod123")
	assert.Equal(t, "Jamche Tour", title)
}

func TestRefreshing_RunStopsOnCancel(t *testing.T) {
	source := &MockSource{}
	source.On("Products", mock.Anything).Return(map[string]string{"prod456": "Spiritual Walk"}, nil)

	c := NewRefreshing(source, nil, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		c.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, ok := c.Title("prod456")
		return ok
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
