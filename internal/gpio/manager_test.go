package gpio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFake(t *testing.T) (*Manager, *FakeDriver) {
	t.Helper()
	d := NewFakeDriver(4)
	m, err := Open(d, "gpiochip0", "test", nil)
	require.NoError(t, err)
	return m, d
}

func TestOpenControllerUnavailable(t *testing.T) {
	d := NewFakeDriver(4)
	d.OpenError = errors.New("permission denied")

	m, err := Open(d, "gpiochip0", "test", nil)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrControllerUnavailable)
	assert.ErrorContains(t, err, "permission denied")
}

func TestAcquireOutputDrivesInitialValue(t *testing.T) {
	m, d := openFake(t)

	l, err := m.Acquire("red", 0, Output, 0)
	require.NoError(t, err)

	assert.Equal(t, "red", l.Name())
	assert.Equal(t, "gpiochip0", l.Chip())
	assert.Equal(t, 0, l.Offset())
	assert.Equal(t, Output, l.Direction())
	assert.Equal(t, 0, d.Chip.Level(0))
	assert.Equal(t, Output, d.Chip.Lines[0].Direction)
}

func TestAcquireLineUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		busy   bool
	}{
		{"negative offset", -1, false},
		{"offset beyond chip", 7, false},
		{"claimed by another consumer", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, d := openFake(t)
			d.Chip.Busy[tt.offset] = tt.busy

			l, err := m.Acquire("line", tt.offset, Output, 0)
			assert.Nil(t, l)
			assert.ErrorIs(t, err, ErrLineUnavailable)
			assert.Empty(t, m.Lines())
		})
	}
}

func TestAcquireRejectsInvalidInitialValue(t *testing.T) {
	m, d := openFake(t)

	_, err := m.Acquire("red", 0, Output, 2)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Empty(t, d.Chip.Requested)
}

func TestSetValueOnInputLine(t *testing.T) {
	m, d := openFake(t)
	button, err := m.Acquire("button", 3, Input, 0)
	require.NoError(t, err)

	err = button.SetValue(1)
	assert.ErrorIs(t, err, ErrInvalidDirection)
	assert.Empty(t, d.Chip.Writes)
}

func TestSetValueRejectsNonBinary(t *testing.T) {
	m, _ := openFake(t)
	red, err := m.Acquire("red", 0, Output, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, red.SetValue(-1), ErrInvalidValue)
	assert.ErrorIs(t, red.SetValue(5), ErrInvalidValue)
}

func TestSetAndGetValue(t *testing.T) {
	m, d := openFake(t)
	red, err := m.Acquire("red", 0, Output, 0)
	require.NoError(t, err)

	require.NoError(t, red.SetValue(1))
	assert.Equal(t, 1, d.Chip.Level(0))
	assert.Equal(t, 1, red.LastValue())

	v, err := red.Value()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestDriverFailuresWrapIOError(t *testing.T) {
	m, d := openFake(t)
	red, err := m.Acquire("red", 0, Output, 0)
	require.NoError(t, err)
	button, err := m.Acquire("button", 3, Input, 0)
	require.NoError(t, err)

	d.Chip.Lines[0].WriteError = errors.New("input/output error")
	d.Chip.Lines[3].ReadError = errors.New("input/output error")

	err = red.SetValue(1)
	assert.ErrorIs(t, err, ErrIO)
	assert.Equal(t, 0, red.LastValue())

	_, err = button.Value()
	assert.ErrorIs(t, err, ErrIO)
}

func TestReleaseIsIdempotent(t *testing.T) {
	m, d := openFake(t)
	red, err := m.Acquire("red", 0, Output, 0)
	require.NoError(t, err)

	require.NoError(t, red.Release())
	require.NoError(t, red.Release())
	assert.True(t, red.Released())
	assert.Equal(t, 1, d.Chip.Lines[0].CloseCount)

	assert.ErrorIs(t, red.SetValue(1), ErrReleased)
	_, err = red.Value()
	assert.ErrorIs(t, err, ErrReleased)
}

func TestCloseReleasesAllLinesInReverseOrder(t *testing.T) {
	m, d := openFake(t)
	for i, name := range []string{"red", "yellow", "green"} {
		_, err := m.Acquire(name, i, Output, 0)
		require.NoError(t, err)
	}
	_, err := m.Acquire("button", 3, Input, 0)
	require.NoError(t, err)

	// Releasing one line early must not release it a second time on Close.
	require.NoError(t, m.Lines()[1].Release())

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	for offset, l := range d.Chip.Lines {
		assert.True(t, l.Closed, "offset %d", offset)
		assert.Equal(t, 1, l.CloseCount, "offset %d", offset)
	}
	assert.True(t, d.Chip.Closed)

	_, err = m.Acquire("late", 0, Output, 0)
	assert.ErrorIs(t, err, ErrControllerUnavailable)
}

func TestCloseJoinsReleaseErrors(t *testing.T) {
	m, d := openFake(t)
	_, err := m.Acquire("red", 0, Output, 0)
	require.NoError(t, err)
	_, err = m.Acquire("yellow", 1, Output, 0)
	require.NoError(t, err)

	d.Chip.Lines[0].CloseError = errors.New("bad file descriptor")

	err = m.Close()
	assert.ErrorIs(t, err, ErrIO)
	assert.True(t, d.Chip.Lines[1].Closed, "later lines are still released")
	assert.True(t, d.Chip.Closed)
}

func TestWithSessionReleasesOnError(t *testing.T) {
	d := NewFakeDriver(4)
	d.Chip.Busy[1] = true

	err := WithSession(d, "gpiochip0", "test", nil, func(m *Manager) error {
		for i, name := range []string{"red", "yellow", "green"} {
			if _, err := m.Acquire(name, i, Output, 0); err != nil {
				return err
			}
		}
		return nil
	})

	assert.ErrorIs(t, err, ErrLineUnavailable)
	assert.Equal(t, []int{0, 1}, d.Chip.Requested, "offset 2 must not be requested")
	assert.True(t, d.Chip.Lines[0].Closed)
	assert.True(t, d.Chip.Closed)
}

func TestWithSessionReleasesOnPanic(t *testing.T) {
	d := NewFakeDriver(4)

	assert.Panics(t, func() {
		_ = WithSession(d, "gpiochip0", "test", nil, func(m *Manager) error {
			if _, err := m.Acquire("red", 0, Output, 0); err != nil {
				return err
			}
			panic("boom")
		})
	})

	assert.True(t, d.Chip.Lines[0].Closed)
	assert.True(t, d.Chip.Closed)
}

func TestWithSessionSuccess(t *testing.T) {
	d := NewFakeDriver(4)

	err := WithSession(d, "gpiochip0", "test", nil, func(m *Manager) error {
		assert.Equal(t, "gpiochip0", m.ChipName())
		_, err := m.Acquire("button", 3, Input, 0)
		return err
	})

	require.NoError(t, err)
	assert.True(t, d.Chip.Lines[3].Closed)
	assert.True(t, d.Chip.Closed)
}

func TestWithSessionOpenFailure(t *testing.T) {
	d := NewFakeDriver(4)
	d.OpenError = errors.New("no such file or directory")

	called := false
	err := WithSession(d, "gpiochip0", "test", nil, func(m *Manager) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrControllerUnavailable)
	assert.False(t, called)
}
