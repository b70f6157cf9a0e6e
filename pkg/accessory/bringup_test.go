package accessory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dbahrdt/accessory-bringup/pkg/accessory"
	"github.com/dbahrdt/accessory-bringup/pkg/accessory/mocks"
	"github.com/dbahrdt/accessory-bringup/pkg/log"
)

func TestBringupInit(t *testing.T) {
	rt := mocks.NewMockRuntime(t)
	var registered *accessory.Accessory
	rt.EXPECT().Init(accessory.TransportWiFi).Return(nil).Once()
	rt.EXPECT().AddAccessory(mock.Anything).Run(func(a *accessory.Accessory) { registered = a }).Return(nil).Once()

	b := accessory.NewBringup(accessory.Config{Info: accessory.DefaultInfo()}, rt)
	require.NoError(t, b.Init())
	require.NotNil(t, registered)
	assert.Same(t, registered, b.Accessory())

	outlet, err := registered.Service(accessory.ServiceOutlet)
	require.NoError(t, err)
	assert.True(t, outlet.Primary())
	name, err := outlet.Characteristic(accessory.CharName)
	require.NoError(t, err)
	assert.Equal(t, accessory.DefaultServiceName, name.Value())
}

func TestBringupInitFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(rt *mocks.MockRuntime)
		cfg   accessory.Config
	}{
		{
			name:  "runtime init",
			setup: func(rt *mocks.MockRuntime) { rt.EXPECT().Init(mock.Anything).Return(boom).Once() },
			cfg:   accessory.Config{Info: accessory.DefaultInfo()},
		},
		{
			name:  "invalid info",
			setup: func(rt *mocks.MockRuntime) { rt.EXPECT().Init(mock.Anything).Return(nil).Once() },
			cfg:   accessory.Config{},
		},
		{
			name: "add accessory",
			setup: func(rt *mocks.MockRuntime) {
				rt.EXPECT().Init(mock.Anything).Return(nil).Once()
				rt.EXPECT().AddAccessory(mock.Anything).Return(boom).Once()
			},
			cfg: accessory.Config{Info: accessory.DefaultInfo()},
		},
		{
			name: "hardware auth",
			setup: func(rt *mocks.MockRuntime) {
				rt.EXPECT().Init(mock.Anything).Return(nil).Once()
				rt.EXPECT().AddAccessory(mock.Anything).Return(nil).Once()
				rt.EXPECT().EnableHardwareAuth().Return(accessory.ErrHardwareAuthUnavailable).Once()
			},
			cfg: accessory.Config{Info: accessory.DefaultInfo(), HardwareAuth: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := mocks.NewMockRuntime(t)
			tt.setup(rt)
			rec := log.NewRecorder(0)
			tt.cfg.Trace = rec

			b := accessory.NewBringup(tt.cfg, rt)
			err := b.Init()
			require.Error(t, err)
			assert.ErrorIs(t, err, accessory.ErrInit)
			assert.Nil(t, b.Accessory())

			cat := log.CategoryError
			events := rec.Events(log.Filter{Category: &cat})
			require.Len(t, events, 1)
			assert.True(t, events[0].Error.Fatal)
		})
	}
}

func TestBringupStart(t *testing.T) {
	rt := mocks.NewMockRuntime(t)
	b := accessory.NewBringup(accessory.Config{Info: accessory.DefaultInfo()}, rt)

	err := b.Start()
	assert.ErrorIs(t, err, accessory.ErrStart)
	assert.ErrorIs(t, err, accessory.ErrNotInitialized)

	rt.EXPECT().Init(mock.Anything).Return(nil).Once()
	rt.EXPECT().AddAccessory(mock.Anything).Return(nil).Once()
	require.NoError(t, b.Init())

	rt.EXPECT().Start().Return(errors.New("port in use")).Once()
	assert.ErrorIs(t, b.Start(), accessory.ErrStart)
	require.NoError(t, b.Stop(), "stop after failed start is a no-op")

	rt.EXPECT().Start().Return(nil).Once()
	require.NoError(t, b.Start())

	rt.EXPECT().Stop().Return(nil).Once()
	require.NoError(t, b.Stop())
	require.NoError(t, b.Stop())
}

func TestBringupCallbacks(t *testing.T) {
	rt := mocks.NewMockRuntime(t)
	rt.EXPECT().Init(mock.Anything).Return(nil).Once()
	rt.EXPECT().AddAccessory(mock.Anything).Return(nil).Once()
	rt.EXPECT().IsWiFiProvisioned().Return(true).Once()

	b := accessory.NewBringup(accessory.Config{Info: accessory.DefaultInfo()}, rt)
	require.NoError(t, b.Init())
	acc := b.Accessory()

	assert.Equal(t, accessory.StatusSuccess, acc.Identify())
	assert.Equal(t, uint64(1), b.Identifies())

	outlet, _ := acc.Service(accessory.ServiceOutlet)
	on, _ := outlet.Characteristic(accessory.CharOn)
	statuses := acc.Write([]accessory.WriteRequest{{IID: on.IID(), Value: true}}, nil)
	assert.Equal(t, []accessory.Status{accessory.StatusSuccess}, statuses)
	assert.Equal(t, uint64(1), b.Writes())
	assert.Equal(t, true, on.Value())

	assert.True(t, b.IsWiFiProvisioned())
}
