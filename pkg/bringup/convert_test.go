package bringup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbahrdt/accessory-bringup/pkg/accessory"
	"github.com/dbahrdt/accessory-bringup/pkg/config"
	"github.com/dbahrdt/accessory-bringup/pkg/provisioning"
)

func TestAccessoryInfoFromDefaults(t *testing.T) {
	info, err := accessoryInfo(config.Default().Device)
	require.NoError(t, err)
	assert.Equal(t, accessory.DefaultInfo(), info)
}

func TestServiceIdentity(t *testing.T) {
	id, err := serviceIdentity(config.Default().Provisioning)
	require.NoError(t, err)
	assert.Equal(t, provisioning.ServiceIdentity{
		Name:              "mwe-wolfssl-crash",
		Security:          provisioning.SecurityAuthenticatedEncrypted,
		ProofOfPossession: "106000115",
	}, id)

	open := config.Default().Provisioning
	open.Security = "open"
	id, err = serviceIdentity(open)
	require.NoError(t, err)
	assert.Equal(t, provisioning.SecurityOpen, id.Security)
	assert.Empty(t, id.ProofOfPossession)

	short := "short"
	bad := config.Default().Provisioning
	bad.ServiceKey = &short
	_, err = serviceIdentity(bad)
	assert.ErrorIs(t, err, provisioning.ErrInvalidIdentity)

	bad = config.Default().Provisioning
	bad.Security = "tls"
	_, err = serviceIdentity(bad)
	assert.Error(t, err)
}

func TestFatalError(t *testing.T) {
	err := &FatalError{Component: ComponentServer, Err: accessory.ErrStart}
	assert.Equal(t, "fatal server error: accessory start failed", err.Error())
	assert.ErrorIs(t, err, accessory.ErrStart)
}
