package dtracksdk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConnectionString_PortOnly(t *testing.T) {
	spec, err := ParseConnectionString("5000")
	require.NoError(t, err)
	assert.Equal(t, ModeListenOnly, spec.Mode)
	assert.Equal(t, 5000, spec.Port)
	assert.Equal(t, "", spec.Host)
}

func TestParseConnectionString_Multicast(t *testing.T) {
	spec, err := ParseConnectionString("239.0.0.1:5000")
	require.NoError(t, err)
	assert.Equal(t, ModeMulticast, spec.Mode)
	assert.Equal(t, "239.0.0.1", spec.MulticastGroup)
	assert.Equal(t, 5000, spec.Port)
}

func TestParseConnectionString_Communicating(t *testing.T) {
	spec, err := ParseConnectionString("10.1.1.1:5000")
	require.NoError(t, err)
	assert.Equal(t, ModeCommunicating, spec.Mode)
	assert.Equal(t, "10.1.1.1", spec.Host)
	assert.Equal(t, 5000, spec.Port)
}

func TestParseConnectionString_Firewall(t *testing.T) {
	spec, err := ParseConnectionString("10.1.1.1:5000:fw")
	require.NoError(t, err)
	assert.Equal(t, ModeFirewall, spec.Mode)
	assert.Equal(t, "10.1.1.1", spec.Host)
	assert.Equal(t, 5000, spec.Port)
}

func TestParseConnectionString_Empty(t *testing.T) {
	_, err := ParseConnectionString("")
	assert.Error(t, err)
}

func TestParseConnectionString_BadPort(t *testing.T) {
	_, err := ParseConnectionString("notaport")
	assert.Error(t, err)
}

func TestParseConnectionString_BadSuffix(t *testing.T) {
	_, err := ParseConnectionString("10.1.1.1:5000:bogus")
	assert.Error(t, err)
}

func TestParseConnectionString_TooManyParts(t *testing.T) {
	_, err := ParseConnectionString("a:b:c:d")
	assert.Error(t, err)
}

func TestConnectionMode_String(t *testing.T) {
	assert.Equal(t, "listen-only", ModeListenOnly.String())
	assert.Equal(t, "multicast", ModeMulticast.String())
	assert.Equal(t, "communicating", ModeCommunicating.String())
	assert.Equal(t, "firewall", ModeFirewall.String())
	assert.Equal(t, "unknown", ConnectionMode(99).String())
}

func TestIsMulticastHost(t *testing.T) {
	assert.True(t, isMulticastHost("239.0.0.1"))
	assert.False(t, isMulticastHost("10.1.1.1"))
	assert.False(t, isMulticastHost("not-an-ip"))
}
