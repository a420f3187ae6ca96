package tlsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDevCertificate_LoadsAsServerAndClient(t *testing.T) {
	certFile, keyFile, err := WriteDevCertificate(t.TempDir(), "localhost", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, DevCertFile, filepath.Base(certFile))
	assert.Equal(t, DevKeyFile, filepath.Base(keyFile))

	serverCreds, err := ServerTLSConfig(certFile, keyFile)
	require.NoError(t, err)
	assert.Equal(t, "tls", serverCreds.Info().SecurityProtocol)

	clientCreds, err := ClientTLSConfig(certFile)
	require.NoError(t, err)
	assert.Equal(t, "tls", clientCreds.Info().SecurityProtocol)
}

func TestClientTLSConfig_BadCA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a certificate"), 0o600))

	_, err := ClientTLSConfig(path)
	assert.Error(t, err)
}

func TestClientTLSConfig_SystemPool(t *testing.T) {
	creds, err := ClientTLSConfig("")
	require.NoError(t, err)
	assert.NotNil(t, creds)
}

func TestServerTLSConfig_MissingFiles(t *testing.T) {
	_, err := ServerTLSConfig("/nonexistent/cert.pem", "/nonexistent/key.pem")
	assert.Error(t, err)
}
