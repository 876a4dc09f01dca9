package util

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(t *testing.T, rawURL string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	return req
}

func clearProxyEnv(t *testing.T) {
	for _, key := range []string{"HTTP_PROXY", "http_proxy", "HTTPS_PROXY", "https_proxy", "NO_PROXY", "no_proxy"} {
		t.Setenv(key, "")
	}
}

func TestNewProxyFunc(t *testing.T) {
	clearProxyEnv(t)

	proxy := NewProxyFunc("http://plain.proxy:8080", "http://secure.proxy:8443", "internal.example.com")

	u, err := proxy(request(t, "http://releases.example.com/a.json"))
	require.NoError(t, err)
	assert.Equal(t, "plain.proxy:8080", u.Host)

	u, err = proxy(request(t, "https://releases.example.com/a.json"))
	require.NoError(t, err)
	assert.Equal(t, "secure.proxy:8443", u.Host)

	u, err = proxy(request(t, "https://internal.example.com/a.json"))
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestNewProxyFunc_Environment(t *testing.T) {
	clearProxyEnv(t)
	t.Setenv("HTTPS_PROXY", "http://env.proxy:3128")

	u, err := NewProxyFunc("", "", "")(request(t, "https://releases.example.com/a.json"))
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "env.proxy:3128", u.Host)
}

func TestNewProxyFunc_None(t *testing.T) {
	clearProxyEnv(t)

	u, err := NewProxyFunc("", "", "")(request(t, "https://releases.example.com/a.json"))
	require.NoError(t, err)
	assert.Nil(t, u)
}
