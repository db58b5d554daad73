package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music-hub/pkg/common/config"
)

func TestRedact(t *testing.T) {
	in := map[string]string{
		"correo_electronico":   "a@b.com",
		"contraseña":           "secret1",
		"secret_key":           "ClaveSecretaMuySegura",
		"MASTER_USER_PASSWORD": "hunter22",
	}
	out := Redact(in)

	assert.Equal(t, "a@b.com", out["correo_electronico"])
	assert.Equal(t, "REDACTED", out["contraseña"])
	assert.Equal(t, "REDACTED", out["secret_key"])
	assert.Equal(t, "REDACTED", out["MASTER_USER_PASSWORD"])
	assert.Equal(t, "secret1", in["contraseña"], "input must not be modified")
}

func TestKV(t *testing.T) {
	assert.Equal(t, "id=7 password=REDACTED dangling=", KV("id", 7, "password", "p", "dangling"))
	assert.Equal(t, "a=1 b=2", Fields(map[string]string{"b": "2", "a": "1"}))
}

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	closeFn, err := Setup(config.LogConfig{Level: "debug", File: path})
	require.NoError(t, err)
	t.Cleanup(func() {
		hlog.SetOutput(os.Stderr)
		hlog.SetLevel(hlog.LevelInfo)
	})

	hlog.Infof("hello %s", "file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}
