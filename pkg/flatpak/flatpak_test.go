package flatpak_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/arthur-debert/provision/pkg/errors"
	"github.com/arthur-debert/provision/pkg/flatpak"
	"github.com/arthur-debert/provision/pkg/installer"
	"github.com/arthur-debert/provision/pkg/output"
	"github.com/arthur-debert/provision/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flathubURL = "https://dl.flathub.org/repo/flathub.flatpakrepo"

func TestEnsureRemote(t *testing.T) {
	fake := testutil.NewFakeRunner()
	fp := flatpak.New("flathub", flathubURL, fake)

	require.NoError(t, fp.EnsureRemote(context.Background()))
	assert.Equal(t, []string{"flatpak remote-add --if-not-exists flathub " + flathubURL}, fake.Lines())
}

func TestEnsureRemoteFailures(t *testing.T) {
	fake := testutil.NewFakeRunner().Fail("flatpak remote-add", 1)
	err := flatpak.New("flathub", flathubURL, fake).EnsureRemote(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrCommandFailed))

	fake = testutil.NewFakeRunner().SpawnFail("flatpak")
	err = flatpak.New("flathub", flathubURL, fake).EnsureRemote(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrSpawnFailed))
}

func TestAppsInstalledThroughInstaller(t *testing.T) {
	listing := "Name     Application ID            Version  Branch  Installation\n" +
		"VLC      org.videolan.VLC          3.0.20   stable  system\n"
	fake := testutil.NewFakeRunner().Output("flatpak list", listing)
	fp := flatpak.New("flathub", flathubURL, fake)
	var buf bytes.Buffer

	summary, err := installer.New(fp, output.NewPlainReporter(&buf), 0,
		installer.WithSleep(func(time.Duration) {})).
		Install(context.Background(), []string{"com.bitwarden.desktop", "org.videolan.VLC"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"flatpak list",
		"flatpak install com.bitwarden.desktop -y",
		"flatpak list",
	}, fake.Lines())
	assert.Equal(t, []string{"org.videolan.VLC"}, summary.Skipped)
	assert.Contains(t, buf.String(), "org.videolan.VLC already installed")

	for _, c := range fake.Calls() {
		assert.False(t, c.Elevated, "flatpak commands run unprivileged")
	}
}
