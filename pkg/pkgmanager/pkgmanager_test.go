package pkgmanager

import (
	"context"
	"testing"

	"github.com/arthur-debert/provision/pkg/distro"
	"github.com/arthur-debert/provision/pkg/errors"
	"github.com/arthur-debert/provision/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		id   distro.ID
		want Kind
	}{
		{"fedora", DnfLike},
		{"rhel", DnfLike},
		{"centos", DnfLike},
		{"debian", AptLike},
		{"ubuntu", AptLike},
		{"pop", AptLike},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			got, err := Select(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectUnsupported(t *testing.T) {
	for _, id := range []distro.ID{"popos-unknown-variant", "arch", "redhat", distro.Unknown, ""} {
		t.Run(string(id), func(t *testing.T) {
			_, err := Select(id)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedDistro))
			assert.Contains(t, err.Error(), "Unsupported distribution: "+string(id))
			assert.Equal(t, string(id), errors.GetErrorDetails(err)["distro"])
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "apt", AptLike.String())
	assert.Equal(t, "dnf", DnfLike.String())
	assert.Equal(t, "kind(0)", Kind(0).String())
}

func TestCommands(t *testing.T) {
	apt := New(AptLike, testutil.NewFakeRunner())
	dnf := New(DnfLike, testutil.NewFakeRunner())

	assert.Equal(t, "apt list --installed", apt.ListCommand().String())
	assert.True(t, apt.ListCommand().Capture)
	assert.False(t, apt.ListCommand().Elevated)

	install := dnf.InstallCommand("ripgrep")
	assert.Equal(t, "dnf install ripgrep -y", install.String())
	assert.True(t, install.Elevated)

	var aptUpdates, dnfUpdates []string
	for _, c := range apt.UpdateCommands() {
		assert.True(t, c.Elevated)
		aptUpdates = append(aptUpdates, c.String())
	}
	for _, c := range dnf.UpdateCommands() {
		dnfUpdates = append(dnfUpdates, c.String())
	}
	assert.Equal(t, []string{"apt update"}, aptUpdates)
	assert.Equal(t, []string{"dnf update", "dnf upgrade"}, dnfUpdates)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("runs every refresh command", func(t *testing.T) {
		fake := testutil.NewFakeRunner()
		failed, err := New(DnfLike, fake).Update(ctx)
		require.NoError(t, err)
		assert.Empty(t, failed)
		assert.Equal(t, []string{"dnf update", "dnf upgrade"}, fake.Lines())
	})

	t.Run("non-zero exit is returned, not fatal", func(t *testing.T) {
		fake := testutil.NewFakeRunner().Fail("dnf update", 1)
		failed, err := New(DnfLike, fake).Update(ctx)
		require.NoError(t, err)
		require.Len(t, failed, 1)
		assert.Equal(t, "dnf update", failed[0].Command.String())
		assert.Equal(t, []string{"dnf update", "dnf upgrade"}, fake.Lines())
	})

	t.Run("spawn failure is fatal", func(t *testing.T) {
		fake := testutil.NewFakeRunner().SpawnFail("apt")
		_, err := New(AptLike, fake).Update(ctx)
		assert.True(t, errors.IsErrorCode(err, errors.ErrSpawnFailed))
	})
}
