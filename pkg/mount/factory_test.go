package mount

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structfs/structfs/pkg/help"
)

func TestFactoryCreateMemory(t *testing.T) {
	f := NewStoreFactory(nil)
	s, err := f.Create(Config{Type: TypeMemory})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestFactoryCreateLocalRequiresPath(t *testing.T) {
	f := NewStoreFactory(nil)
	_, err := f.Create(Config{Type: TypeLocal})
	assert.Error(t, err)
}

func TestFactoryCreateLocalBacksOntoDisk(t *testing.T) {
	f := NewStoreFactory(nil)
	file := filepath.Join(t.TempDir(), "root.json")
	s, err := f.Create(Config{Type: TypeLocal, Local: LocalConfig{Path: file}})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestFactoryCreateHttpRequiresBaseURL(t *testing.T) {
	f := NewStoreFactory(nil)
	_, err := f.Create(Config{Type: TypeHttp})
	assert.Error(t, err)
}

func TestFactoryCreateHttpBroker(t *testing.T) {
	f := NewStoreFactory(nil)
	s, err := f.Create(Config{Type: TypeHttpBroker})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestFactoryCreateSys(t *testing.T) {
	f := NewStoreFactory(nil)
	s, err := f.Create(Config{Type: TypeSys})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestFactoryCreateRegisters(t *testing.T) {
	f := NewStoreFactory(nil)
	s, err := f.Create(Config{Type: TypeRegisters})
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestFactoryCreateHelpRequiresIndex(t *testing.T) {
	f := NewStoreFactory(nil)
	_, err := f.Create(Config{Type: TypeHelp})
	assert.Error(t, err)
}

func TestFactoryCreateHelpUsesWiredIndex(t *testing.T) {
	idx := help.New()
	f := NewStoreFactory(idx)
	s, err := f.Create(Config{Type: TypeHelp})
	require.NoError(t, err)
	assert.Same(t, idx, s)
}

func TestFactoryCreateUnknownTypeFails(t *testing.T) {
	f := NewStoreFactory(nil)
	_, err := f.Create(Config{Type: "bogus"})
	assert.Error(t, err)
}

func TestFactoryCreateInstrumentedWrapsStore(t *testing.T) {
	f := NewStoreFactory(nil)
	s, err := f.CreateInstrumented("ctx/data", Config{Type: TypeMemory})
	require.NoError(t, err)
	assert.NotNil(t, s)
}
