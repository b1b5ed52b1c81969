package plugins

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/comani/internal/core/domain"
	"github.com/custodia-labs/comani/internal/core/ports/driven"
)

// registryMockExtractor is a simple mock for testing registry functionality.
type registryMockExtractor struct {
	os   string
	vcs  string
	name string
}

func (m *registryMockExtractor) SupportsOS(os string) bool   { return m.os == "" || m.os == os }
func (m *registryMockExtractor) SupportsVCS(vcs string) bool { return m.vcs == vcs }
func (m *registryMockExtractor) Extract(_ context.Context, _ string) error {
	return nil
}
func (m *registryMockExtractor) ExtractIDs(_ context.Context, _ string, _ []string) error {
	return nil
}
func (m *registryMockExtractor) ExtractText(_ context.Context, _ string) error {
	return nil
}

type registryMockAnalyzer struct{}

func (m *registryMockAnalyzer) SupportsOS(_ string) bool        { return true }
func (m *registryMockAnalyzer) SupportsVCS(_ string) bool       { return true }
func (m *registryMockAnalyzer) Analyze(_ context.Context) error { return nil }

func gitBuilder(env ExtractorEnv) (driven.Extractor, error) {
	return &registryMockExtractor{vcs: "git", name: env.Properties.Get("extraction.name")}, nil
}

func TestNewRegistries(t *testing.T) {
	e := NewExtractorRegistry()
	a := NewAnalyzerRegistry()

	require.NotNil(t, e)
	require.NotNil(t, a)
	assert.Empty(t, e.Names())
	assert.Empty(t, a.Names())
}

func TestRegistry_RegisterAndHas(t *testing.T) {
	r := NewExtractorRegistry()
	assert.False(t, r.Has("git"))

	r.Register("git", gitBuilder)

	assert.True(t, r.Has("git"))
}

func TestRegistry_Create_Success(t *testing.T) {
	r := NewExtractorRegistry()
	r.Register("git", gitBuilder)

	env := ExtractorEnv{Properties: domain.Properties{"extraction.name": "custom"}}
	e, err := r.Create("git", "linux", "git", env)
	require.NoError(t, err)

	mock, ok := e.(*registryMockExtractor)
	require.True(t, ok)
	assert.Equal(t, "custom", mock.name)
}

func TestRegistry_Create_Unknown(t *testing.T) {
	r := NewExtractorRegistry()

	e, err := r.Create("svn", "linux", "svn", ExtractorEnv{})

	assert.Nil(t, e)
	assert.True(t, errors.Is(err, domain.ErrUnknownPlugin))
	assert.Contains(t, err.Error(), "svn")
}

func TestRegistry_Create_BuilderError(t *testing.T) {
	r := NewExtractorRegistry()
	r.Register("broken", func(_ ExtractorEnv) (driven.Extractor, error) {
		return nil, errors.New("no token")
	})

	_, err := r.Create("broken", "linux", "git", ExtractorEnv{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "build broken")
	assert.Contains(t, err.Error(), "no token")
}

func TestRegistry_Create_UnsupportedOS(t *testing.T) {
	r := NewExtractorRegistry()
	r.Register("win-only", func(_ ExtractorEnv) (driven.Extractor, error) {
		return &registryMockExtractor{os: "windows", vcs: "git"}, nil
	})

	e, err := r.Create("win-only", "linux", "git", ExtractorEnv{})

	assert.Nil(t, e)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedOS))
}

func TestRegistry_Create_UnsupportedVCS(t *testing.T) {
	r := NewExtractorRegistry()
	r.Register("git", gitBuilder)

	e, err := r.Create("git", "linux", "svn", ExtractorEnv{})

	assert.Nil(t, e)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedVCS))
}

func TestRegistry_Names(t *testing.T) {
	r := NewAnalyzerRegistry()
	builder := func(_ AnalyzerEnv) (driven.Analyzer, error) {
		return &registryMockAnalyzer{}, nil
	}
	r.Register("beta", builder)
	r.Register("alpha", builder)

	assert.Equal(t, []string{"alpha", "beta"}, r.Names())
}

func TestRegistry_AnalyzerCreate(t *testing.T) {
	r := NewAnalyzerRegistry()
	r.Register("noop", func(_ AnalyzerEnv) (driven.Analyzer, error) {
		return &registryMockAnalyzer{}, nil
	})

	a, err := r.Create("noop", "darwin", "git", AnalyzerEnv{RunID: "run-1"})

	require.NoError(t, err)
	assert.NoError(t, a.Analyze(context.Background()))
}
