package datasource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorlens/schemarag/pkg/apperrors"
)

type stubSource struct {
	SchemaSource
	opts Options
}

func TestRegisterAndCreate(t *testing.T) {
	Register(AdapterRegistration{
		Info: AdapterInfo{Type: "stub", DisplayName: "Stub"},
		Factory: func(ctx context.Context, config map[string]any, opts Options) (SchemaSource, error) {
			return &stubSource{opts: opts}, nil
		},
	})

	require.True(t, IsRegistered("stub"))

	src, err := NewSchemaSource(context.Background(), "stub", map[string]any{}, Options{SampleRows: 3})
	require.NoError(t, err)

	stub, ok := src.(*stubSource)
	require.True(t, ok)
	assert.Equal(t, 3, stub.opts.SampleRows)
	assert.NotNil(t, stub.opts.Logger, "nil logger must be replaced with a no-op")
}

func TestNewSchemaSourceUnknownType(t *testing.T) {
	_, err := NewSchemaSource(context.Background(), "no-such-db", nil, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnknownDatasourceType)
}

func TestRegisteredAdaptersListsInfo(t *testing.T) {
	Register(AdapterRegistration{
		Info: AdapterInfo{Type: "stub2", DisplayName: "Stub Two"},
		Factory: func(ctx context.Context, config map[string]any, opts Options) (SchemaSource, error) {
			return &stubSource{}, nil
		},
	})

	var found bool
	for _, info := range RegisteredAdapters() {
		if info.Type == "stub2" {
			found = true
			assert.Equal(t, "Stub Two", info.DisplayName)
		}
	}
	assert.True(t, found)
}
