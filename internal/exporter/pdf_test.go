package exporter

import (
	"testing"

	"github.com/alexanderramin/costvar/internal/costtree"
	"github.com/alexanderramin/costvar/internal/domain"
	"github.com/alexanderramin/costvar/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPDF_Complete(t *testing.T) {
	tree := costtree.Build(testutil.NewRichCostSheet(), domain.ViewByType)

	out, err := RenderPDF(exampleSession(), domain.ViewByType, tree)

	require.NoError(t, err)
	require.Greater(t, len(out), 5)
	assert.Equal(t, "%PDF-", string(out[:5]))
}

func TestRenderPDF_WithoutTree(t *testing.T) {
	out, err := RenderPDF(exampleSession(), domain.ViewByProcess, nil)

	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(out[:5]))
}

func TestRenderPDF_NoSession(t *testing.T) {
	_, err := RenderPDF(nil, domain.ViewByProcess, nil)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestVarianceColor(t *testing.T) {
	assert.Equal(t, overrunText, varianceColor(1))
	assert.Equal(t, savingText, varianceColor(-0.01))
	assert.Nil(t, varianceColor(0))
}
