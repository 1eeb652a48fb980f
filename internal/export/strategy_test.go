package export

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-form-export/internal/form"
)

type fakeStrategy struct {
	name  string
	data  []byte
	err   error
	calls int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Render(context.Context, *Job) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

func textJob(lines ...string) *Job {
	blocks := make([]form.Block, 0, len(lines))
	for _, l := range lines {
		blocks = append(blocks, form.Block{Kind: form.BlockText, Text: l})
	}
	return &Job{Blocks: blocks, Theme: defaultTheme, Margin: 10}
}

// validPDF renders a real document through the layout strategy
func validPDF(t *testing.T) []byte {
	t.Helper()
	data, err := NewLayoutRenderer().Render(context.Background(), textJob("Bonjour"))
	require.NoError(t, err)
	return data
}

func TestChain_FallsBackInOrder(t *testing.T) {
	unavailable := &fakeStrategy{name: "a", err: ErrUnavailable}
	empty := &fakeStrategy{name: "b"}
	broken := &fakeStrategy{name: "c", data: []byte("%PDF-1.4 nope")}
	good := &fakeStrategy{name: "d", data: validPDF(t)}
	never := &fakeStrategy{name: "e", data: validPDF(t)}

	chain := NewChainOf([]Strategy{unavailable, empty, broken, good, never}, nil, nil)

	rendered, err := chain.Run(context.Background(), textJob("x"))
	require.NoError(t, err)

	assert.Equal(t, "d", rendered.Strategy)
	assert.Equal(t, 1, rendered.Pages)
	require.Len(t, rendered.Attempts, 3)
	assert.ErrorIs(t, rendered.Attempts[0], ErrUnavailable)
	assert.ErrorIs(t, rendered.Attempts[1], ErrEmptySurface)
	assert.Equal(t, "validate", rendered.Attempts[2].Op)
	assert.Zero(t, never.calls, "chain stops at the first success")
}

func TestChain_AllFail(t *testing.T) {
	chain := NewChainOf([]Strategy{
		&fakeStrategy{name: "layout", err: errors.New("boom")},
		&fakeStrategy{name: "raster"},
	}, nil, nil)

	_, err := chain.Run(context.Background(), textJob("x"))
	require.Error(t, err)

	var exportErr *ExportError
	require.ErrorAs(t, err, &exportErr)
	assert.Len(t, exportErr.Attempts, 2)
	assert.ErrorIs(t, err, ErrEmptySurface)
	assert.Contains(t, err.Error(), "boom")
}

func TestChain_Empty(t *testing.T) {
	chain := NewChainOf(nil, nil, nil)
	_, err := chain.Run(context.Background(), textJob("x"))
	assert.ErrorIs(t, err, ErrNoRenderer)
}

func TestChain_CancelledContext(t *testing.T) {
	s := &fakeStrategy{name: "a", data: []byte("x")}
	chain := NewChainOf([]Strategy{s}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := chain.Run(ctx, textJob("x"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.calls)
}

func TestNewChain(t *testing.T) {
	chain, err := NewChain([]string{"browser", "layout", "raster"}, ChainOptions{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"browser", "layout", "raster"}, chain.Names())

	_, err = NewChain([]string{"html2pdf"}, ChainOptions{}, nil)
	var se *StrategyError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create", se.Op)
}
