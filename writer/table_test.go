package writer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadar/recall-ticker/price"
)

func TestTableWriter(t *testing.T) {

	t.Run("unknown column", func(t *testing.T) {
		_, err := newTableWriter(&bytes.Buffer{}, []string{"Symbol", "Volume"})
		assert.Error(t, err)
	})

	t.Run("render", func(t *testing.T) {
		var out bytes.Buffer
		tw, err := newTableWriter(&out, []string{"symbol", "Address", "Price", "Chain", "Updated"})
		require.NoError(t, err)

		tw.Render([]*price.SymbolPrice{
			{Symbol: "WETH", Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Price: 3500.5,
				Chain: "evm", SpecificChain: "eth", UpdateAt: time.Now()},
			{Symbol: "FOO", Chain: "evm", SpecificChain: "eth", UpdateAt: time.Now()},
		})

		rendered := out.String()
		assert.Contains(t, rendered, "WETH")
		assert.Contains(t, rendered, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
		assert.Contains(t, rendered, "3500.5000")
		assert.Contains(t, rendered, "0.0000")
		assert.Contains(t, rendered, "evm/eth")
	})
}
