package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyError_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		err  *StrategyError
		want string
	}{
		{
			name: "with cause",
			err:  &StrategyError{Strategy: "raster", Op: "render", Err: ErrEmptySurface},
			want: `{"strategy":"raster","operation":"render","error":"` + ErrEmptySurface.Error() + `"}`,
		},
		{
			name: "zero value",
			err:  &StrategyError{},
			want: `{"strategy":"","operation":""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.err)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}
