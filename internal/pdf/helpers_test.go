package pdf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/require"
)

const onePage = `{
	"paper": "A4P",
	"origin": "UpperLeft",
	"pages": {
		"1": {
			"content": {
				"text": [
					{"value": "Bonjour Jean Dupont", "pos": [40, 60], "font": {"name": "Helvetica", "size": 12}}
				]
			}
		}
	}
}`

// samplePDF renders a one page document with a text layer
func samplePDF(t *testing.T) []byte {
	t.Helper()
	conf := model.NewDefaultConfiguration()
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false

	var buf bytes.Buffer
	require.NoError(t, api.Create(nil, strings.NewReader(onePage), &buf, conf))
	return buf.Bytes()
}
