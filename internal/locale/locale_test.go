package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("en"))
	assert.True(t, IsSupported("am"))
	assert.False(t, IsSupported("de"))
	assert.False(t, IsSupported(""))
}

func TestSupported(t *testing.T) {
	assert.Len(t, Supported(), 5)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name           string
		cookie         string
		acceptLanguage string
		want           string
	}{
		{"cookie wins", "ar", "fr-FR,fr;q=0.9", "ar"},
		{"unsupported cookie falls through", "de", "es-MX,es;q=0.8", "es"},
		{"accept-language first tag", "", "fr-CA,fr;q=0.9,en;q=0.8", "fr"},
		{"region stripped", "", "am-ET", "am"},
		{"unsupported header falls to default", "", "de-DE,de;q=0.9", "en"},
		{"nothing set", "", "", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.cookie, tt.acceptLanguage))
		})
	}
}
