package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllowedExtension(t *testing.T) {
	allowed := []string{"png", "jpg", "jpeg", "webp", "bmp"}

	tests := []struct {
		filename string
		want     bool
	}{
		{"ocean.png", true},
		{"ocean.JPG", true},
		{"archive.tar.jpeg", true},
		{"ocean.gif", false},
		{"ocean", false},
		{"", false},
		{".png", true},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, AllowedExtension(tt.filename, allowed), tt.filename)
	}
}

func TestNormalizeExtension(t *testing.T) {
	require.Equal(t, "png", NormalizeExtension("a.PNG"))
	require.Equal(t, "", NormalizeExtension("noext"))
	require.Equal(t, "webp", NormalizeExtension("dir/photo.webp"))
}
