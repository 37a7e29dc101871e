package http

import (
	"io/fs"
	"strings"
	"testing"
)

func TestStaticAssets(t *testing.T) {
	assets := staticAssets()

	tests := []struct {
		path string
		want string
	}{
		{path: "css/style.css", want: ".sidebar"},
		{path: "js/websocket.js", want: "/ws"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			data, err := fs.ReadFile(assets, tt.path)
			if err != nil {
				t.Fatalf("asset %s is not embedded: %v", tt.path, err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Fatalf("expected %q in %s", tt.want, tt.path)
			}
		})
	}
}
