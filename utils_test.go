package galleria_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sagarc03/galleria"
)

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"uuid unchanged", "3f2504e0-4f89-11d3-9a0c-0305e82c3301", "3f2504e0-4f89-11d3-9a0c-0305e82c3301"},
		{"traversal", "../../etc/passwd", "etc_passwd"},
		{"absolute path", "/etc/shadow", "etc_shadow"},
		{"backslash dropped", `..\..\boot.ini`, "boot.ini"},
		{"whitespace runs", "my   cat\tphoto", "my_cat_photo"},
		{"accents folded", "café crème", "cafe_creme"},
		{"non latin dropped", "画像", ""},
		{"dots only", "...", ""},
		{"leading underscores trimmed", "__hidden_", "hidden"},
		{"empty", "", ""},
		{"shell characters", "a;rm -rf $HOME", "arm_-rf_HOME"},
		{"null byte", "id\x00.png", "id.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := galleria.SanitizeID(tt.in)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "/")
			assert.NotContains(t, got, `\`)
		})
	}
}

func TestSanitizeID_NeverEscapes(t *testing.T) {
	for _, in := range []string{"..", "../", "./..", "....//....//", strings.Repeat("../", 50) + "x"} {
		got := galleria.SanitizeID(in)
		assert.NotEqual(t, "..", got)
		assert.False(t, strings.HasPrefix(got, "."), "input %q gave %q", in, got)
	}
}
