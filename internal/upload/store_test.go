package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_Allowed(t *testing.T) {
	s := NewStore(t.TempDir())

	assert.True(t, s.Allowed("cover.png"))
	assert.True(t, s.Allowed("cover.jpg"))
	assert.True(t, s.Allowed("cover.jpeg"))
	assert.True(t, s.Allowed("cover.gif"))
	assert.True(t, s.Allowed("COVER.PNG")) // 大文字拡張子も通す

	assert.False(t, s.Allowed("cover.pdf"))
	assert.False(t, s.Allowed("cover.svg"))
	assert.False(t, s.Allowed("cover"))
	assert.False(t, s.Allowed(""))
	assert.False(t, s.Allowed("cover.png.exe")) // 最後の拡張子で判定
}
