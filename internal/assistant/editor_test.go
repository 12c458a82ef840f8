package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk-hq/newsdesk-go/internal/chat"
)

func TestNormalizeContentAction(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"fill", "fill"},
		{"replace", "replace"},
		{"append", "append"},
		{"update_headline", "update_headline"},
		{"update_keywords", "update_keywords"},
		{"bogus", "fill"},
		{"", "fill"},
		{"FILL", "fill"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeContentAction(tt.in))
		})
	}
}

func TestEditorStoreSetNormalizes(t *testing.T) {
	t.Parallel()
	s := NewEditorStore()

	stored := s.Set(chat.EditorContent{Headline: "H", Action: "bogus"})
	assert.Equal(t, ContentActionFill, stored.Action)

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, ContentActionFill, cur.Action)
	assert.Equal(t, "H", cur.Headline)
}

func TestEditorStoreTakeConsumes(t *testing.T) {
	t.Parallel()
	s := NewEditorStore()

	_, ok := s.Take()
	assert.False(t, ok)

	s.Set(chat.EditorContent{Content: "body", Action: ContentActionAppend})
	ec, ok := s.Take()
	require.True(t, ok)
	assert.Equal(t, ContentActionAppend, ec.Action)

	_, ok = s.Take()
	assert.False(t, ok, "take must consume the payload")
}

func TestEditorStoreSetOverwrites(t *testing.T) {
	t.Parallel()
	s := NewEditorStore()

	s.Set(chat.EditorContent{Headline: "first", Action: ContentActionFill})
	s.Set(chat.EditorContent{Headline: "second", Action: ContentActionReplace})

	ec, ok := s.Take()
	require.True(t, ok)
	assert.Equal(t, "second", ec.Headline)
}
