package entry

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBlocks(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []LangText
		wantErr string
	}{
		{
			name: "source and target",
			in:   "[fr]\nLe chat mange.\n[en]\nThe cat eats.\n",
			want: []LangText{{Lang: "fr", Text: "Le chat mange."}, {Lang: "en", Text: "The cat eats."}},
		},
		{
			name: "text across lines",
			in:   "[fr]\nLe chat\nmange.\n\n[en]\nThe cat\neats.",
			want: []LangText{{Lang: "fr", Text: "Le chat\nmange."}, {Lang: "en", Text: "The cat\neats."}},
		},
		{
			name: "preamble ignored",
			in:   "notes\n\n[de]\nDie Katze\n",
			want: []LangText{{Lang: "de", Text: "Die Katze"}},
		},
		{
			name: "empty block skipped",
			in:   "[fr]\n[en]\nThe cat\n",
			want: []LangText{{Lang: "en", Text: "The cat"}},
		},
		{
			name: "header with spaces around",
			in:   "  [pt-br]  \nO gato\n",
			want: []LangText{{Lang: "pt-br", Text: "O gato"}},
		},
		{
			name:    "no header",
			in:      "Le chat mange.\nThe cat eats.\n",
			wantErr: ErrNoLanguage.Error(),
		},
		{
			name:    "empty input",
			in:      "",
			wantErr: ErrNoLanguage.Error(),
		},
		{
			name:    "language twice",
			in:      "[fr]\nLe chat\n[en]\nThe cat\n[fr]\nUn chat\n",
			wantErr: `language "fr" appears more than once`,
		},
		{
			name:    "headers without text",
			in:      "[fr]\n\n[en]\n",
			wantErr: "no text found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadBlocks(strings.NewReader(tt.in))
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromBlocks(t *testing.T) {
	blocks := []LangText{
		{Lang: "fr", Text: "Le chat\nmange"},
		{Lang: "en", Text: "The cat eats"},
		{Lang: "de", Text: "Die Katze"},
	}

	e, err := FromBlocks(blocks, nil)
	require.NoError(t, err)
	assert.Equal(t, "fr", e.SourceLang)
	assert.Equal(t, []string{"Le", "chat", "mange"}, e.Source.Tokens)
	assert.Equal(t, []string{"de", "en"}, e.Languages())

	e, err = FromBlocks(blocks, TokenizeSpacing)
	require.NoError(t, err)
	assert.Equal(t, []string{"Le", MarkerSpace, "chat", MarkerNewline, "mange"}, e.Source.Tokens)

	_, err = FromBlocks(nil, nil)
	require.ErrorIs(t, err, ErrNoLanguage)
}
