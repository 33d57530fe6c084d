package uni

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextWidthDefault(t *testing.T) {
	val := "áb世"

	assert.Equal(t, 4, TextWidth(val, nil))
}

func TestTextWidthOptions(t *testing.T) {
	star := "a☆"
	eye := "a\U0001F441"

	assert.Equal(t, 2, TextWidth(star, nil))

	eastAsian := &Options{EastAsianWidth: true}
	assert.Equal(t, 3, TextWidth(star, eastAsian))
	assert.Equal(t, 2, TextWidth(eye, eastAsian))

	wideEmoji := &Options{
		EastAsianWidth:   true,
		TreatEmojiAsWide: true,
	}
	assert.Equal(t, 3, TextWidth(eye, wideEmoji))
}

func TestRuneWidth(t *testing.T) {
	eastAsian := &Options{EastAsianWidth: true}

	assert.Equal(t, 1, RuneWidth('a', nil))
	assert.Equal(t, 2, RuneWidth('世', nil))
	assert.Equal(t, 1, RuneWidth('☆', nil))
	assert.Equal(t, 2, RuneWidth('☆', eastAsian))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		str   string
		width int
		tail  string
		want  string
	}{
		{name: "fits", str: "hello", width: 5, tail: "…", want: "hello"},
		{name: "cut with tail", str: "hello world", width: 8, tail: "…", want: "hello w…"},
		{name: "cut without tail", str: "hello world", width: 5, tail: "", want: "hello"},
		{name: "keeps combining marks together", str: "áb世", width: 3, tail: "", want: "áb"},
		{name: "wide rune does not split", str: "世世世", width: 4, tail: "…", want: "世…"},
		{name: "zero width", str: "abc", width: 0, tail: "…", want: ""},
		{name: "tail wider than width", str: "abcdef", width: 1, tail: "...", want: "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.str, tt.width, tt.tail, nil))
		})
	}
}

func TestPadRightAndFit(t *testing.T) {
	assert.Equal(t, "ab  ", PadRight("ab", 4, nil))
	assert.Equal(t, "abcdef", PadRight("abcdef", 4, nil))
	assert.Equal(t, "世  ", PadRight("世", 4, nil))

	assert.Equal(t, "abc…", Fit("abcdef", 4, nil))
	assert.Equal(t, "世… ", Fit("世世世", 4, nil))
	assert.Equal(t, "ab  ", Fit("ab", 4, nil))
}
