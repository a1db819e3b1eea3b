package richtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParagraphWithBoldAndList(t *testing.T) {
	src := `<p>Work done: <strong>AC repaired</strong></p><ul><li>Step 1</li><li>Step 2</li></ul>`

	blocks := Parse(src, Options{})
	require.Len(t, blocks, 3)

	para := blocks[0]
	assert.Equal(t, Paragraph, para.Kind)
	require.Len(t, para.Runs, 2)
	assert.Equal(t, "Work done: ", para.Runs[0].Text)
	assert.False(t, para.Runs[0].Bold)
	assert.Equal(t, "AC repaired", para.Runs[1].Text)
	assert.True(t, para.Runs[1].Bold)

	assert.Equal(t, ListItem, blocks[1].Kind)
	assert.Equal(t, 0, blocks[1].Depth)
	assert.Equal(t, "Step 1", blocks[1].Text())

	assert.Equal(t, ListItem, blocks[2].Kind)
	assert.Equal(t, 0, blocks[2].Depth)
	assert.Equal(t, "Step 2", blocks[2].Text())
}

func TestParseNestedList(t *testing.T) {
	src := `<ul><li>Outer<ul><li>Inner A</li><li>Inner B</li></ul></li><li>Second</li></ul>`

	blocks := Parse(src, Options{})
	require.Len(t, blocks, 4)

	assert.Equal(t, "Outer", blocks[0].Text())
	assert.Equal(t, 0, blocks[0].Depth)
	assert.Equal(t, "Inner A", blocks[1].Text())
	assert.Equal(t, 1, blocks[1].Depth)
	assert.Equal(t, "Inner B", blocks[2].Text())
	assert.Equal(t, 1, blocks[2].Depth)
	assert.Equal(t, "Second", blocks[3].Text())
	assert.Equal(t, 0, blocks[3].Depth)
}

func TestParseLineBreaks(t *testing.T) {
	src := `<p>First line<br>Second line</p>`

	blocks := Parse(src, Options{})
	require.Len(t, blocks, 2)
	assert.Equal(t, "First line", blocks[0].Text())
	assert.Equal(t, "Second line", blocks[1].Text())
}

func TestHeadingDetection(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		heading bool
	}{
		{name: "short title", line: "Trabajos Realizados", heading: true},
		{name: "sentence with period", line: "Se reviso el equipo.", heading: false},
		{name: "line with digits", line: "220V", heading: false},
		{name: "technical vocabulary", line: "Cambio de compresor", heading: false},
		{name: "long line", line: "Esta es una linea demasiado larga para ser considerada un titulo de seccion", heading: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := Parse("<p>"+tt.line+"</p>", Options{DetectHeadings: true})
			require.Len(t, blocks, 1)
			if tt.heading {
				assert.Equal(t, Heading, blocks[0].Kind)
			} else {
				assert.Equal(t, Paragraph, blocks[0].Kind)
			}
		})
	}
}

func TestHeadingDetectionDisabled(t *testing.T) {
	blocks := Parse("<p>Trabajos Realizados</p>", Options{})
	require.Len(t, blocks, 1)
	assert.Equal(t, Paragraph, blocks[0].Kind)
}

func TestParsePlainText(t *testing.T) {
	blocks := Parse("just a plain description", Options{})
	require.Len(t, blocks, 1)
	assert.Equal(t, Paragraph, blocks[0].Kind)
	assert.Equal(t, "just a plain description", blocks[0].Text())
}

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, Parse("", Options{}))
}
