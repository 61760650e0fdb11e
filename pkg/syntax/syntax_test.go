package syntax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitedit/kite/pkg/buffer"
	"github.com/kitedit/kite/pkg/syntax"
)

func TestUnknownLanguageFailsWithoutCrashing(t *testing.T) {
	reg := syntax.NewRegistry()
	_, _, _, ok := reg.Get("cobol")
	assert.False(t, ok)
}

func TestRegistryInitializesLanguageOnceAndCaches(t *testing.T) {
	reg := syntax.NewRegistry()
	desc1, q1, names1, ok1 := reg.Get("go")
	require.True(t, ok1)
	desc2, q2, names2, ok2 := reg.Get("go")
	require.True(t, ok2)
	assert.Same(t, desc1, desc2)
	assert.Same(t, q1, q2)
	assert.Equal(t, names1, names2)
}

func TestJavaHighlightsIdentifierKeywordCommentString(t *testing.T) {
	src := `class HelloWorld { /* comment */ void main(String[] a){ System.out.println("Hello World!"); } }`
	b := buffer.New(src)

	tuple, ok := syntax.NewParsingTuple(syntax.DefaultRegistry, "java", func() []byte { return []byte(b.Text()) })
	require.True(t, ok)
	defer tuple.Close()
	tuple.Reparse()

	highlights := syntax.HighlightsInRange(tuple, b.Rope(), 0, b.Rope().LenChars())
	require.NotEmpty(t, highlights)

	var sawComment, sawString, sawClassKeyword bool
	identifierText := map[string]bool{}
	for _, h := range highlights {
		text := b.Rope().Slice(h.Begin, h.End)
		switch h.Capture {
		case "comment":
			sawComment = true
			assert.Contains(t, text, "comment")
		case "string":
			sawString = true
		case "keyword":
			if text == "class" {
				sawClassKeyword = true
			}
		case "identifier", "variable", "function":
			identifierText[text] = true
		}
	}
	assert.True(t, sawComment)
	assert.True(t, sawString)
	assert.True(t, sawClassKeyword, "expected a keyword capture for \"class\"")
	for _, want := range []string{"HelloWorld", "main", "println"} {
		assert.True(t, identifierText[want], "expected identifier-ish capture for %q", want)
	}
}

func TestHighlightIteratorSurvivesReparse(t *testing.T) {
	b := buffer.New("package main\n")
	tuple, ok := syntax.NewParsingTuple(syntax.DefaultRegistry, "go", func() []byte { return []byte(b.Text()) })
	require.True(t, ok)
	defer tuple.Close()
	tuple.Reparse()

	it := syntax.NewHighlightIterator(tuple, 0, len(b.Text()), func(n int) int { return n })
	defer it.Close()

	// Mutate and reparse the buffer while the iterator above still holds a
	// reference to the tree it was built against.
	b.InsertBlock(b.Rope().LenChars(), "func main() {}\n")
	tuple.Reparse()

	// The iterator must not panic when drained after the underlying tuple
	// has moved on to a new tree.
	for {
		_, more := it.Next()
		if !more {
			break
		}
	}
}
