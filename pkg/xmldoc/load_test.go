package xmldoc

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetDocs = `<?xml version="1.0"?>
<doc>
    <assembly>
        <name>Acme.Api</name>
    </assembly>
    <members>
        <member name="T:Acme.Api.WidgetsController">
            <summary>Widget endpoints.</summary>
            <response code="401">Caller is not authenticated.</response>
        </member>
        <member name="M:Acme.Api.WidgetsController.Get(System.Int32)">
            <summary>Gets a widget</summary>
            <remarks>Looks the widget up by &lt;id&gt;.</remarks>
            <param name="id" example="42">The widget id.</param>
            <response code="200">The widget.</response>
            <response code="404">No such widget.</response>
        </member>
        <member name="P:Acme.Api.Widget.Name">
            <summary>Display name.</summary>
            <example>Sprocket &amp; Co</example>
        </member>
    </members>
</doc>`

func TestLoad(t *testing.T) {
	ix, err := LoadString(widgetDocs)
	require.NoError(t, err)
	assert.Equal(t, 3, ix.Len())

	node, ok := ix.Lookup("M:Acme.Api.WidgetsController.Get(System.Int32)")
	require.True(t, ok)
	assert.Equal(t, "member", node.Name())

	summary := node.Child("summary")
	require.NotNil(t, summary)
	assert.Equal(t, "Gets a widget", summary.InnerXML())
	assert.Equal(t, "Looks the widget up by &lt;id&gt;.", node.Child("remarks").InnerXML())
	assert.Equal(t, "Looks the widget up by <id>.", node.Child("remarks").Text())

	responses := node.Children("response")
	require.Len(t, responses, 2)
	assert.Equal(t, "200", responses[0].Attr("code"))
	assert.Equal(t, "404", responses[1].Attr("code"))

	params := node.Children("param")
	require.Len(t, params, 1)
	assert.Equal(t, "42", params[0].Attr("example"))
	assert.Empty(t, params[0].Attr("missing"))

	assert.Nil(t, node.Child("example"))
	assert.Empty(t, node.Children("typeparam"))

	prop, ok := ix.Lookup("P:Acme.Api.Widget.Name")
	require.True(t, ok)
	assert.Equal(t, "Sprocket & Co", prop.Child("example").Text())

	_, ok = ix.Lookup("T:Acme.Api.Missing")
	assert.False(t, ok)
}

func TestLoadInvalid(t *testing.T) {
	_, err := LoadString(`<doc><members><member name="x">`)
	assert.Error(t, err)
}

func TestIndexLastWriteWins(t *testing.T) {
	ix, err := LoadString(`<doc><members>
		<member name="T:A"><summary>first</summary></member>
		<member name="T:A"><summary>second</summary></member>
	</members></doc>`)
	require.NoError(t, err)
	assert.Equal(t, 1, ix.Len())

	node, ok := ix.Lookup("T:A")
	require.True(t, ok)
	assert.Equal(t, "second", node.Child("summary").InnerXML())
}

func TestNilIndex(t *testing.T) {
	var ix *Index
	_, ok := ix.Lookup("T:A")
	assert.False(t, ok)
	assert.Zero(t, ix.Len())
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "First.xml")
	second := filepath.Join(dir, "Second.xml")
	require.NoError(t, os.WriteFile(first, []byte(`<doc><members>
		<member name="T:A"><summary>from first</summary></member>
		<member name="T:B"><summary>only first</summary></member>
	</members></doc>`), 0o644))
	require.NoError(t, os.WriteFile(second, []byte(`<doc><members>
		<member name="T:A"><summary>from second</summary></member>
	</members></doc>`), 0o644))

	ix, err := LoadFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Len())

	a, _ := ix.Lookup("T:A")
	assert.Equal(t, "from second", a.Child("summary").InnerXML())
	b, _ := ix.Lookup("T:B")
	assert.Equal(t, "only first", b.Child("summary").InnerXML())

	_, err = LoadFiles(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}

func TestIndexConcurrentReads(t *testing.T) {
	ix, err := LoadString(widgetDocs)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			node, ok := ix.Lookup("T:Acme.Api.WidgetsController")
			assert.True(t, ok)
			assert.Len(t, node.Children("response"), 1)
		}()
	}
	wg.Wait()
}
