package annotate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/openapi-xmldoc/pkg/symbol"
	"github.com/example/openapi-xmldoc/pkg/xmldoc"
)

// docs uses ~ in place of the backtick that generic identifiers contain.
var docs = strings.ReplaceAll(`<doc><members>
	<member name="T:Acme.Api.WidgetsController">
		<summary>Widget endpoints.</summary>
		<response code="401">Caller is not authenticated.</response>
		<response code="404">Controller-level not found.</response>
	</member>
	<member name="M:Acme.Api.WidgetsController.Get(System.Int32)">
		<summary>Gets a widget</summary>
		<remarks>Looks the widget up by <paramref name="id"/>.</remarks>
		<response code="200">The widget.</response>
		<response code="404">No such widget.</response>
	</member>
	<member name="M:Acme.Api.WidgetsController.Create(Acme.Api.Widget)">
		<summary>Creates a widget</summary>
		<param name="widget" example="{&quot;name&quot;:&quot;Sprocket&quot;}">The widget to create.</param>
		<param name="label" example="spare">Free-form label.</param>
		<param name="dryRun">Validate only.</param>
		<param name="note" example=" spare ">Padded label.</param>
	</member>
	<member name="M:Acme.Api.WidgetsController.Rename(System.String)">
		<param name="name" example="{broken">New name.</param>
	</member>
	<member name="T:Acme.Api.Repository~1">
		<response code="500">Storage failure.</response>
	</member>
	<member name="M:Acme.Api.Repository~1.Create(~0)">
		<summary>Stores an item</summary>
		<param name="item" example="7">The item.</param>
	</member>
	<member name="T:Acme.Api.Widget">
		<summary>A widget.</summary>
	</member>
	<member name="T:Acme.Api.Gadget">
		<remarks>No summary here.</remarks>
	</member>
	<member name="P:Acme.Api.Widget.Name">
		<summary>Display name.</summary>
		<example>Sprocket</example>
	</member>
	<member name="P:Acme.Api.Widget.Size">
		<summary>Size in millimetres.</summary>
		<example>
			12
		</example>
	</member>
	<member name="P:Acme.Api.Widget.Parent">
		<example>null</example>
	</member>
	<member name="F:Acme.Api.Widget.Code">
		<summary>Internal code.</summary>
		<example>{oops</example>
	</member>
</members></doc>`, "~", "`")

func loadIndex(t *testing.T) *xmldoc.Index {
	t.Helper()
	ix, err := xmldoc.LoadString(docs)
	require.NoError(t, err)
	return ix
}

func widgetsMethod(name string, params ...string) *symbol.Method {
	m := &symbol.Method{DeclaringType: symbol.MustParseType("Acme.Api.WidgetsController"), Name: name}
	for i := 0; i+1 < len(params); i += 2 {
		m.AddParam(params[i], symbol.MustParseType(params[i+1]))
	}
	return m
}

// closedRepository returns Repository<Acme.Api.Widget> linked to its open
// definition, plus the closed Create method.
func closedRepository(t *testing.T) (*symbol.Type, *symbol.Method) {
	t.Helper()
	def := symbol.MustParseType("Acme.Api.Repository`1")
	create := &symbol.Method{Name: "Create"}
	create.AddParam("item", symbol.MustParseType("!0"))
	def.Methods = []*symbol.Method{create}

	reg := symbol.NewRegistry()
	require.NoError(t, reg.Define(def))
	closed, err := reg.Resolve("Acme.Api.Repository<Acme.Api.Widget>")
	require.NoError(t, err)
	return closed, symbol.Instantiate(create, closed)
}

func widgetMember(name string, kind symbol.MemberKind) *symbol.Member {
	return &symbol.Member{DeclaringType: symbol.MustParseType("Acme.Api.Widget"), Name: name, Kind: kind}
}
