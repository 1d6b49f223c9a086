package components

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/jon4hz/chessweb/internal/api/auth"
	"github.com/jon4hz/chessweb/internal/api/flash"
	"github.com/jon4hz/chessweb/internal/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(ctx, &buf))
	return buf.String()
}

func TestFlashesAreEscaped(t *testing.T) {
	out := render(t, context.Background(), Flashes([]flash.Message{
		{Text: "Signup successful for <script>!", Category: flash.Success},
	}))
	assert.Contains(t, out, `class="notification is-success"`)
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}

func TestNavbar(t *testing.T) {
	anon := render(t, context.Background(), Navbar(auth.Identity{}))
	assert.Contains(t, anon, `href="/user/login"`)
	assert.NotContains(t, anon, "Signed in as")

	user := render(t, context.Background(), Navbar(auth.Identity{UserID: 1, Username: "ada", Since: time.Now().Add(-5 * time.Minute)}))
	assert.Contains(t, user, "Signed in as")
	assert.Contains(t, user, "ada")
	assert.Contains(t, user, "minutes ago")
	assert.Contains(t, user, `href="/user/logout"`)
}

func TestBoardTable(t *testing.T) {
	out := render(t, context.Background(), BoardTable(chess.InitialLayout()))

	assert.Contains(t, out, "table is-bordered is-striped is-hoverable is-fullwidth")
	assert.Equal(t, 9, strings.Count(out, "<tr>"))
	assert.Equal(t, 64, strings.Count(out, "<td "))

	// rank 8 starts with the black rook on a8
	rank8 := out[strings.Index(out, "<th>8</th>"):]
	assert.True(t, strings.HasPrefix(rank8, `<th>8</th><td title="black rook">♜</td>`))

	rank1 := out[strings.Index(out, "<th>1</th>"):]
	assert.True(t, strings.HasPrefix(rank1, `<th>1</th><td title="white rook">♖</td>`))
}

func TestFormCarriesToken(t *testing.T) {
	form := Form("/user/login?next=%2Fchess%2Fboard%2F", "tok-123", []Field{
		{Label: "Username", Name: "username", Type: "text", Value: `a"b`},
		{Label: "Password", Name: "password", Type: "password", Value: "secret"},
	}, FieldErrors{"username": {"This field is required."}}, "Log in")
	out := render(t, templ.WithChildren(context.Background(), Checkbox("remember_me", "Remember me")), form)

	assert.Contains(t, out, `name="csrf_token" value="tok-123"`)
	assert.Contains(t, out, `value="a&#34;b"`)
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, `<p class="help is-danger">This field is required.</p>`)
	assert.Contains(t, out, `class="input is-danger"`)
	assert.Contains(t, out, `class="input"`)
	assert.Contains(t, out, `action="/user/login?next=%2Fchess%2Fboard%2F"`)
	assert.Contains(t, out, `name="remember_me"`)
	assert.Less(t, strings.Index(out, "remember_me"), strings.Index(out, `type="submit"`))
}

func TestLayoutWrapsChildren(t *testing.T) {
	page := Layout("ChessWeb Test", View{
		Flashes: []flash.Message{{Text: "hello", Category: flash.Info}},
	})
	body := templ.Raw(`<p id="content">body</p>`)
	out := render(t, templ.WithChildren(context.Background(), body), page)

	assert.True(t, strings.HasPrefix(out, "<!doctype html>"))
	assert.Contains(t, out, "<title>ChessWeb Test</title>")
	assert.Contains(t, out, `href="/static/style.css"`)
	assert.Less(t, strings.Index(out, "hello"), strings.Index(out, `id="content"`))
	assert.True(t, strings.HasSuffix(out, "</div></section></body></html>"))
}

func TestFormatGameNumber(t *testing.T) {
	assert.Equal(t, "#5", FormatGameNumber(5))
	assert.Equal(t, "#1,234,567", FormatGameNumber(1234567))
}
