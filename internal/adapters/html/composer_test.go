package html_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/html"
	"go.trai.ch/kiln/internal/core/domain"
)

func writePartials(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestImport(t *testing.T) {
	dir := writePartials(t, map[string]string{
		"header.html":   "<header>@import \"nav/menu.html\"</header>",
		"nav/menu.html": "<nav>menu</nav>",
		"footer.html":   "<footer>bye</footer>",
	})

	page := []byte("<body>\n@import \"header.html\";\n<main></main>\n@import 'footer.html'\n</body>")
	out, err := html.NewComposer().Import(page, dir)
	require.NoError(t, err)
	assert.Equal(t, "<body>\n<header><nav>menu</nav></header>\n<main></main>\n<footer>bye</footer>\n</body>", string(out))
}

func TestImport_SamePartialTwice(t *testing.T) {
	dir := writePartials(t, map[string]string{"icon.html": "<i></i>"})

	out, err := html.NewComposer().Import([]byte(`@import "icon.html"@import "icon.html"`), dir)
	require.NoError(t, err)
	assert.Equal(t, "<i></i><i></i>", string(out))
}

func TestImport_Errors(t *testing.T) {
	dir := writePartials(t, map[string]string{
		"a.html": `@import "b.html"`,
		"b.html": `@import "a.html"`,
	})

	_, err := html.NewComposer().Import([]byte(`@import "a.html"`), dir)
	require.ErrorIs(t, err, domain.ErrImportCycle)

	_, err = html.NewComposer().Import([]byte(`@import "missing.html"`), dir)
	require.ErrorIs(t, err, domain.ErrPartialNotFound)
}

func TestImport_OutsidePartialsDir(t *testing.T) {
	root := writePartials(t, map[string]string{
		"secret.html":               "<p>secret</p>",
		"src/components/nav.html":   "<nav></nav>",
		"src/components/inner.html": `@import "../../secret.html"`,
	})
	dir := filepath.Join(root, "src", "components")

	for _, name := range []string{"../../secret.html", filepath.Join(root, "secret.html"), "inner.html"} {
		t.Run(name, func(t *testing.T) {
			out, err := html.NewComposer().Import([]byte(`@import "`+name+`"`), dir)
			require.ErrorIs(t, err, domain.ErrPartialNotFound)
			assert.Nil(t, out)
		})
	}
}

func TestApplyTemplate_Golden(t *testing.T) {
	tpl, err := os.ReadFile("testdata/layout.html")
	require.NoError(t, err)
	page, err := os.ReadFile("testdata/about.html")
	require.NoError(t, err)

	out, err := html.NewComposer().ApplyTemplate(tpl, page)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "template", out)
}

func TestApplyTemplate_Unterminated(t *testing.T) {
	c := html.NewComposer()

	_, err := c.ApplyTemplate([]byte("<!-- build:a -->x"), nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, html.ErrUnterminatedRegion.Error())

	_, err = c.ApplyTemplate([]byte("ok"), []byte("<!-- build:b -->y"))
	require.Error(t, err)
}

func TestStripDevComments(t *testing.T) {
	page := []byte("<head>\n  <title>x</title>\n  <!--DEV\n  <script src=\"debug.js\"></script>\n  -->\n</head>")
	out := html.NewComposer().StripDevComments(page)
	assert.Equal(t, "<head>\n  <title>x</title>\n</head>", string(out))

	untouched := []byte("<!-- regular comment -->")
	assert.Equal(t, untouched, html.NewComposer().StripDevComments(untouched))
}
