package domain

import "time"

const (
	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "kiln.yaml"

	// DefaultSourceDir is the source root relative to the project root.
	DefaultSourceDir = "src"

	// DefaultOutputDir is the build output root relative to the project root.
	DefaultOutputDir = "build"

	// DefaultHost is the dev server host.
	DefaultHost = "localhost"

	// DefaultPort is the dev server port.
	DefaultPort = 3000

	// DefaultDebounce is the window used to coalesce bursts of file events.
	DefaultDebounce = 100 * time.Millisecond

	// ReloadPath is the websocket endpoint of the dev server reload channel.
	ReloadPath = "/__kiln/ws"

	// DirPerm is the default permission for directories (rwxr-xr-x).
	DirPerm = 0o755

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Subdirectories of the source root.
const (
	StylesDir    = "scss"
	ScriptsDir   = "js"
	SVGDir       = "svg"
	ImagesDir    = "img"
	ContentDir   = "content"
	TemplatesDir = "templates"
	ComponentDir = "component"
	TemplateFile = "template.html"
)

// Subdirectories of the output root.
const (
	OutputStylesDir  = "css"
	OutputScriptsDir = "js"
	OutputImagesDir  = "img"
)

// Names of the files produced by combining tasks.
const (
	ScriptBundleName = "script.min.js"
	VendorBundleName = "vendors.min.js"
	SpriteName       = "sprite-svg.svg"
	MinSuffix        = ".min"
)

// DefaultVendors lists the third-party scripts concatenated into the vendor bundle.
func DefaultVendors() []string {
	return []string{
		"node_modules/jquery/dist/jquery.min.js",
		"node_modules/slick-carousel/slick/slick.min.js",
		"node_modules/svg4everybody/dist/svg4everybody.min.js",
	}
}

// DefaultBrowsers lists the engine targets used for vendor prefixing.
func DefaultBrowsers() []string {
	return []string{"chrome120", "edge120", "firefox120", "safari16", "ios16"}
}
