package basic

//barexp:export
type Widget struct {
	Name string
}

// Color is a palette entry.
//
//barexp:export-fullpath
type Color int

const (
	Red Color = iota
	Blue
)

//barexp:export
type Label string

type Severity uint8

//barexp:export
type Level Severity

//barexp:export
func NewWidget(name string) *Widget { return &Widget{Name: name} }

type (
	//barexp:export
	Gadget struct{}

	Plain struct{}
)

// Prose mentioning barexp:export is not a directive.
type Prose struct{}
