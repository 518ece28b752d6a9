package unsupported

//barexp:export
type Shape interface{ Area() float64 } // want `Export only supports structs, enums, and functions \(Shape is an interface\)`

//barexp:export
type Ratio float64 // want `Export only supports structs, enums, and functions \(Ratio is a float64 type\)`

//barexp:export
type Handler func() // want `\(Handler is a func type\)`

//barexp:export
type Names []string // want `\(Names is a slice type\)`

//barexp:export
type Alias = Ratio // want `\(Alias is a type alias\)`

type Counter struct{ n int }

//barexp:export
func (c *Counter) Inc() { c.n++ } // want `\(Inc is a method\)`

//barexp:export
func init() {} // want `\(init is not referenceable\)`

//barexp:export
var Default = Counter{} // want `\(Default is a var declaration\)`

//barexp:export
const Max = 3 // want `\(Max is a const declaration\)`

//barexp:export
type ( // want `export directive on a grouped type declaration`
	A struct{}
	B struct{}
)

func local() Counter {
	//barexp:export
	type inner struct{} // want `\(inner is a local declaration\)`
	_ = inner{}
	return Default
}

var _ = local
