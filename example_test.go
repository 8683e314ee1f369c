package jamplate_test

import (
	"fmt"
	"os"

	"github.com/jamplate/jamplate/grammar"
	"github.com/jamplate/jamplate/parser"
	"github.com/jamplate/jamplate/source"
	"github.com/jamplate/jamplate/tree"
)

func Example() {
	p := parser.MergeByOrder(parser.Combine(
		parser.MustTerm(`"[^"]*"`, 10, true, parser.Kind("string")),
		parser.MustEnclosure("\\{", "\\}", 0, true, parser.Kind("braces")),
		parser.MustTerm(",", 0, true, parser.Kind("comma")),
	))

	c := parser.NewCompilation(source.NewString("example", `x{a,"b}",c}`))
	if e := parser.NewDriver().Run(c, p); e != nil {
		fmt.Println(e)
		return
	}

	fmt.Println(tree.Dump(c.Root()))

	// Output:
	// (root [0:11] (braces [1:10] (comma [3:1]) (string [4:4]) (comma [8:1])))
}

func Example_grammar() {
	root, e := grammar.Default().Parse(source.NewString("example", "x /* { */ }"))
	if e != nil {
		fmt.Println(e)
		return
	}

	tree.Fprint(os.Stdout, root)

	// Output:
	// root [0:11]
	//   block-comment [2:7] "/* { */"
}
