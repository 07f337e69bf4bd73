package lpfile_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/katalvlaran/lpr/lpfile"
)

////////////////////////////////////////////////////////////////////////////////
// Parse / Write Examples
////////////////////////////////////////////////////////////////////////////////

// ExampleParse reads a three-item knapsack. Every "bin" tag gains its
// x_j <= 1 row, which Write renders back.
func ExampleParse() {
	src := `
max 10 6 4
5 4 3 <= 8
bin bin bin
`
	m, err := lpfile.Parse(strings.NewReader(src))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(m.NumVariables(), m.NumConstraints())
	_ = lpfile.Write(os.Stdout, m)
	// Output:
	// 3 4
	// max 10 6 4
	// 5 4 3 <= 8
	// 1 0 0 <= 1
	// 0 1 0 <= 1
	// 0 0 1 <= 1
	// bin bin bin
}

// ExampleParse_formatError shows the line number carried by a malformed row.
func ExampleParse_formatError() {
	_, err := lpfile.Parse(strings.NewReader("max 1 1\n1 1 8\n+ +\n"))
	fmt.Println(err)
	// Output:
	// lpfile: line 2: relation symbol (<=, >=, =) not found
}
