package literal_test

import (
	"fmt"

	"github.com/ardnew/tdict/literal"
)

func ExampleParse() {
	for _, text := range []string{`42`, `'default'`, `[1, 2.5, None]`, `os.Exit(1)`} {
		v, err := literal.Parse(text)
		if err != nil {
			fmt.Println("rejected:", text)

			continue
		}

		fmt.Printf("%T %v\n", v, v)
	}
	// Output:
	// int64 42
	// string default
	// []interface {} [1 2.5 <nil>]
	// rejected: os.Exit(1)
}
