package tmpl_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/ardnew/tdict/tmpl"
)

func Example() {
	t := tmpl.Must(tmpl.New(map[string]any{
		"greeting": "[!f:Hello, {user-name}!]",
		"admin":    "[user.admin:false]",
		"total":    "[!x:sum:[orders.amount]]",
	}))

	fmt.Println(t.Keys())

	v, err := t.Evaluate(context.Background(), map[string]any{
		"user": map[string]any{"name": "Ann"},
		"orders": []any{
			map[string]any{"amount": 3},
			map[string]any{"amount": 4},
		},
	})
	if err != nil {
		fmt.Println(err)

		return
	}

	m := v.(map[string]any)
	fmt.Println(m["greeting"], m["admin"], m["total"])
	// Output:
	// [user orders]
	// Hello, Ann! false 7
}

func ExampleTemplate_Evaluate_escape() {
	t := tmpl.Must(tmpl.New("`[escaped]`:[value]"))

	v, _ := t.Evaluate(context.Background(), map[string]any{"value": "x"})
	fmt.Println(v)
	// Output:
	// [escaped]:x
}

func ExampleTemplate_Evaluate_missing() {
	t := tmpl.Must(tmpl.New("[key]"))

	_, err := t.Evaluate(context.Background(), map[string]any{})
	fmt.Println(errors.Is(err, tmpl.ErrKeyNotFound))
	// Output:
	// true
}
